package scan

// NumericColumns returns the labels of the first row for which every row
// holds a measurement, in first-row order. An empty table has none.
func NumericColumns(table Table) []string {
	if len(table) == 0 {
		return nil
	}

	var numeric []string
	for _, label := range table[0].Keys() {
		if columnIsNumeric(table, label) {
			numeric = append(numeric, label)
		}
	}
	return numeric
}

func columnIsNumeric(table Table, label string) bool {
	for _, row := range table {
		if _, ok := extractFrom(row.Get(label)); !ok {
			return false
		}
	}
	return true
}
