package scan

// SelectTable returns the first table in order that has a numeric column.
// Later candidates are never considered.
func SelectTable(tables []Table) (Table, bool) {
	for _, table := range tables {
		if len(NumericColumns(table)) > 0 {
			return table, true
		}
	}
	return nil, false
}
