package scan

// Reduce turns every row into a MeasurementPair, preserving order.
//
// Per row, the first value in key order holding a measurement supplies the
// number. Every other value is a label candidate, but only the first one is
// used as the name; the remaining columns are discarded. Earlier revisions
// documented this as joining all non-numeric values, which it never did.
//
// Rows are re-scanned independently of NumericColumns, so a row without any
// measurement yields a pair with a nil Value instead of an error.
func Reduce(table Table) []MeasurementPair {
	pairs := make([]MeasurementPair, 0, len(table))
	for _, row := range table {
		pairs = append(pairs, reduceRow(row))
	}
	return pairs
}

func reduceRow(row *Row) MeasurementPair {
	var (
		number string
		found  bool
		others []string
	)

	for _, key := range row.Keys() {
		text, _ := row.Get(key)
		if !found {
			if n, ok := ExtractMeasurement(text); ok {
				number, found = n, true
				continue
			}
		}
		others = append(others, text)
	}

	var pair MeasurementPair
	if found {
		pair.Value = parseMeasurement(number)
	}
	if len(others) > 0 {
		name := others[0]
		pair.Name = &name
	}
	return pair
}
