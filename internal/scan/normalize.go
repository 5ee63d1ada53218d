package scan

// Normalize zips the header labels with each row's cells. Cells without a
// header are dropped, a repeated label keeps the later cell, and rows that
// end up with no labels are discarded.
func Normalize(raw RawTable) Table {
	table := make(Table, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		row := NewRow()
		for i, text := range cells {
			if i >= len(raw.Headers) {
				break
			}
			row.Set(raw.Headers[i], text)
		}
		if row.Len() > 0 {
			table = append(table, row)
		}
	}
	return table
}
