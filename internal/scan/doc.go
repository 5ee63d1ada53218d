// Package scan turns a parsed HTML page into a chartable (label, value) series.
//
// The pipeline runs leaves first:
//   - Collector: every <table> becomes a RawTable (flat header list, cell rows)
//   - Normalize: header labels are zipped with cells into ordered Rows
//   - NumericColumns: columns whose every value carries a meters measurement
//   - SelectTable: the first table in document order with a numeric column
//   - Reduce: each row becomes a MeasurementPair
//
// A measurement is an integer or decimal number followed, optionally after
// whitespace, by a lowercase "m". No other unit or locale is recognised.
//
// Everything except Scanner.Scan is a pure function of its input. Scanner
// adds the two blocking collaborators, a Fetcher and a Parser.
//
// Example Usage:
//
//	scanner := scan.NewScanner(fetcher, parser, scan.WithLogger(logger))
//	outcome, err := scanner.Scan(ctx, "https://example.com/heights")
//	if outcome.Found() {
//	    for _, p := range outcome.Table { ... }
//	}
package scan
