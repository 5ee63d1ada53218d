package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/TableScan/internal/markup"
)

type fakeFetcher struct {
	pages map[string]string
	err   error
}

func (f fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.pages[url]), nil
}

type failingParser struct{ err error }

func (p failingParser) Parse([]byte) (*markup.Document, error) {
	return nil, p.err
}

type recordingObserver struct {
	outcomes []string
	tables   []int
}

func (r *recordingObserver) ObserveScan(outcome string, _ time.Duration, tables int) {
	r.outcomes = append(r.outcomes, outcome)
	r.tables = append(r.tables, tables)
}

const pageURL = "https://example.com/page"

const towersPage = `<html><body>
<table>
  <tr><th>City</th><th>Population</th></tr>
  <tr><td>Springfield</td><td>30,000</td></tr>
</table>
<table>
  <tr><th>Tower</th><th>Height</th></tr>
  <tr><td>North</td><td>120 m</td></tr>
  <tr><td>South</td><td>98.5m</td></tr>
</table>
<table>
  <tr><th>Bridge</th><th>Width</th></tr>
  <tr><td>East</td><td>30 m</td></tr>
</table>
</body></html>`

func TestScanSelectsFirstNumericTable(t *testing.T) {
	for _, collector := range []Collector{CSSCollector{}, XPathCollector{}} {
		observer := &recordingObserver{}
		scanner := NewScanner(
			fakeFetcher{pages: map[string]string{pageURL: towersPage}},
			markup.NewParser(),
			WithCollector(collector),
			WithObserver(observer),
		)

		outcome, err := scanner.Scan(context.Background(), pageURL)

		require.NoError(t, err)
		assert.Equal(t, Outcome{Table: []MeasurementPair{
			{Value: ptr(120.0), Name: ptr("North")},
			{Value: ptr(98.5), Name: ptr("South")},
		}}, outcome)
		assert.Equal(t, []string{"table"}, observer.outcomes)
		assert.Equal(t, []int{3}, observer.tables)
	}
}

func TestScanWithoutNumericTable(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"zero tables", `<html><body><p>hello</p></body></html>`},
		{"empty document", ``},
		{"unit-less table", `<table><tr><th>height</th><th>name</th></tr><tr><td>12</td><td>Alice</td></tr></table>`},
		{"header-less table", `<table><tr><td>12 m</td></tr></table>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &recordingObserver{}
			scanner := NewScanner(
				fakeFetcher{pages: map[string]string{pageURL: tt.page}},
				markup.NewParser(),
				WithObserver(observer),
			)

			outcome, err := scanner.Scan(context.Background(), pageURL)

			require.NoError(t, err)
			assert.Equal(t, Outcome{Message: NoNumericTable}, outcome)
			assert.False(t, outcome.Found())
			assert.Equal(t, []string{"empty"}, observer.outcomes)
		})
	}
}

func TestScanWrapsFailures(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		fetcher Fetcher
		parser  Parser
		want    error
	}{
		{"fetch", fakeFetcher{err: cause}, markup.NewParser(), ErrFetch},
		{"parse", fakeFetcher{pages: map[string]string{}}, failingParser{err: cause}, ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &recordingObserver{}
			scanner := NewScanner(tt.fetcher, tt.parser, WithObserver(observer))

			outcome, err := scanner.Scan(context.Background(), pageURL)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, cause)
			assert.Equal(t, Outcome{}, outcome)
			assert.Equal(t, []string{"error"}, observer.outcomes)
		})
	}
}

func TestScanOversizePageIsParseError(t *testing.T) {
	page := `<table><tr><th>h</th></tr><tr><td>1 m</td></tr></table>`
	scanner := NewScanner(
		fakeFetcher{pages: map[string]string{pageURL: page}},
		markup.NewParser(markup.WithMaxSize(10)),
	)

	_, err := scanner.Scan(context.Background(), pageURL)

	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, markup.ErrTooLarge)
}

func TestTablesDropsEmptyTables(t *testing.T) {
	doc, err := markup.NewParser().Parse([]byte(`
		<table><tr><td>no header</td></tr></table>
		<table><tr><th>h</th></tr><tr><td>1 m</td></tr></table>`))
	require.NoError(t, err)

	tables, err := NewScanner(nil, nil).Tables(doc)

	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"h"}, tables[0][0].Keys())
}
