package scan

import "errors"

var (
	// ErrFetch marks failures retrieving the page.
	ErrFetch = errors.New("fetch failed")
	// ErrParse marks failures turning markup into a traversable document.
	ErrParse = errors.New("parse failed")
)

// NoNumericTable is the outcome message when no table carries a numeric column.
const NoNumericTable = "no numeric table found"

// RawTable is one <table> as found in the document: the flattened header
// texts and the td texts of every row that had at least one cell.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Row maps column labels to cell text and remembers the order in which
// labels were first set. Reassigning a label keeps its original position.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow creates an empty row
func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// Set assigns text to a label, overwriting any earlier value
func (r *Row) Set(label, text string) {
	if _, exists := r.values[label]; !exists {
		r.keys = append(r.keys, label)
	}
	r.values[label] = text
}

// Get returns the text under label
func (r *Row) Get(label string) (string, bool) {
	v, ok := r.values[label]
	return v, ok
}

// Keys returns labels in iteration order
func (r *Row) Keys() []string {
	return r.keys
}

// Len returns the number of labels
func (r *Row) Len() int {
	return len(r.keys)
}

// Table is the ordered rows of one normalised source table.
type Table []*Row

// MeasurementPair is one charted point. Value is nil when no column of the
// row held a measurement; Name is nil when the row had no other column.
type MeasurementPair struct {
	Value *float64 `json:"value" yaml:"value" toml:"value,omitempty"`
	Name  *string  `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
}

// Outcome is the result of a scan: either a reduced table or a message.
type Outcome struct {
	Table   []MeasurementPair `json:"table,omitempty" yaml:"table,omitempty" toml:"table,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
}

// Found reports whether a numeric table was selected
func (o Outcome) Found() bool {
	return o.Message == ""
}
