package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/GriffinCanCode/TableScan/internal/markup"
	"go.uber.org/zap"
)

// Fetcher retrieves the raw markup behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Parser turns raw markup into a document.
type Parser interface {
	Parse(data []byte) (*markup.Document, error)
}

// Observer receives one notification per completed scan. outcome is one of
// "table", "empty" or "error".
type Observer interface {
	ObserveScan(outcome string, duration time.Duration, tables int)
}

// Scanner runs the full pipeline for one URL at a time. It holds no state
// between calls and is safe for concurrent use if its collaborators are.
type Scanner struct {
	fetcher   Fetcher
	parser    Parser
	collector Collector
	observer  Observer
	logger    *zap.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithCollector sets the table collection strategy
func WithCollector(c Collector) Option {
	return func(s *Scanner) {
		if c != nil {
			s.collector = c
		}
	}
}

// WithObserver sets the scan observer
func WithObserver(o Observer) Option {
	return func(s *Scanner) {
		s.observer = o
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScanner creates a scanner using CSS collection by default
func NewScanner(fetcher Fetcher, parser Parser, opts ...Option) *Scanner {
	s := &Scanner{
		fetcher:   fetcher,
		parser:    parser,
		collector: CSSCollector{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan fetches url and reduces its first numeric-bearing table. Fetch and
// parse failures are returned wrapping ErrFetch or ErrParse; finding no
// numeric table is a normal Outcome carrying NoNumericTable.
func (s *Scanner) Scan(ctx context.Context, url string) (Outcome, error) {
	start := time.Now()
	log := s.logger.With(zap.String("url", url))

	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.observe("error", start, 0)
		return Outcome{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	log.Debug("page fetched", zap.Int("bytes", len(data)))

	doc, err := s.parser.Parse(data)
	if err != nil {
		s.observe("error", start, 0)
		return Outcome{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	tables, err := s.Tables(doc)
	if err != nil {
		s.observe("error", start, 0)
		return Outcome{}, err
	}
	log.Debug("tables collected", zap.Int("tables", len(tables)))

	outcome := Evaluate(tables)
	if outcome.Found() {
		log.Debug("numeric table selected", zap.Int("rows", len(outcome.Table)))
		s.observe("table", start, len(tables))
	} else {
		log.Debug("no numeric table", zap.Int("tables", len(tables)))
		s.observe("empty", start, len(tables))
	}
	return outcome, nil
}

// Tables collects and normalises the tables of doc, dropping tables that
// normalise to no rows.
func (s *Scanner) Tables(doc *markup.Document) ([]Table, error) {
	raw, err := s.collector.Collect(doc)
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(raw))
	for _, r := range raw {
		if t := Normalize(r); len(t) > 0 {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// Evaluate selects and reduces the first numeric-bearing table
func Evaluate(tables []Table) Outcome {
	table, ok := SelectTable(tables)
	if !ok {
		return Outcome{Message: NoNumericTable}
	}
	return Outcome{Table: Reduce(table)}
}

func (s *Scanner) observe(outcome string, start time.Time, tables int) {
	if s.observer != nil {
		s.observer.ObserveScan(outcome, time.Since(start), tables)
	}
}
