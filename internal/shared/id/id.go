// Package id generates prefixed ULID identifiers for requests, spans and scans.
//
// ULIDs sort lexicographically by creation time, so log lines keyed by these
// IDs read in order. The prefix names the kind of thing identified.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies an inbound API request (and its trace)
type RequestID string

// SpanID identifies one traced operation
type SpanID string

// ScanID identifies a single page scan
type ScanID string

const (
	RequestPrefix = "req"
	SpanPrefix    = "span"
	ScanPrefix    = "scan"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewSpanID generates a new span ID
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

// NewScanID generates a new scan ID
func NewScanID() ScanID {
	return ScanID(Default().GenerateWithPrefix(ScanPrefix))
}

func (id RequestID) String() string { return string(id) }
func (id SpanID) String() string    { return string(id) }
func (id ScanID) String() string    { return string(id) }

// IsValid reports whether id is a bare or prefixed ULID
func IsValid(id string) bool {
	_, err := ulid.ParseStrict(stripPrefix(id))
	return err == nil
}

// Timestamp extracts the creation time from a bare or prefixed ULID
func Timestamp(id string) (time.Time, error) {
	parsed, err := ulid.Parse(stripPrefix(id))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

func stripPrefix(id string) string {
	if len(id) > ulid.EncodedSize && id[len(id)-ulid.EncodedSize-1] == '_' {
		return id[len(id)-ulid.EncodedSize:]
	}
	return id
}
