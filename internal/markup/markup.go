package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion
	MaxHTMLSize = 10 * 1024 * 1024

	defaultCharset = "utf-8"
)

// ErrTooLarge is returned for markup above the parser's size limit.
var ErrTooLarge = errors.New("html exceeds maximum size")

// Document is an immutable parsed page.
type Document struct {
	root    *html.Node
	charset string
}

// FromNode wraps an already parsed tree
func FromNode(root *html.Node) *Document {
	return &Document{root: root, charset: defaultCharset}
}

// Root returns the document node
func (d *Document) Root() *html.Node {
	return d.root
}

// Charset returns the source encoding the page was decoded from
func (d *Document) Charset() string {
	return d.charset
}

// Parser builds Documents from raw markup.
type Parser struct {
	maxSize   int
	sanitizer *bluemonday.Policy
}

// Option configures a Parser
type Option func(*Parser)

// WithMaxSize overrides MaxHTMLSize; zero or less keeps the default
func WithMaxSize(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxSize = n
		}
	}
}

// WithSanitizer strips active content before parsing
func WithSanitizer() Option {
	return func(p *Parser) {
		p.sanitizer = bluemonday.UGCPolicy()
	}
}

// NewParser creates a parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{maxSize: MaxHTMLSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes and parses data. Empty input parses to an empty document.
func (p *Parser) Parse(data []byte) (*Document, error) {
	if len(data) > p.maxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), p.maxSize)
	}

	if p.sanitizer != nil {
		data = p.sanitizer.SanitizeBytes(data)
	}

	detected := DetectCharset(data)
	root, err := html.Parse(decode(data, detected))
	if err != nil {
		return nil, fmt.Errorf("html parse: %w", err)
	}

	return &Document{root: root, charset: detected}, nil
}

// DetectCharset returns the encoding of data. Valid UTF-8 is taken as is;
// anything else is left to chardet.
func DetectCharset(data []byte) string {
	if utf8.Valid(data) {
		return defaultCharset
	}
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return defaultCharset
	}
	return strings.ToLower(result.Charset)
}

func decode(data []byte, detected string) io.Reader {
	if detected == defaultCharset {
		return bytes.NewReader(data)
	}
	r, err := charset.NewReader(bytes.NewReader(data), "text/html; charset="+detected)
	if err != nil {
		return bytes.NewReader(data)
	}
	return r
}

// NodeText concatenates the text beneath n and trims surrounding whitespace
func NodeText(n *html.Node) string {
	var buf bytes.Buffer
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.TrimSpace(buf.String())
}
