package scan

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/TableScan/internal/markup"
	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Collector strategy names
const (
	CollectorCSS   = "css"
	CollectorXPath = "xpath"
)

// Collector finds the tables of a document in document order.
type Collector interface {
	Collect(doc *markup.Document) ([]RawTable, error)
}

// CollectorFor returns the collector registered under name
func CollectorFor(name string) (Collector, error) {
	switch strings.ToLower(name) {
	case "", CollectorCSS:
		return CSSCollector{}, nil
	case CollectorXPath:
		return XPathCollector{}, nil
	default:
		return nil, fmt.Errorf("unknown collector %q", name)
	}
}

// CSSCollector walks tables with goquery selectors.
type CSSCollector struct{}

// Collect implements Collector
func (CSSCollector) Collect(doc *markup.Document) ([]RawTable, error) {
	root, err := traversable(doc)
	if err != nil {
		return nil, err
	}

	var tables []RawTable
	goquery.NewDocumentFromNode(root).Find("table").Each(func(_ int, table *goquery.Selection) {
		headers := make([]string, 0)
		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, strings.TrimSpace(th.Text()))
		})

		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() == 0 {
				return
			}
			texts := make([]string, 0, cells.Length())
			cells.Each(func(_ int, td *goquery.Selection) {
				texts = append(texts, strings.TrimSpace(td.Text()))
			})
			rows = append(rows, texts)
		})

		if len(rows) > 0 {
			tables = append(tables, RawTable{Headers: headers, Rows: rows})
		}
	})

	return tables, nil
}

// XPathCollector walks tables with htmlquery expressions. It yields the same
// tables as CSSCollector.
type XPathCollector struct{}

// Collect implements Collector
func (XPathCollector) Collect(doc *markup.Document) ([]RawTable, error) {
	root, err := traversable(doc)
	if err != nil {
		return nil, err
	}

	tableNodes, err := htmlquery.QueryAll(root, "//table")
	if err != nil {
		return nil, fmt.Errorf("%w: xpath query failed: %v", ErrParse, err)
	}

	var tables []RawTable
	for _, table := range tableNodes {
		headers, err := queryTexts(table, ".//th")
		if err != nil {
			return nil, err
		}

		rowNodes, err := htmlquery.QueryAll(table, ".//tr")
		if err != nil {
			return nil, fmt.Errorf("%w: xpath query failed: %v", ErrParse, err)
		}

		var rows [][]string
		for _, tr := range rowNodes {
			cells, err := queryTexts(tr, ".//td")
			if err != nil {
				return nil, err
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		}

		if len(rows) > 0 {
			tables = append(tables, RawTable{Headers: headers, Rows: rows})
		}
	}

	return tables, nil
}

func queryTexts(n *html.Node, expr string) ([]string, error) {
	nodes, err := htmlquery.QueryAll(n, expr)
	if err != nil {
		return nil, fmt.Errorf("%w: xpath query failed: %v", ErrParse, err)
	}
	texts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		texts = append(texts, markup.NodeText(node))
	}
	return texts, nil
}

// traversable rejects documents that have no tree to walk
func traversable(doc *markup.Document) (*html.Node, error) {
	if doc == nil || doc.Root() == nil {
		return nil, fmt.Errorf("%w: no document", ErrParse)
	}
	root := doc.Root()
	if root.Type != html.DocumentNode && root.Type != html.ElementNode {
		return nil, fmt.Errorf("%w: unexpected root node type %d", ErrParse, root.Type)
	}
	return root, nil
}
