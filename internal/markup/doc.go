// Package markup parses fetched pages into documents for table collection.
//
// Parsing steps:
//   - size check against the configured limit
//   - optional sanitisation (bluemonday UGC policy; tables survive, scripts do not)
//   - charset detection (chardet) and conversion to UTF-8 (x/net/html/charset)
//   - tree construction with x/net/html
//
// The resulting Document exposes the node tree for both goquery selectors
// and htmlquery XPath expressions.
package markup
