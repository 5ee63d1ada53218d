package scan

import (
	"regexp"
	"strconv"
)

// measurementPattern matches a number followed by the meters suffix.
// RE2 \d and \s are ASCII-only.
var measurementPattern = regexp.MustCompile(`(\d+(\.\d+)?)\s*m`)

// ExtractMeasurement returns the numeric part of the first meters
// measurement in text, e.g. "12.5 m" gives "12.5".
func ExtractMeasurement(text string) (string, bool) {
	match := measurementPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// extractFrom applies ExtractMeasurement to a possibly absent value.
func extractFrom(text string, present bool) (string, bool) {
	if !present {
		return "", false
	}
	return ExtractMeasurement(text)
}

// parseMeasurement converts a matched number. Digit runs too long for a
// float64 are reported as missing rather than infinite.
func parseMeasurement(number string) *float64 {
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return nil
	}
	return &v
}
