// Package dateutil provides date format parsing for the {Date} receipt
// placeholder and the dateFormat config setting.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength limits format string length to prevent abuse.
const MaxFormatLength = 50

// DefaultPreset is the format used when no dateFormat is configured.
// Receipts address people, so the long written form is the default.
const DefaultPreset = "long"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets provides named shortcuts for common date formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// Resolve converts a format name or token string to a Go time layout.
// Accepts a preset name (case-insensitive), a token format such as
// "DD/MM/YYYY", or an empty string for the default preset.
func Resolve(nameOrFormat string) (string, error) {
	if nameOrFormat == "" {
		nameOrFormat = DefaultPreset
	}
	if preset, ok := Presets[strings.ToLower(nameOrFormat)]; ok {
		nameOrFormat = preset
	}
	return ParseFormat(nameOrFormat)
}

// ParseFormat converts a user-friendly format string to Go's time layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D.
// Use brackets to escape literal text: [Date] preserves "Date" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has
// an unclosed bracket.
func ParseFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		// Bracket-escaped literal text
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}
