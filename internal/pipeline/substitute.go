package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field is one donor record entry. Fields keep the order of the
// spreadsheet row they came from.
type Field struct {
	Name  string
	Value string
}

// System placeholder names resolved from the clock rather than the donor.
const (
	DatePlaceholder = "Date"
	YearPlaceholder = "Current Year"
)

// placeholderPattern matches {Field Name} tokens left after substitution.
var placeholderPattern = regexp.MustCompile(`\{([^{}\n]+)\}`)

// Substitute replaces every {FieldName} token with the matching donor
// value, then resolves the {Date} and {Current Year} system values from
// now. dateLayout is a Go time layout for the {Date} value.
//
// A single pass over the known keys is sufficient: replacement values are
// not expected to contain further placeholders. Unknown tokens are left
// intact so they stay visible in the output; their names are returned so
// the caller can log them.
func Substitute(template string, donor []Field, now time.Time, dateLayout string) (string, []string) {
	out := template
	for _, f := range donor {
		out = strings.ReplaceAll(out, "{"+f.Name+"}", formatValue(f.Name, f.Value))
	}

	out = strings.ReplaceAll(out, "{"+DatePlaceholder+"}", now.Format(dateLayout))
	out = strings.ReplaceAll(out, "{"+YearPlaceholder+"}", strconv.Itoa(now.Year()))

	return out, unresolvedPlaceholders(out)
}

// formatValue renders a donor value for display. Monetary fields (any
// field whose name contains "amount") are normalized to two decimals when
// the value parses as a number; everything else passes through unchanged.
func formatValue(name, value string) string {
	if !strings.Contains(strings.ToLower(name), "amount") {
		return value
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%.2f", n)
}

// unresolvedPlaceholders returns the names of {Field} tokens remaining in
// content, in document order, without duplicates.
func unresolvedPlaceholders(content string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
