package pipeline

import (
	"regexp"
	"strings"
)

// Segment is a run of text with uniform styling. Segments are produced in
// document order; a segment never spans a style boundary.
type Segment struct {
	Text   string
	Bold   bool
	Italic bool
}

// tagPattern matches any tag, capturing the closing slash and the tag
// name. Attributes are matched but ignored.
var tagPattern = regexp.MustCompile(`(?i)<\s*(/?)\s*([a-z][a-z0-9]*)(\s[^>]*)?>`)

// Parse tokenizes normalized text into styled segments using a four-state
// machine over {plain, bold, italic, bold+italic}. Canonical <strong> and
// <em> tags (and residual <b>/<i> spellings) transition the state; tag
// matching is case-insensitive and attributes are ignored.
//
// Robustness over strictness: an unmatched closing tag is a no-op, any
// unrecognized tag is stripped, and input with no recognizable tags yields
// a single un-styled segment of the tag-stripped text. Concatenating the
// segment texts always reproduces the tag-stripped input exactly.
func Parse(content string) []Segment {
	var segments []Segment
	var buf strings.Builder

	bold, italic := 0, 0

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		segments = append(segments, Segment{
			Text:   buf.String(),
			Bold:   bold > 0,
			Italic: italic > 0,
		})
		buf.Reset()
	}

	// adjust flushes the pending segment under the old style before the
	// state changes. Flushing only on an effective change means no-op
	// closers and redundant nesting don't split segments.
	adjust := func(depth *int, closing bool) {
		if closing {
			if *depth == 0 {
				return // unmatched closing tag: no-op
			}
			if *depth == 1 {
				flush()
			}
			*depth--
			return
		}
		if *depth == 0 {
			flush()
		}
		*depth++
	}

	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(content, -1) {
		buf.WriteString(content[last:m[0]])
		last = m[1]

		closing := m[2] != m[3]
		name := strings.ToLower(content[m[4]:m[5]])

		switch name {
		case "strong", "b":
			adjust(&bold, closing)
		case "em", "i":
			adjust(&italic, closing)
		default:
			// Unknown tag: stripped, no state change.
		}
	}
	buf.WriteString(content[last:])
	flush()

	if len(segments) == 0 {
		// Guaranteed non-empty result even for tag-only input.
		return []Segment{{Text: buf.String()}}
	}
	return segments
}
