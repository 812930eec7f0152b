package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Document structure wrappers carry no receipt content.
	doctypePattern = regexp.MustCompile(`(?i)<!DOCTYPE[^>]*>`)
	headPattern    = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	stylePattern   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlBodyTag    = regexp.MustCompile(`(?i)</?(?:html|body)[^>]*>`)

	// Emphasis delimiter notation. The strong pattern MUST be applied
	// before the emphasis pattern: a lone-asterisk pass would read the
	// doubled delimiters of a strong span as two emphasis spans.
	strongDelim = regexp.MustCompile(`\*\*(.+?)\*\*`)
	emDelim     = regexp.MustCompile(`\*([^*\n]+)\*`)

	// Alternate tag spellings for the two canonical styles.
	boldOpen    = regexp.MustCompile(`(?i)<b(\s[^>]*)?>`)
	boldClose   = regexp.MustCompile(`(?i)</b\s*>`)
	italicOpen  = regexp.MustCompile(`(?i)<i(\s[^>]*)?>`)
	italicClose = regexp.MustCompile(`(?i)</i\s*>`)

	// Block-level boundaries become explicit paragraph-break markers;
	// explicit line breaks become a single newline.
	blockClose = regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|ul|ol|li|blockquote)\s*>`)
	blockOpen  = regexp.MustCompile(`(?i)<(?:p|div|h[1-6]|blockquote)(\s[^>]*)?>`)
	lineBreak  = regexp.MustCompile(`(?i)<br\s*/?>`)

	listOpen  = regexp.MustCompile(`(?i)<(u|o)l(\s[^>]*)?>`)
	listClose = regexp.MustCompile(`(?i)</(?:u|o)l\s*>`)
	listItem  = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)

	// Collapse runs of blank lines to a single paragraph break.
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	trailingSpace      = regexp.MustCompile(`[ \t]+\n`)

	anyTag = regexp.MustCompile(`<[^>]*>`)
)

// Normalize rewrites the template's markup into one canonical form:
// <strong> and <em> for the two inline styles, "\n\n" for paragraph
// breaks, "\n" for explicit line breaks, and "- " / "1. " prefixes for
// list items. Inner text content is never altered.
//
// Pass order matters and is fixed: wrappers are stripped first so
// delimiter passes never match inside <style> blocks, and the strong
// delimiter pass runs before the emphasis pass (see strongDelim).
func Normalize(content string) string {
	content = stripWrappers(content)

	content = strongDelim.ReplaceAllString(content, "<strong>$1</strong>")
	content = emDelim.ReplaceAllString(content, "<em>$1</em>")

	content = boldOpen.ReplaceAllString(content, "<strong>")
	content = boldClose.ReplaceAllString(content, "</strong>")
	content = italicOpen.ReplaceAllString(content, "<em>")
	content = italicClose.ReplaceAllString(content, "</em>")

	content = convertLists(content)

	content = blockClose.ReplaceAllString(content, "\n\n")
	content = blockOpen.ReplaceAllString(content, "")
	content = lineBreak.ReplaceAllString(content, "\n")

	content = html.UnescapeString(content)
	content = strings.ReplaceAll(content, " ", " ")

	content = trailingSpace.ReplaceAllString(content, "\n")
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// stripWrappers removes document structure that carries no content.
func stripWrappers(content string) string {
	content = doctypePattern.ReplaceAllString(content, "")
	content = stylePattern.ReplaceAllString(content, "")
	content = headPattern.ReplaceAllString(content, "")
	content = htmlBodyTag.ReplaceAllString(content, "")
	return content
}

// convertLists rewrites <ul>/<ol>/<li> structure into plain list-marker
// prefixes: "- " for unordered items, "1. ", "2. ", ... for ordered ones.
// Ordered counters need per-list state, so this is a scanning pass rather
// than a regexp replacement. A nested list pushes its own marker state
// and pops it at the close tag, so an outer ordered list resumes its
// numbering; the layout stage applies a single indent level regardless
// of nesting depth.
func convertLists(content string) string {
	if !listItem.MatchString(content) {
		return content
	}

	var out strings.Builder
	out.Grow(len(content))

	type listState struct {
		ordered bool
		counter int
	}
	var stack []listState

	for len(content) > 0 {
		openLoc := listOpen.FindStringSubmatchIndex(content)
		closeLoc := listClose.FindStringIndex(content)
		itemLoc := listItem.FindStringIndex(content)

		// Pick whichever marker comes first.
		switch {
		case openLoc != nil && before(openLoc[0], closeLoc) && before(openLoc[0], itemLoc):
			out.WriteString(content[:openLoc[0]])
			ordered := strings.EqualFold(content[openLoc[2]:openLoc[3]], "o")
			stack = append(stack, listState{ordered: ordered})
			content = content[openLoc[1]:]
		case closeLoc != nil && before(closeLoc[0], itemLoc):
			out.WriteString(content[:closeLoc[0]])
			out.WriteString("\n\n")
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			content = content[closeLoc[1]:]
		case itemLoc != nil:
			out.WriteString(content[:itemLoc[0]])
			out.WriteString("\n\n")
			if n := len(stack); n > 0 && stack[n-1].ordered {
				stack[n-1].counter++
				out.WriteString(strconv.Itoa(stack[n-1].counter))
				out.WriteString(". ")
			} else {
				out.WriteString("- ")
			}
			content = content[itemLoc[1]:]
		default:
			out.WriteString(content)
			content = ""
		}
	}

	// Closing </li> tags are handled by the blockClose pass; only the
	// list open/close tags carry marker state.
	return out.String()
}

// before reports whether position i precedes the start of loc, treating
// a nil loc as infinitely far away.
func before(i int, loc []int) bool {
	return loc == nil || i < loc[0]
}

// StripTags removes every remaining tag, leaving plain text with the
// paragraph and line-break markers intact. Used by the degraded
// strategies and by tests asserting the segment round-trip property.
func StripTags(content string) string {
	return anyTag.ReplaceAllString(content, "")
}

// ContainsMarkup reports whether content has any tag-like markup. A
// template with none is treated as Markdown by the generation pipeline.
func ContainsMarkup(content string) bool {
	return anyTag.MatchString(content)
}
