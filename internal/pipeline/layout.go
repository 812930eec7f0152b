package pipeline

import (
	"regexp"
	"strings"
)

// Measurer reports the rendered width of text in the font variant
// selected by the style flags. Size is constant across the document, so
// only the style varies.
type Measurer interface {
	Width(text string, bold, italic bool) float64
}

// Box holds the content-box geometry the layout wraps into. All values
// are in the same unit the Measurer reports (points in production).
type Box struct {
	Width        float64 // maximum rendered width of one line
	LineHeight   float64 // vertical advance per line
	ParagraphGap float64 // extra advance after a paragraph break
	ListIndent   float64 // fixed left indent for list-item paragraphs
}

// Run is a segment placed on a line with its measured width.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Width  float64
}

// Line is an ordered sequence of runs that fit within the content-box
// width, with the computed vertical offset of the line's top edge.
type Line struct {
	Runs   []Run
	Y      float64
	Indent float64
}

// listMarkerPattern matches a bullet or ordered-list marker word at the
// start of a paragraph ("-", "•", "*", "1.", "2)").
var listMarkerPattern = regexp.MustCompile(`^(?:[-•*]|\d+[.)])$`)

// word is a layout token: a single word with style, or a break marker.
type word struct {
	text      string
	bold      bool
	italic    bool
	lineBreak bool // explicit "\n"
	paraBreak bool // explicit "\n\n"
}

// Layout word-wraps segments into lines. Segments are placed left to
// right in order; a line break is inserted before any word whose measured
// width would overflow the remaining room. Paragraph-break markers always
// force a break plus box.ParagraphGap, and a paragraph opening with a
// list marker is laid out with box.ListIndent.
//
// Every returned line satisfies: sum of run widths <= box.Width.
func Layout(segments []Segment, box Box, m Measurer) []Line {
	words := splitWords(segments)

	var lines []Line
	var cur []word
	var curWidth float64

	y := 0.0
	indent := 0.0
	atParagraphStart := true

	flushLine := func() {
		if len(cur) == 0 {
			return
		}
		lines = append(lines, Line{Runs: mergeRuns(cur, m), Y: y, Indent: indent})
		cur = nil
		curWidth = 0
		y += box.LineHeight
	}

	for _, w := range words {
		if w.paraBreak || w.lineBreak {
			flushLine()
			if w.paraBreak {
				y += box.ParagraphGap
				indent = 0
				atParagraphStart = true
			}
			continue
		}

		if atParagraphStart {
			if listMarkerPattern.MatchString(w.text) {
				indent = box.ListIndent
			}
			atParagraphStart = false
		}

		avail := box.Width - indent
		for _, piece := range fitWord(w, avail, m) {
			width := m.Width(piece.text, piece.bold, piece.italic)
			joined := width
			if len(cur) > 0 {
				joined += m.Width(" ", piece.bold, piece.italic)
			}
			if len(cur) > 0 && curWidth+joined > avail {
				flushLine()
				joined = width
			}
			cur = append(cur, piece)
			curWidth += joined
		}
	}
	flushLine()

	return lines
}

// splitWords flattens segments into layout tokens, preserving paragraph
// ("\n\n") and line ("\n") break markers as dedicated tokens.
func splitWords(segments []Segment) []word {
	var words []word
	for _, seg := range segments {
		paragraphs := strings.Split(seg.Text, "\n\n")
		for pi, para := range paragraphs {
			if pi > 0 {
				words = append(words, word{paraBreak: true})
			}
			for li, line := range strings.Split(para, "\n") {
				if li > 0 {
					words = append(words, word{lineBreak: true})
				}
				for _, text := range strings.Fields(line) {
					words = append(words, word{text: text, bold: seg.Bold, italic: seg.Italic})
				}
			}
		}
	}
	return words
}

// fitWord splits a word that is wider than the whole content box into
// pieces that fit, preserving the no-overflow invariant even for
// unbreakable input. Ordinary words come back unchanged.
func fitWord(w word, avail float64, m Measurer) []word {
	if m.Width(w.text, w.bold, w.italic) <= avail {
		return []word{w}
	}

	var pieces []word
	runes := []rune(w.text)
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) && m.Width(string(runes[start:end+1]), w.bold, w.italic) <= avail {
			end++
		}
		piece := w
		piece.text = string(runes[start:end])
		pieces = append(pieces, piece)
		start = end
	}
	return pieces
}

// mergeRuns joins adjacent same-style words on a line into single runs
// and measures each run's final width including its internal spaces.
func mergeRuns(words []word, m Measurer) []Run {
	var runs []Run
	for _, w := range words {
		if n := len(runs); n > 0 && runs[n-1].Bold == w.bold && runs[n-1].Italic == w.italic {
			runs[n-1].Text += " " + w.text
			runs[n-1].Width = m.Width(runs[n-1].Text, w.bold, w.italic)
			continue
		}
		text := w.text
		if len(runs) > 0 {
			text = " " + text
		}
		runs = append(runs, Run{
			Text:   text,
			Bold:   w.bold,
			Italic: w.italic,
			Width:  m.Width(text, w.bold, w.italic),
		})
	}
	return runs
}
