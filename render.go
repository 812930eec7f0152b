package receipt

import (
	"bytes"
	"fmt"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/mmurali/go-receipt/internal/pipeline"
)

// Page geometry in points (US Letter). The 2in left/top origin clears the
// printed masthead area of a typical letterhead.
const (
	pageWidthPt  = 612.0
	pageHeightPt = 792.0

	marginLeftPt   = 144.0 // 2in
	marginTopPt    = 144.0 // 2in
	marginRightPt  = 72.0  // 1in
	marginBottomPt = 72.0  // 1in
)

// Text metrics. Style selects the font variant; size is constant.
const (
	contentFontFamily = "Helvetica"
	contentFontSizePt = 12.0
	lineHeightPt      = 18.0
	paragraphGapPt    = 6.0
	listIndentPt      = 18.0
)

// contentBox returns the layout geometry for the receipt content area.
func contentBox() pipeline.Box {
	return pipeline.Box{
		Width:        pageWidthPt - marginLeftPt - marginRightPt,
		LineHeight:   lineHeightPt,
		ParagraphGap: paragraphGapPt,
		ListIndent:   listIndentPt,
	}
}

// surfaceRenderer draws laid-out lines onto a blank content surface.
type surfaceRenderer interface {
	// Measurer returns the width measurer for this renderer's fonts.
	Measurer() pipeline.Measurer
	// Render draws the lines and returns the finished surface as PDF
	// bytes. The surface is read-only once returned.
	Render(lines []pipeline.Line) ([]byte, error)
}

// contentRenderer renders laid-out lines with the PDF backend's core
// Helvetica variants. Each Render call constructs a fresh page; renderer
// state is never reused across donors.
type contentRenderer struct{}

func newContentRenderer() *contentRenderer {
	return &contentRenderer{}
}

// fontStyle maps style flags to the backend's font style string.
func fontStyle(bold, italic bool) string {
	switch {
	case bold && italic:
		return "BI"
	case bold:
		return "B"
	case italic:
		return "I"
	default:
		return ""
	}
}

// fontMeasurer measures text width using the backend's font metrics.
type fontMeasurer struct {
	pdf *gofpdf.Fpdf
}

func (m *fontMeasurer) Width(text string, bold, italic bool) float64 {
	m.pdf.SetFont(contentFontFamily, fontStyle(bold, italic), contentFontSizePt)
	return m.pdf.GetStringWidth(text)
}

// Measurer returns a measurer backed by a throwaway document; it exists
// only to expose font metrics to the layout stage.
func (r *contentRenderer) Measurer() pipeline.Measurer {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	return &fontMeasurer{pdf: pdf}
}

// Render draws each line in sequence from the fixed origin, switching the
// font variant per run and advancing the horizontal cursor by the run's
// measured width. The cursor is local to this call; nothing is shared
// across invocations.
func (r *contentRenderer) Render(lines []pipeline.Line) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)

	for _, line := range lines {
		baseline := marginTopPt + line.Y + contentFontSizePt
		if baseline > pageHeightPt-marginBottomPt {
			// Receipts are single-page; content past the bottom margin
			// is dropped rather than flowed onto another page.
			break
		}

		x := marginLeftPt + line.Indent
		for _, run := range line.Runs {
			pdf.SetFont(contentFontFamily, fontStyle(run.Bold, run.Italic), contentFontSizePt)
			pdf.Text(x, baseline, run.Text)
			x += run.Width
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}
