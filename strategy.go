package receipt

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mmurali/go-receipt/internal/fileutil"
	"github.com/mmurali/go-receipt/internal/pipeline"
)

// strategy is one rung of the fallback chain. Each rung trades fidelity
// for robustness; the last rung must not be able to fail for any
// non-empty template.
type strategy interface {
	name() string
	generate(ctx context.Context, input Input, outDir string, now time.Time) (*Result, error)
}

// boldKeywords mark paragraphs that a degraded rendering still
// emphasizes: salutation and the amount lines a donor scans for.
var boldKeywords = []string{
	"dear",
	"donation amount",
	"donation(s) year",
}

func containsBoldKeyword(paragraph string) bool {
	lower := strings.ToLower(paragraph)
	for _, kw := range boldKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// receiptPath builds the output filename from the donor's name and the
// generation timestamp. Collisions within the same second get a numeric
// suffix rather than overwriting an existing receipt.
func receiptPath(outDir, prefix string, donor DonorRecord, now time.Time) string {
	first, _ := donor.Get(FieldFirstName)
	last, _ := donor.Get(FieldLastName)
	base := fmt.Sprintf("%s_%s_%s_%s",
		prefix,
		fileutil.SanitizeNameFragment(first),
		fileutil.SanitizeNameFragment(last),
		now.Format("20060102_150405"),
	)
	path := filepath.Join(outDir, base+".pdf")
	for n := 1; fileutil.FileExists(path); n++ {
		path = filepath.Join(outDir, fmt.Sprintf("%s_%d.pdf", base, n))
	}
	return path
}

// receiptPrefix derives the filename prefix from the organization name,
// falling back to a plain "receipt" when none is configured.
func receiptPrefix(organization string) string {
	if organization == "" {
		return "receipt"
	}
	return fileutil.SanitizeNameFragment(organization) + "_Receipt"
}

// primaryStrategy is the full-fidelity path: variable substitution,
// optional markdown conversion for tag-free templates, markup
// normalization, inline style parsing, word-wrap layout, PDF rendering,
// and letterhead composition.
type primaryStrategy struct {
	organization string
	dateLayout   string
	markdown     pipeline.MarkdownConverter
	renderer     surfaceRenderer
	compositor   receiptCompositor
	logger       *log.Logger
}

func (s *primaryStrategy) name() string { return "primary" }

func (s *primaryStrategy) generate(ctx context.Context, input Input, outDir string, now time.Time) (*Result, error) {
	content, unresolved := pipeline.Substitute(input.Template, donorFields(input.Donor), now, s.dateLayout)

	var warnings []string
	for _, name := range unresolved {
		warnings = append(warnings, fmt.Sprintf("unresolved placeholder {%s}", name))
	}

	if !pipeline.ContainsMarkup(content) && s.markdown != nil {
		converted, err := s.markdown.ToHTML(ctx, content)
		if err != nil {
			return nil, err
		}
		content = converted
	}

	text := pipeline.Normalize(content)
	segments := pipeline.Parse(text)
	lines := pipeline.Layout(segments, contentBox(), s.renderer.Measurer())

	surface, err := s.renderer.Render(lines)
	if err != nil {
		return nil, err
	}

	letterhead, err := s.compositor.Locate()
	if err != nil {
		s.logger.Warn("letterhead not found, composing without it", "error", err)
		warnings = append(warnings, "letterhead not found")
		letterhead = ""
	}

	path := receiptPath(outDir, receiptPrefix(s.organization), input.Donor, now)
	if err := s.compositor.Composite(surface, letterhead, path); err != nil {
		return nil, err
	}
	return &Result{Path: path, Strategy: s.name(), Warnings: warnings}, nil
}

// secondaryStrategy drops inline markup fidelity: all tags are stripped
// and whole paragraphs get bolded by keyword instead. It still composes
// onto the letterhead when one is available.
type secondaryStrategy struct {
	organization string
	dateLayout   string
	renderer     surfaceRenderer
	compositor   receiptCompositor
	logger       *log.Logger
}

func (s *secondaryStrategy) name() string { return "secondary" }

func (s *secondaryStrategy) generate(_ context.Context, input Input, outDir string, now time.Time) (*Result, error) {
	content, unresolved := pipeline.Substitute(input.Template, donorFields(input.Donor), now, s.dateLayout)

	var warnings []string
	for _, name := range unresolved {
		warnings = append(warnings, fmt.Sprintf("unresolved placeholder {%s}", name))
	}

	text := pipeline.StripTags(pipeline.Normalize(content))
	segments := keywordSegments(text)
	lines := pipeline.Layout(segments, contentBox(), s.renderer.Measurer())

	surface, err := s.renderer.Render(lines)
	if err != nil {
		return nil, err
	}

	letterhead, err := s.compositor.Locate()
	if err != nil {
		s.logger.Warn("letterhead not found, composing without it", "error", err)
		warnings = append(warnings, "letterhead not found")
		letterhead = ""
	}

	path := receiptPath(outDir, receiptPrefix(s.organization), input.Donor, now)
	if err := s.compositor.Composite(surface, letterhead, path); err != nil {
		return nil, err
	}
	return &Result{Path: path, Strategy: s.name(), Warnings: warnings}, nil
}

// keywordSegments splits stripped text into paragraphs and bolds those
// containing a keyword, rejoining them so paragraph breaks survive
// layout.
func keywordSegments(text string) []pipeline.Segment {
	paragraphs := strings.Split(text, "\n\n")
	segments := make([]pipeline.Segment, 0, len(paragraphs)*2)
	for i, p := range paragraphs {
		if i > 0 {
			segments = append(segments, pipeline.Segment{Text: "\n\n"})
		}
		segments = append(segments, pipeline.Segment{
			Text: p,
			Bold: containsBoldKeyword(p),
		})
	}
	return segments
}

// bareStrategy is the rung of last resort: plain text, no styling, no
// letterhead, and a generic filename prefix. It writes the rendered
// surface directly so none of the composition machinery can fail it.
type bareStrategy struct {
	dateLayout string
	renderer   surfaceRenderer
}

func (s *bareStrategy) name() string { return "bare" }

func (s *bareStrategy) generate(_ context.Context, input Input, outDir string, now time.Time) (*Result, error) {
	content, _ := pipeline.Substitute(input.Template, donorFields(input.Donor), now, s.dateLayout)

	text := pipeline.StripTags(pipeline.Normalize(content))
	segments := []pipeline.Segment{{Text: text}}
	lines := pipeline.Layout(segments, contentBox(), s.renderer.Measurer())

	surface, err := s.renderer.Render(lines)
	if err != nil {
		return nil, err
	}

	path := receiptPath(outDir, "receipt", input.Donor, now)
	if err := writeReceiptFile(path, surface); err != nil {
		return nil, err
	}
	return &Result{
		Path:     path,
		Strategy: s.name(),
		Warnings: []string{"degraded output: plain text without letterhead"},
	}, nil
}
