package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdownConversion indicates Markdown conversion failed.
var ErrMarkdownConversion = errors.New("markdown conversion failed")

// MarkdownConverter abstracts Markdown to HTML conversion.
type MarkdownConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown templates to HTML using goldmark.
// Templates authored as plain text with **bold**, *italic* and list
// markers go through this front-end before normalization; templates that
// already contain tags skip it.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter for receipt templates.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // single newlines in templates are intentional breaks
			html.WithXHTML(),
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment. Receipt templates
// are small, so conversion runs inline with only an entry cancellation
// check rather than a worker goroutine.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownConversion, err)
	}
	return buf.String(), nil
}
