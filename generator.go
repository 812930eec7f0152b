package receipt

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mmurali/go-receipt/internal/dateutil"
	"github.com/mmurali/go-receipt/internal/pipeline"
)

// Compile-time interface checks.
var (
	_ strategy          = (*primaryStrategy)(nil)
	_ strategy          = (*secondaryStrategy)(nil)
	_ strategy          = (*bareStrategy)(nil)
	_ receiptCompositor = (*letterheadCompositor)(nil)
	_ surfaceRenderer   = (*contentRenderer)(nil)
)

// Generator produces receipt PDFs from a template and donor records. It
// runs a chain of strategies in decreasing fidelity and returns the
// result of the first one that succeeds. A Generator is safe for
// sequential reuse across donors; create one per batch.
type Generator struct {
	cfg        generatorConfig
	strategies []strategy
	logger     *log.Logger

	// clock is replaced in tests for deterministic filenames.
	clock func() time.Time
}

// NewGenerator creates a Generator with default configuration. Use
// options to customize behavior (e.g., WithOrganization,
// WithLetterheadPath, WithDateFormat). Returns an error if the date
// format cannot be resolved.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg: generatorConfig{
			outputDir:  ".",
			dateFormat: dateutil.DefaultPreset,
		},
		logger: log.New(io.Discard),
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	layout, err := dateutil.Resolve(g.cfg.dateFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDateFormat, g.cfg.dateFormat)
	}
	g.cfg.dateLayout = layout

	// Strategies are assembled here unless injected by tests.
	if g.strategies == nil {
		compositor := newLetterheadCompositor(g.cfg.letterheadPath, g.cfg.letterheadName)
		renderer := newContentRenderer()
		g.strategies = []strategy{
			&primaryStrategy{
				organization: g.cfg.organization,
				dateLayout:   g.cfg.dateLayout,
				markdown:     pipeline.NewGoldmarkConverter(),
				renderer:     renderer,
				compositor:   compositor,
				logger:       g.logger,
			},
			&secondaryStrategy{
				organization: g.cfg.organization,
				dateLayout:   g.cfg.dateLayout,
				renderer:     renderer,
				compositor:   compositor,
				logger:       g.logger,
			},
			&bareStrategy{
				dateLayout: g.cfg.dateLayout,
				renderer:   renderer,
			},
		}
	}

	return g, nil
}

// Generate produces one receipt PDF for the input's donor. Strategies
// run in order until one succeeds; the final tier cannot fail for a
// valid input, so a non-nil Result is guaranteed unless the input itself
// is invalid or the context is canceled. Recovers from internal panics
// to prevent crashes from propagating to callers.
func (g *Generator) Generate(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := g.validateInput(input); err != nil {
		return nil, err
	}

	outDir := input.OutputDir
	if outDir == "" {
		outDir = g.cfg.outputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutputDir, err)
	}

	// One timestamp for the whole chain so every tier names the file
	// identically.
	now := g.clock()

	var lastErr error
	for _, s := range g.strategies {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		res, err := s.generate(ctx, input, outDir, now)
		if err == nil {
			return res, nil
		}
		lastErr = err
		g.logger.Warn("generation strategy failed, falling back",
			"strategy", s.name(), "error", err)
	}
	return nil, fmt.Errorf("%w: %v", ErrAllStrategiesFailed, lastErr)
}

func (g *Generator) validateInput(input Input) error {
	if input.Template == "" {
		return ErrEmptyTemplate
	}
	return input.Donor.Validate()
}
