package receipt

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mmurali/go-receipt/internal/pipeline"
)

// Donor record field names the generator requires.
const (
	FieldFirstName = "First Name"
	FieldLastName  = "Last Name"
)

// Field is one donor record entry: a column name and its string value.
type Field struct {
	Name  string
	Value string
}

// DonorRecord is an ordered mapping from field name to value, one per
// receipt. The order is the order of the spreadsheet row the record came
// from. Records are immutable once created.
type DonorRecord struct {
	fields []Field
	index  map[string]int
}

// NewDonorRecord creates a DonorRecord from fields in order. A repeated
// field name keeps its first value.
func NewDonorRecord(fields ...Field) DonorRecord {
	r := DonorRecord{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if _, ok := r.index[f.Name]; ok {
			continue
		}
		r.index[f.Name] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r
}

// Get returns the value for a field name and whether it exists.
// Lookup is by exact name.
func (r DonorRecord) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Fields returns a copy of the record's fields in order.
func (r DonorRecord) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields in the record.
func (r DonorRecord) Len() int {
	return len(r.fields)
}

// Validate checks that the record carries the fields every receipt needs.
func (r DonorRecord) Validate() error {
	for _, name := range []string{FieldFirstName, FieldLastName} {
		if v, ok := r.Get(name); !ok || v == "" {
			return fmt.Errorf("%w: %q", ErrMissingDonorField, name)
		}
	}
	return nil
}

// Input contains generation parameters for one receipt.
type Input struct {
	Donor     DonorRecord
	Template  string // rich-text template with {FieldName} placeholders (required)
	OutputDir string // receipt destination ("" = generator default)
}

// Result describes a generated receipt.
type Result struct {
	Path     string   // filesystem path of the written PDF
	Strategy string   // name of the strategy tier that produced it
	Warnings []string // unresolved placeholder names, in document order
}

// Option configures a Generator.
type Option func(*Generator)

// generatorConfig holds internal configuration for Generator.
type generatorConfig struct {
	organization   string
	letterheadPath string
	letterheadName string
	outputDir      string
	dateFormat     string
	dateLayout     string // resolved from dateFormat in New
}

// WithOrganization sets the organization name used as the receipt
// filename prefix (<Org>_Receipt_...). Empty keeps the plain "receipt"
// prefix.
func WithOrganization(name string) Option {
	return func(g *Generator) {
		g.cfg.organization = name
	}
}

// WithLetterheadPath sets an explicit letterhead file, checked before the
// standard search locations.
func WithLetterheadPath(path string) Option {
	return func(g *Generator) {
		g.cfg.letterheadPath = path
	}
}

// WithLetterheadName overrides the asset filename used by the letterhead
// search (default "letterhead.pdf").
func WithLetterheadName(name string) Option {
	return func(g *Generator) {
		g.cfg.letterheadName = name
	}
}

// WithOutputDir sets the default output directory used when an Input
// does not specify one.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.cfg.outputDir = dir
	}
}

// WithDateFormat sets the format of the {Date} system value: a preset
// name (long, iso, european, us) or a token string such as "DD/MM/YYYY".
func WithDateFormat(format string) Option {
	return func(g *Generator) {
		g.cfg.dateFormat = format
	}
}

// WithLogger sets the logger used for fallback and warning events.
// Panics if l is nil (programmer error).
func WithLogger(l *log.Logger) Option {
	if l == nil {
		panic("receipt: WithLogger logger must not be nil")
	}
	return func(g *Generator) {
		g.logger = l
	}
}

// donorFields converts a DonorRecord into the pipeline's field slice.
func donorFields(d DonorRecord) []pipeline.Field {
	fields := make([]pipeline.Field, len(d.fields))
	for i, f := range d.fields {
		fields[i] = pipeline.Field{Name: f.Name, Value: f.Value}
	}
	return fields
}
