package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	receipt "github.com/mmurali/go-receipt"
	"github.com/mmurali/go-receipt/internal/config"
)

// CLI-level errors.
var (
	ErrNoTemplate   = errors.New("no template: pass -t/--template or set one in the settings file")
	ErrNoDonors     = errors.New("no donors: pass --csv or --sample")
	ErrReadTemplate = errors.New("failed to read template")
	ErrReadDonors   = errors.New("failed to read donor spreadsheet")
	ErrBadHeader    = errors.New("donor spreadsheet header must include First Name and Last Name")
	ErrAllFailed    = errors.New("all receipts failed")
)

// run executes the batch: resolve settings, load template and donors,
// generate one receipt per donor, and report totals. A failed donor
// does not abort the batch.
func run(flags *cliFlags, logger *log.Logger) error {
	settings, err := resolveSettings(flags)
	if err != nil {
		return err
	}

	if settings.Template == "" {
		return ErrNoTemplate
	}
	template, err := os.ReadFile(settings.Template)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadTemplate, err)
	}

	donors, err := loadDonors(flags)
	if err != nil {
		return err
	}

	gen, err := receipt.NewGenerator(
		receipt.WithOrganization(settings.Organization),
		receipt.WithLetterheadPath(settings.Letterhead),
		receipt.WithOutputDir(settings.ReceiptsDir),
		receipt.WithDateFormat(settings.DateFormat),
		receipt.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()
	generated, failed := 0, 0
	for i, donor := range donors {
		res, err := gen.Generate(ctx, receipt.Input{
			Donor:    donor,
			Template: string(template),
		})
		if err != nil {
			failed++
			logger.Error("receipt failed", "donor", donorLabel(donor), "row", i+1, "error", err)
			continue
		}
		generated++
		logger.Debug("receipt written",
			"donor", donorLabel(donor), "path", res.Path, "strategy", res.Strategy)
		for _, w := range res.Warnings {
			logger.Warn(w, "donor", donorLabel(donor))
		}
	}

	logger.Info("batch complete", "generated", generated, "failed", failed)
	if generated == 0 && failed > 0 {
		return ErrAllFailed
	}
	return nil
}

// resolveSettings loads the settings file (if any) and overlays
// command-line flags on top. Flags always win.
func resolveSettings(flags *cliFlags) (*config.Settings, error) {
	settings := config.Default()
	if flags.config != "" {
		loaded, err := config.Load(flags.config)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if flags.template != "" {
		settings.Template = flags.template
	}
	if flags.outputDir != "" {
		settings.ReceiptsDir = flags.outputDir
	}
	if flags.letterhead != "" {
		settings.Letterhead = flags.letterhead
	}
	if flags.org != "" {
		settings.Organization = flags.org
	}
	if flags.dateFormat != "" {
		settings.DateFormat = flags.dateFormat
	}
	return settings, nil
}

// loadDonors returns the donor records for the batch: the sample donor
// with --sample, otherwise the parsed CSV rows.
func loadDonors(flags *cliFlags) ([]receipt.DonorRecord, error) {
	if flags.sample {
		return sampleDonors(), nil
	}
	if flags.csvPath == "" {
		return nil, ErrNoDonors
	}
	f, err := os.Open(flags.csvPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadDonors, err)
	}
	defer f.Close()
	return readDonors(f)
}

// readDonors parses a CSV with a header row into donor records. Column
// order is preserved so substitution happens in spreadsheet order.
func readDonors(r io.Reader) ([]receipt.DonorRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadDonors, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoDonors
	}

	header := rows[0]
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	donors := make([]receipt.DonorRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		fields := make([]receipt.Field, 0, len(header))
		for i, name := range header {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			fields = append(fields, receipt.Field{Name: strings.TrimSpace(name), Value: value})
		}
		donors = append(donors, receipt.NewDonorRecord(fields...))
	}
	if len(donors) == 0 {
		return nil, ErrNoDonors
	}
	return donors, nil
}

func validateHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		seen[strings.TrimSpace(name)] = true
	}
	if !seen[receipt.FieldFirstName] || !seen[receipt.FieldLastName] {
		return ErrBadHeader
	}
	return nil
}

// sampleDonors returns the single built-in donor used by --sample.
func sampleDonors() []receipt.DonorRecord {
	return []receipt.DonorRecord{
		receipt.NewDonorRecord(
			receipt.Field{Name: receipt.FieldFirstName, Value: "John"},
			receipt.Field{Name: receipt.FieldLastName, Value: "Smith"},
			receipt.Field{Name: "Donation Amount", Value: "150.00"},
		),
	}
}

func donorLabel(d receipt.DonorRecord) string {
	first, _ := d.Get(receipt.FieldFirstName)
	last, _ := d.Get(receipt.FieldLastName)
	return strings.TrimSpace(first + " " + last)
}
