package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/lvillar/gofpdf/contrib/gofpdi"
	"github.com/mmurali/go-receipt/internal/fileutil"
)

// DefaultLetterheadName is the asset filename the letterhead search looks
// for in each candidate location.
const DefaultLetterheadName = "letterhead.pdf"

// receiptCompositor locates the letterhead and merges the content surface
// onto it.
type receiptCompositor interface {
	// Locate returns the path of the first readable letterhead, or
	// ErrLetterheadMissing. Absence is recoverable, not fatal.
	Locate() (string, error)
	// Composite writes the final receipt: the content surface merged
	// onto the letterhead's first page, or the surface alone when
	// letterheadPath is empty.
	Composite(surface []byte, letterheadPath, outputPath string) error
}

// letterheadCompositor merges the rendered content surface onto an
// existing letterhead PDF. The letterhead is read-only and never mutated;
// it may be read repeatedly across donors.
type letterheadCompositor struct {
	override  string // explicit path checked first; "" = search only
	assetName string
}

func newLetterheadCompositor(override, assetName string) *letterheadCompositor {
	if assetName == "" {
		assetName = DefaultLetterheadName
	}
	return &letterheadCompositor{override: override, assetName: assetName}
}

// Locate checks candidate locations in priority order: the explicit
// override, the working directory, the executable's directory, then the
// user config directory. The first existing readable file wins.
func (c *letterheadCompositor) Locate() (string, error) {
	var candidates []string
	if c.override != "" {
		candidates = append(candidates, c.override)
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, c.assetName))
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), c.assetName))
	}
	if cfgDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(cfgDir, "go-receipt", c.assetName))
	}

	for _, path := range candidates {
		if fileutil.FileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrLetterheadMissing, strings.Join(candidates, ", "))
}

// Composite merges the content surface's single page onto the first page
// of the letterhead: the letterhead template is placed first as the
// visual background, then the content page is painted on top. With no
// letterhead the surface alone becomes the output.
//
// The page importer panics on unreadable input, so a corrupt letterhead
// is recovered here and reported as ErrCompositeFailure for the fallback
// chain to handle.
func (c *letterheadCompositor) Composite(surface []byte, letterheadPath, outputPath string) (err error) {
	if len(surface) == 0 {
		return fmt.Errorf("%w: empty content surface", ErrCompositeFailure)
	}
	if letterheadPath == "" {
		return writeReceiptFile(outputPath, surface)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCompositeFailure, r)
		}
	}()

	// The importer reads pages from files, so the in-memory surface is
	// handed off through a temp file.
	surfacePath, cleanup, err := fileutil.WriteTempFile(surface, "pdf")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCompositeFailure, err)
	}
	defer cleanup()

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	background := gofpdi.NewImporter()
	bgID, w, h := importFirstPage(pdf, background, letterheadPath)
	if w == 0 || h == 0 {
		w, h = pageWidthPt, pageHeightPt
	}
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	background.UseImportedTemplate(pdf, bgID, 0, 0, w, h)

	overlay := gofpdi.NewImporter()
	ovID, ow, oh := importFirstPage(pdf, overlay, surfacePath)
	if ow == 0 || oh == 0 {
		ow, oh = pageWidthPt, pageHeightPt
	}
	overlay.UseImportedTemplate(pdf, ovID, 0, 0, ow, oh)

	if pdf.Err() {
		return fmt.Errorf("%w: %v", ErrCompositeFailure, pdf.Error())
	}

	return writePDFOutput(pdf, outputPath)
}

// writePDFOutput writes the composed document to path. A failed write
// removes the file: the fallback tier retries under a suffixed name, and
// a truncated receipt must not be left sitting next to the good one.
func writePDFOutput(pdf *gofpdf.Fpdf, path string) error {
	out, err := os.Create(path) // #nosec G304 -- output path is caller-controlled
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteReceipt, err)
	}
	if err := pdf.Output(out); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return fmt.Errorf("%w: %v", ErrWriteReceipt, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%w: %v", ErrWriteReceipt, err)
	}
	return nil
}

// importFirstPage imports page 1 of a source file and returns the
// template ID and the page dimensions from its MediaBox.
func importFirstPage(pdf *gofpdf.Fpdf, imp *gofpdi.Importer, sourceFile string) (tplID int, w, h float64) {
	tplID = imp.ImportPage(pdf, sourceFile, 1, "/MediaBox")
	if dims, ok := imp.GetPageSizes()[1]; ok {
		if mb, ok := dims["/MediaBox"]; ok {
			w = mb["w"]
			h = mb["h"]
		}
	}
	return tplID, w, h
}

// writeReceiptFile writes raw PDF bytes as the final receipt.
func writeReceiptFile(path string, content []byte) error {
	// #nosec G306 -- receipts are meant to be readable attachments
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteReceipt, err)
	}
	return nil
}
