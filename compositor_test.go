package receipt

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/mmurali/go-receipt/internal/pipeline"
)

// writeLetterhead produces a minimal one-page letterhead PDF.
func writeLetterhead(t *testing.T, path string) {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(72, 72, "Fish Charity")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := pdf.Output(f); err != nil {
		t.Fatal(err)
	}
}

// renderSurface produces content-surface bytes through the real renderer.
func renderSurface(t *testing.T, text string) []byte {
	t.Helper()
	r := newContentRenderer()
	lines := pipeline.Layout([]pipeline.Segment{{Text: text}}, contentBox(), r.Measurer())
	out, err := r.Render(lines)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestLocateOverrideWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	override := filepath.Join(dir, "custom.pdf")
	writeLetterhead(t, override)

	c := newLetterheadCompositor(override, "")
	got, err := c.Locate()
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if got != override {
		t.Errorf("Locate() = %q, want %q", got, override)
	}
}

func TestLocateWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeLetterhead(t, filepath.Join(dir, DefaultLetterheadName))
	t.Chdir(dir)

	c := newLetterheadCompositor("", "")
	got, err := c.Locate()
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if filepath.Base(got) != DefaultLetterheadName {
		t.Errorf("Locate() = %q", got)
	}
}

func TestLocateMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	c := newLetterheadCompositor("", "no-such-letterhead.pdf")
	if _, err := c.Locate(); !errors.Is(err, ErrLetterheadMissing) {
		t.Errorf("Locate() error = %v, want ErrLetterheadMissing", err)
	}
}

func TestLocateMissingOverrideFallsThrough(t *testing.T) {
	dir := t.TempDir()
	writeLetterhead(t, filepath.Join(dir, DefaultLetterheadName))
	t.Chdir(dir)

	// Override path doesn't exist; the working-directory asset is next.
	c := newLetterheadCompositor(filepath.Join(dir, "missing.pdf"), "")
	got, err := c.Locate()
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if filepath.Base(got) != DefaultLetterheadName {
		t.Errorf("Locate() = %q", got)
	}
}

func TestCompositeWithLetterhead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	letterhead := filepath.Join(dir, "letterhead.pdf")
	writeLetterhead(t, letterhead)

	surface := renderSurface(t, "Dear Jane,\n\nThank you for your donation.")
	output := filepath.Join(dir, "receipt.pdf")

	c := newLetterheadCompositor("", "")
	if err := c.Composite(surface, letterhead, output); err != nil {
		t.Fatalf("Composite() error = %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(got, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestCompositeWithoutLetterhead(t *testing.T) {
	t.Parallel()

	surface := renderSurface(t, "content only")
	output := filepath.Join(t.TempDir(), "receipt.pdf")

	c := newLetterheadCompositor("", "")
	if err := c.Composite(surface, "", output); err != nil {
		t.Fatalf("Composite() error = %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, surface) {
		t.Error("without a letterhead the surface must pass through unchanged")
	}
}

func TestCompositeCorruptLetterhead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	corrupt := filepath.Join(dir, "letterhead.pdf")
	if err := os.WriteFile(corrupt, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	surface := renderSurface(t, "content")
	err := newLetterheadCompositor("", "").Composite(surface, corrupt, filepath.Join(dir, "out.pdf"))
	if !errors.Is(err, ErrCompositeFailure) {
		t.Errorf("Composite() error = %v, want ErrCompositeFailure", err)
	}
}

func TestFailedWriteLeavesNoPartialFile(t *testing.T) {
	t.Parallel()

	// A document already in an error state makes Output fail after the
	// file was created; the truncated file must not survive, or the
	// fallback tier's retry would sit next to a corrupt sibling.
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.SetErrorf("forced output failure")

	path := filepath.Join(t.TempDir(), "receipt.pdf")
	err := writePDFOutput(pdf, path)
	if !errors.Is(err, ErrWriteReceipt) {
		t.Fatalf("writePDFOutput() error = %v, want ErrWriteReceipt", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("truncated output file left behind")
	}
}

func TestCompositeEmptySurface(t *testing.T) {
	t.Parallel()

	err := newLetterheadCompositor("", "").Composite(nil, "", filepath.Join(t.TempDir(), "out.pdf"))
	if !errors.Is(err, ErrCompositeFailure) {
		t.Errorf("Composite() error = %v, want ErrCompositeFailure", err)
	}
}
