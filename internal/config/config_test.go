package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromPath(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "settings.yaml", `
organization: Fish Charity
letterhead: /assets/letterhead.pdf
receiptsDir: receipts
dateFormat: european
template: template.html
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Organization != "Fish Charity" {
		t.Errorf("Organization = %q", s.Organization)
	}
	if s.Letterhead != "/assets/letterhead.pdf" {
		t.Errorf("Letterhead = %q", s.Letterhead)
	}
	if s.ReceiptsDir != "receipts" {
		t.Errorf("ReceiptsDir = %q", s.ReceiptsDir)
	}
	if s.DateFormat != "european" {
		t.Errorf("DateFormat = %q", s.DateFormat)
	}
	if s.Template != "template.html" {
		t.Errorf("Template = %q", s.Template)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "minimal.yaml", "organization: Org\n")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Organization != "Org" {
		t.Errorf("Organization = %q", s.Organization)
	}
	if s.Letterhead != "" || s.ReceiptsDir != "" || s.DateFormat != "" {
		t.Errorf("unset fields should stay empty: %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		if _, err := Load(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("err = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("missing file path", func(t *testing.T) {
		t.Parallel()
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("err = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, t.TempDir(), "bad.yaml", "organization: [unclosed\n")
		if _, err := Load(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("err = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, t.TempDir(), "extra.yaml", "organizaton: typo\n")
		if _, err := Load(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("err = %v, want ErrConfigParse for unknown field", err)
		}
	})
}

func TestLoadByNameFromWorkingDirectory(t *testing.T) {
	// Changes the working directory, so no t.Parallel().
	dir := t.TempDir()
	writeConfig(t, dir, "settings.yaml", "organization: Local\n")
	t.Chdir(dir)

	s, err := Load("settings")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Organization != "Local" {
		t.Errorf("Organization = %q", s.Organization)
	}
}

func TestLoadByNameNotFound(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if _, err := Load("definitely-missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	if s := Default(); *s != (Settings{}) {
		t.Errorf("Default() = %+v, want zero settings", s)
	}
}
