// Package config loads receipt-generation settings from YAML files.
//
// Settings cover what the generator cannot derive on its own: the
// organization name used in receipt filenames, where the letterhead
// asset lives, where receipts are written, and the {Date} format.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmurali/go-receipt/internal/fileutil"
	"github.com/mmurali/go-receipt/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// Settings holds all configuration for receipt generation.
type Settings struct {
	Organization string `yaml:"organization"` // filename prefix; "" = plain "receipt" prefix
	Letterhead   string `yaml:"letterhead"`   // explicit letterhead path; "" = priority search
	ReceiptsDir  string `yaml:"receiptsDir"`  // output directory; "" = current directory
	DateFormat   string `yaml:"dateFormat"`   // {Date} format: preset name or token string
	Template     string `yaml:"template"`     // default template file path
}

// Default returns a neutral configuration.
func Default() *Settings {
	return &Settings{}
}

// Load reads settings from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent
// fallback).
func Load(nameOrPath string) (*Settings, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolvePath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var s Settings
	if err := yamlutil.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return &s, nil
}

// resolvePath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-receipt/
func resolvePath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-receipt", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
