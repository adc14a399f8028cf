// Package config provides configuration loading for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/castmind/quetzal/internal/model"
)

// Config is the full application configuration.
type Config struct {
	Logging    Logging
	Database   Database
	Export     Export
	Extraction Extraction
}

// Logging controls the global slog handler.
type Logging struct {
	Level  string
	Format string
}

// Database locates the SQLite store.
type Database struct {
	Path string
}

// Export controls where output files are written.
type Export struct {
	OutputDir string
}

// Extraction holds the constants the extractors need. These were once
// hardcoded per format; keeping them here means a rate change or account
// relabel never touches extraction logic.
type Extraction struct {
	AccountLabels   map[string]string
	OCRLanguage     string
	SecondarySuffix string
	USDToGTQ        decimal.Decimal
	MinTextChars    int
}

// Label returns the human-readable account label for a statement format.
func (e Extraction) Label(f model.Format) string {
	if label, ok := e.AccountLabels[f.Key()]; ok {
		return label
	}
	return f.Key()
}

func setDefaults() {
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("export.output_dir", ".")

	viper.SetDefault("extraction.usd_gtq_rate", 7.8)
	viper.SetDefault("extraction.ocr_language", "spa")
	viper.SetDefault("extraction.min_text_chars", 50)
	viper.SetDefault("extraction.secondary_suffix", " (Spouse)")

	viper.SetDefault("accounts.industrial.checking", "Industrial GTQ")
	viper.SetDefault("accounts.industrial.usd_checking", "Industrial USD 9384")
	viper.SetDefault("accounts.industrial.credit", "BI Credit GTQ")
	viper.SetDefault("accounts.industrial.credit_usd", "BI 1116 USD")
	viper.SetDefault("accounts.bam.credit", "BAM Credit Card")
	viper.SetDefault("accounts.gyt.credit", "GyT 5978")
}

// Load builds a Config from viper's current state, applying defaults.
func Load() (*Config, error) {
	setDefaults()

	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "quetzal", "quetzal.db")
	}

	rate := viper.GetFloat64("extraction.usd_gtq_rate")
	if rate <= 0 {
		return nil, fmt.Errorf("extraction.usd_gtq_rate must be positive")
	}

	labels := make(map[string]string)
	for key, value := range viper.GetStringMapString("accounts.industrial") {
		labels["industrial."+key] = value
	}
	for key, value := range viper.GetStringMapString("accounts.bam") {
		labels["bam."+key] = value
	}
	for key, value := range viper.GetStringMapString("accounts.gyt") {
		labels["gyt."+key] = value
	}

	cfg := &Config{
		Logging: Logging{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		},
		Database: Database{Path: ExpandPath(dbPath)},
		Export: Export{
			OutputDir: ExpandPath(viper.GetString("export.output_dir")),
		},
		Extraction: Extraction{
			USDToGTQ:        decimal.NewFromFloat(rate),
			OCRLanguage:     viper.GetString("extraction.ocr_language"),
			MinTextChars:    viper.GetInt("extraction.min_text_chars"),
			SecondarySuffix: viper.GetString("extraction.secondary_suffix"),
			AccountLabels:   labels,
		},
	}
	return cfg, nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
