// Package config loads the judge's settings from RPS_JUDGE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Judge holds the judge process settings.
type Judge struct {
	Addr           string  `env:"RPS_JUDGE_ADDR" envDefault:":5000"`
	DataDir        string  `env:"RPS_JUDGE_DATA_DIR"`
	ArchiveDir     string  `env:"RPS_JUDGE_ARCHIVE_DIR"`
	ArchiveMax     int     `env:"RPS_JUDGE_ARCHIVE_MAX" envDefault:"5"`
	RoundRegistry  int     `env:"RPS_JUDGE_ROUND_REGISTRY" envDefault:"32"`
	DetectorScript string  `env:"RPS_JUDGE_DETECTOR_SCRIPT"`
	DetectorPython string  `env:"RPS_JUDGE_DETECTOR_PYTHON"`
	MinConfidence  float64 `env:"RPS_JUDGE_MIN_CONFIDENCE" envDefault:"0.5"`
	MaxUploadMB    int64   `env:"RPS_JUDGE_MAX_UPLOAD_MB" envDefault:"10"`
	Console        bool    `env:"RPS_JUDGE_CONSOLE" envDefault:"true"`
	Tray           bool    `env:"RPS_JUDGE_TRAY"`
	Debug          bool    `env:"RPS_JUDGE_DEBUG"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadJudge parses the environment, fills in directory defaults under
// ~/.rps-judge and validates the result.
func LoadJudge() (Judge, error) {
	var cfg Judge
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".rps-judge")
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = filepath.Join(cfg.DataDir, "debug_images")
	}

	return cfg, cfg.Validate()
}

// Validate checks the numeric limits.
func (j Judge) Validate() error {
	var errs []error
	if j.Addr == "" {
		errs = append(errs, errors.New("RPS_JUDGE_ADDR must not be empty"))
	}
	if j.ArchiveMax < 1 {
		errs = append(errs, fmt.Errorf("RPS_JUDGE_ARCHIVE_MAX must be at least 1, got %d", j.ArchiveMax))
	}
	if j.RoundRegistry < 1 {
		errs = append(errs, fmt.Errorf("RPS_JUDGE_ROUND_REGISTRY must be at least 1, got %d", j.RoundRegistry))
	}
	if j.MinConfidence < 0 || j.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("RPS_JUDGE_MIN_CONFIDENCE must be within 0..1, got %g", j.MinConfidence))
	}
	if j.MaxUploadMB < 1 {
		errs = append(errs, fmt.Errorf("RPS_JUDGE_MAX_UPLOAD_MB must be at least 1, got %d", j.MaxUploadMB))
	}
	return errors.Join(errs...)
}

// DBPath is the archive index database.
func (j Judge) DBPath() string {
	return filepath.Join(j.DataDir, "rps-judge.db")
}

// MaxUploadBytes converts MaxUploadMB to bytes.
func (j Judge) MaxUploadBytes() int64 {
	return j.MaxUploadMB << 20
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
