package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const (
	xdgAppName = "toka"
	configFile = "config.json"

	DefaultCalendar   = "Tasks"
	DefaultDebounceMS = 300

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is read from ~/.config/toka/config.json and then overridden by
// TOKA_* environment variables.
type Config struct {
	Calendar     string `json:"calendar" env:"TOKA_CALENDAR"`
	Backend      string `json:"backend,omitempty" env:"TOKA_BACKEND"`
	DataDir      string `json:"data_dir,omitempty" env:"TOKA_DATA_DIR"`
	DebounceMS   int    `json:"debounce_ms,omitempty" env:"TOKA_DEBOUNCE_MS"`
	ActivePolicy string `json:"active_policy,omitempty" env:"TOKA_ACTIVE_POLICY"`
	// PDFFont is a TrueType font used for PDF exports of non-Latin text.
	PDFFont string `json:"pdf_font,omitempty" env:"TOKA_PDF_FONT"`
}

func GetConfigDir() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Calendar:   DefaultCalendar,
		Backend:    BackendFile,
		DebounceMS: DefaultDebounceMS,
	}
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// ReadFile reads path over the defaults without applying the environment.
// A missing file yields the defaults.
func ReadFile(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads path and applies environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Calendar == "" {
		cfg.Calendar = DefaultCalendar
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	if cfg.Backend != BackendFile && cfg.Backend != BackendSQLite {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if cfg.DebounceMS < 0 {
		cfg.DebounceMS = 0
	}
	if cfg.DataDir == "" {
		dir, err := GetConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
