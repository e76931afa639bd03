// Package config resolves cipherlab settings from defaults, YAML files and
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RowanDark/cipherlab/internal/env"
)

const (
	homeDirName   = ".cipherlab"
	homeFileName  = "config.yml"
	localFileName = "cipherlab.yml"
)

// Config captures the configuration resolved from defaults, optional files,
// and environment overrides.
type Config struct {
	Cipher      CipherConfig `yaml:"cipher"`
	RecipeDir   string       `yaml:"recipe_dir"`
	HistoryPath string       `yaml:"history_path"`
	AuditLog    string       `yaml:"audit_log"`
	ServerAddr  string       `yaml:"server_addr"`
	MetricsAddr string       `yaml:"metrics_addr"`
	Log         LogConfig    `yaml:"log"`
}

// CipherConfig holds defaults applied when a request omits them.
type CipherConfig struct {
	Filler string `yaml:"filler"`
	Rails  int    `yaml:"rails"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Default returns the built-in configuration. Paths live under
// ~/.cipherlab, or ./.cipherlab when no home directory is available.
func Default() Config {
	base := homeDirName
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		base = filepath.Join(home, homeDirName)
	}
	return Config{
		Cipher: CipherConfig{
			Filler: "X",
			Rails:  3,
		},
		RecipeDir:   filepath.Join(base, "recipes"),
		HistoryPath: filepath.Join(base, "history.db"),
		AuditLog:    "",
		ServerAddr:  "127.0.0.1:50061",
		MetricsAddr: "",
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// Load resolves the configuration. The lookup order is:
//  1. ~/.cipherlab/config.yml
//  2. ./cipherlab.yml
//
// CIPHERLAB_* environment variables (or legacy CLASSIC_* names) have the
// highest precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile layers a single explicit YAML file and the environment over
// the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	found, err := applyFile(&cfg, path)
	if err != nil {
		return Config{}, err
	}
	if !found {
		return Config{}, fmt.Errorf("config %s: %w", path, fs.ErrNotExist)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the cipher defaults.
func (c Config) Validate() error {
	if len(c.Cipher.Filler) != 1 || c.Cipher.Filler[0] < 'A' || c.Cipher.Filler[0] > 'Z' {
		return fmt.Errorf("cipher.filler must be one uppercase letter, got %q", c.Cipher.Filler)
	}
	if c.Cipher.Rails < 2 {
		return fmt.Errorf("cipher.rails must be at least 2, got %d", c.Cipher.Rails)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}

// FillerByte returns the configured filler letter.
func (c Config) FillerByte() byte {
	if c.Cipher.Filler == "" {
		return 'X'
	}
	return c.Cipher.Filler[0]
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	_, err = applyFile(cfg, filepath.Join(home, homeDirName, homeFileName))
	return err
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	_, err = applyFile(cfg, filepath.Join(wd, localFileName))
	return err
}

// applyFile merges path into cfg. A missing file is not an error.
func applyFile(cfg *Config, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return true, fmt.Errorf("parse config %s: %w", path, err)
	}
	return true, nil
}

type fileConfig struct {
	Cipher      *fileCipherConfig `yaml:"cipher"`
	RecipeDir   *string           `yaml:"recipe_dir"`
	HistoryPath *string           `yaml:"history_path"`
	AuditLog    *string           `yaml:"audit_log"`
	ServerAddr  *string           `yaml:"server_addr"`
	MetricsAddr *string           `yaml:"metrics_addr"`
	Log         *fileLogConfig    `yaml:"log"`
}

type fileCipherConfig struct {
	Filler *string `yaml:"filler"`
	Rails  *int    `yaml:"rails"`
}

type fileLogConfig struct {
	Format *string `yaml:"format"`
	Level  *string `yaml:"level"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	setString(&cfg.RecipeDir, fc.RecipeDir)
	setString(&cfg.HistoryPath, fc.HistoryPath)
	setString(&cfg.AuditLog, fc.AuditLog)
	setString(&cfg.ServerAddr, fc.ServerAddr)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	if fc.Cipher != nil {
		if fc.Cipher.Filler != nil {
			cfg.Cipher.Filler = strings.ToUpper(strings.TrimSpace(*fc.Cipher.Filler))
		}
		if fc.Cipher.Rails != nil {
			cfg.Cipher.Rails = *fc.Cipher.Rails
		}
	}
	if fc.Log != nil {
		setString(&cfg.Log.Format, fc.Log.Format)
		setString(&cfg.Log.Level, fc.Log.Level)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func applyEnvOverrides(cfg *Config) error {
	if val, ok := env.Get("FILLER"); ok {
		cfg.Cipher.Filler = strings.ToUpper(val)
	}
	if val, ok := env.Get("RAILS"); ok {
		rails, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%sRAILS: %q is not an integer", env.Prefix, val)
		}
		cfg.Cipher.Rails = rails
	}
	if val, ok := env.Get("RECIPES"); ok {
		cfg.RecipeDir = val
	}
	if val, ok := env.Get("HISTORY"); ok {
		cfg.HistoryPath = val
	}
	if val, ok := env.Get("AUDIT_LOG"); ok {
		cfg.AuditLog = val
	}
	if val, ok := env.Get("SERVER"); ok {
		cfg.ServerAddr = val
	}
	if val, ok := env.Get("METRICS_ADDR"); ok {
		cfg.MetricsAddr = val
	}
	if val, ok := env.Get("LOG_FORMAT"); ok {
		cfg.Log.Format = val
	}
	if val, ok := env.Get("LOG_LEVEL"); ok {
		cfg.Log.Level = val
	}
	return nil
}
