// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
	_ "time/tzdata" // zone data for hosts without it

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Environment variables that override file settings.
const (
	EnvHome         = "HTS_HOME"          // Data directory
	EnvUID          = "HTS_UID"           // [session] uid
	EnvStoreMode    = "HTS_STORE_MODE"    // [store] mode
	EnvSMTPPassword = "HTS_SMTP_PASSWORD" // SMTP password, never stored in the config file
)

// knownKeys lists the keys each section accepts. Anything else is reported
// as a warning rather than an error so older binaries can read newer files.
var knownKeys = map[string][]string{
	"session": {"uid"},
	"store":   {"mode", "path"},
	"notify":  {"interval", "language", "disabled"},
	"backup":  {"schedule", "email"},
	"smtp":    {"host", "port", "username", "from"},
	"time":    {"location"},
	"log":     {"level"},
	"server":  {"addr"},
}

// Loader loads configuration from the data directory.
type Loader struct {
	dataDir string
}

// NewLoader creates a new Loader for dataDir.
func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir}
}

// DefaultDataDir returns $HTS_HOME, or the hts directory under the user config dir.
func DefaultDataDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.DataDir(configHome)
}

// Load returns defaults overlaid with config.toml, the .env file and the environment.
// A missing config file is not an error.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	// .env values never override variables already set in the environment.
	envPath := filepath.Join(l.dataDir, domain.EnvFileName)
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	data, err := os.ReadFile(domain.ConfigPath(l.dataDir))
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(cfg)

	if _, err := cfg.StoreMode(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Time.Location)
	if err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown time location %q, using local time", cfg.Time.Location))
		loc = time.Local
	}
	cfg.Location = loc

	return cfg, nil
}

// decode overlays TOML data onto cfg and records unknown keys as warnings.
func decode(data []byte, cfg *domain.Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	cfg.Warnings = append(cfg.Warnings, unknownKeys(raw)...)
	return nil
}

func unknownKeys(raw map[string]any) []string {
	var warnings []string
	for section, value := range raw {
		keys, ok := knownKeys[section]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s must be a table", section))
			continue
		}
		for k := range m {
			if !contains(keys, k) {
				warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}

func applyEnv(cfg *domain.Config) {
	if v := os.Getenv(EnvUID); v != "" {
		cfg.Session.UID = v
	}
	if v := os.Getenv(EnvStoreMode); v != "" {
		cfg.Store.Mode = v
	}
	cfg.SMTP.Password = os.Getenv(EnvSMTPPassword)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
