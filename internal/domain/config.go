package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string       `toml:"-"`
	Session  SessionConfig  `toml:"session"`
	Store    StoreConfig    `toml:"store"`
	Notify   NotifyConfig   `toml:"notify"`
	Backup   BackupConfig   `toml:"backup"`
	SMTP     SMTPConfig     `toml:"smtp"`
	Time     TimeConfig     `toml:"time"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Location *time.Location `toml:"-"` // Resolved from Time.Location
}

// SessionConfig identifies the signed-in user from [session] section.
type SessionConfig struct {
	UID string `toml:"uid,omitempty"` // Actor for every operation in managed mode
}

// StoreConfig selects the persistence backend from [store] section.
type StoreConfig struct {
	Mode string `toml:"mode,omitempty"` // "managed" (default) or "local"
	Path string `toml:"path,omitempty"` // Database or JSON file; relative paths resolve against the data dir
}

// NotifyConfig holds reminder-notification settings from [notify] section.
type NotifyConfig struct {
	Interval string `toml:"interval,omitempty"` // Poll interval (default: 15s)
	Language string `toml:"language,omitempty"` // Notification language: "ckb" (default) or "en"
	Disabled bool   `toml:"disabled,omitempty"` // Turn off desktop notifications
}

// BackupConfig holds e-mail backup settings from [backup] section.
type BackupConfig struct {
	Schedule string `toml:"schedule,omitempty"` // Cron expression (default: Sun-Thu 08:00 and 17:00)
	Email    string `toml:"email,omitempty"`    // Recipient; falls back to the profile e-mail
}

// SMTPConfig holds outgoing mail settings from [smtp] section.
// The password is read from the HTS_SMTP_PASSWORD environment variable.
type SMTPConfig struct {
	Host     string `toml:"host,omitempty"`
	Username string `toml:"username,omitempty"`
	From     string `toml:"from,omitempty"`
	Password string `toml:"-"`
	Port     int    `toml:"port,omitempty"`
}

// Enabled reports whether enough is configured to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// TimeConfig holds the calendar location from [time] section.
type TimeConfig struct {
	Location string `toml:"location,omitempty"` // IANA zone used for reminder computation
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// ServerConfig holds HTTP API settings from [server] section.
type ServerConfig struct {
	Addr string `toml:"addr,omitempty"` // Listen address (default: 127.0.0.1:8787)
}

// Default configuration values.
const (
	DefaultLogLevel       = "info"
	DefaultStoreMode      = StoreManaged
	DefaultNotifyInterval = 15 * time.Second
	DefaultLanguage       = "ckb"
	DefaultBackupSchedule = "0 8,17 * * 0-4"
	DefaultLocation       = "Asia/Baghdad"
	DefaultServerAddr     = "127.0.0.1:8787"
	DefaultSMTPPort       = 587
	DefaultDatabaseFile   = "hts.db"
	DefaultLocalFile      = "items.json"
	PrefsFileName         = "prefs.json"
)

// NewDefaultConfig returns a configuration populated with defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Store:  StoreConfig{Mode: string(DefaultStoreMode)},
		Notify: NotifyConfig{Interval: DefaultNotifyInterval.String(), Language: DefaultLanguage},
		Backup: BackupConfig{Schedule: DefaultBackupSchedule},
		SMTP:   SMTPConfig{Port: DefaultSMTPPort},
		Time:   TimeConfig{Location: DefaultLocation},
		Log:    LogConfig{Level: DefaultLogLevel},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// NotifyInterval parses the poll interval, falling back to the default.
func (c *Config) NotifyInterval() time.Duration {
	d, err := time.ParseDuration(c.Notify.Interval)
	if err != nil || d <= 0 {
		return DefaultNotifyInterval
	}
	return d
}

// StoreMode returns the parsed store mode.
func (c *Config) StoreMode() (StoreMode, error) {
	return ParseStoreMode(c.Store.Mode)
}

// StorePath resolves the store file inside dataDir.
func (c *Config) StorePath(dataDir string) string {
	p := c.Store.Path
	if p == "" {
		if c.Store.Mode == string(StoreLocal) {
			p = DefaultLocalFile
		} else {
			p = DefaultDatabaseFile
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

// Directory and file names.
const (
	AppDirName     = "hts"         // Directory name under the user config dir
	ConfigFileName = "config.toml" // Config file name
	EnvFileName    = ".env"        // Optional secrets file next to the config
	LogFileName    = "hts.log"     // Log file name
)

// DataDir returns the data directory for a config home.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func DataDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// RenderConfigTemplate renders the commented config written by "hts config init".
func RenderConfigTemplate(uid string) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplateContent)
	if err != nil {
		return "", fmt.Errorf("parse config template: %w", err)
	}

	data := map[string]any{
		"UID":            uid,
		"Mode":           DefaultStoreMode,
		"Interval":       DefaultNotifyInterval.String(),
		"Language":       DefaultLanguage,
		"BackupSchedule": DefaultBackupSchedule,
		"Location":       DefaultLocation,
		"LogLevel":       DefaultLogLevel,
		"ServerAddr":     DefaultServerAddr,
		"SMTPPort":       DefaultSMTPPort,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render config template: %w", err)
	}
	return buf.String(), nil
}

// LogPath returns the log file path inside dataDir.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", LogFileName)
}
