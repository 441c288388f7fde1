package config

import (
	"os"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages the config file.
type Manager struct {
	dataDir string
}

// NewManager creates a new Manager for dataDir.
func NewManager(dataDir string) *Manager {
	return &Manager{dataDir: dataDir}
}

// Info returns information about the config file.
func (m *Manager) Info() domain.ConfigInfo {
	path := domain.ConfigPath(m.dataDir)
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path, Exists: false}
	}
	return domain.ConfigInfo{Path: path, Content: string(content), Exists: true}
}

// Init writes the commented default config with uid filled in.
// Returns domain.ErrConfigExists if the file is already there.
func (m *Manager) Init(uid string) (string, error) {
	path := domain.ConfigPath(m.dataDir)
	if _, err := os.Stat(path); err == nil {
		return path, domain.ErrConfigExists
	}

	if err := os.MkdirAll(m.dataDir, 0o700); err != nil {
		return path, err
	}

	content, err := domain.RenderConfigTemplate(uid)
	if err != nil {
		return path, err
	}
	return path, os.WriteFile(path, []byte(content), 0o600)
}
