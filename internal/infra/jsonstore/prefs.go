package jsonstore

import (
	"slices"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// maxNotifiedKeys bounds the de-duplication set. The oldest keys go first.
const maxNotifiedKeys = 1000

// prefsData represents the per-device preferences file.
type prefsData struct {
	Notified   []string `json:"notifiedReminders"`
	AutoBackup bool     `json:"autoBackup"`
}

// Prefs stores per-device state: fired reminder keys and the auto-backup switch.
type Prefs struct {
	file  lockedFile
	limit int
}

// NewPrefs creates a Prefs backed by the file at path.
func NewPrefs(path string) *Prefs {
	return &Prefs{file: newLockedFile(path), limit: maxNotifiedKeys}
}

// HasNotified reports whether key was marked.
func (p *Prefs) HasNotified(key string) (bool, error) {
	var data prefsData
	if err := p.file.view(&data); err != nil {
		return false, err
	}
	return slices.Contains(data.Notified, key), nil
}

// MarkNotified records key, evicting the oldest keys past the limit.
func (p *Prefs) MarkNotified(key string) error {
	var data prefsData
	return p.file.update(&data, func() error {
		if slices.Contains(data.Notified, key) {
			return nil
		}
		data.Notified = append(data.Notified, key)
		if over := len(data.Notified) - p.limit; over > 0 {
			data.Notified = slices.Clone(data.Notified[over:])
		}
		return nil
	})
}

// ClearNotified forgets key.
func (p *Prefs) ClearNotified(key string) error {
	var data prefsData
	return p.file.update(&data, func() error {
		data.Notified = slices.DeleteFunc(data.Notified, func(k string) bool { return k == key })
		return nil
	})
}

// AutoBackupEnabled reports the auto-backup switch.
func (p *Prefs) AutoBackupEnabled() (bool, error) {
	var data prefsData
	if err := p.file.view(&data); err != nil {
		return false, err
	}
	return data.AutoBackup, nil
}

// SetAutoBackup stores the auto-backup switch.
func (p *Prefs) SetAutoBackup(enabled bool) error {
	var data prefsData
	return p.file.update(&data, func() error {
		data.AutoBackup = enabled
		return nil
	})
}

var (
	_ domain.NotifiedStore    = (*Prefs)(nil)
	_ domain.BackupPreference = (*Prefs)(nil)
)
