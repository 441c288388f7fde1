package domain

import (
	"context"
	"time"
)

// StoreMode names a persistence implementation.
type StoreMode string

const (
	StoreManaged StoreMode = "managed" // Per-user document store with sharing
	StoreLocal   StoreMode = "local"   // Single-user JSON file, no sharing
)

// ParseStoreMode parses a store mode name.
func ParseStoreMode(s string) (StoreMode, error) {
	switch StoreMode(s) {
	case StoreManaged, StoreLocal:
		return StoreMode(s), nil
	case "":
		return StoreManaged, nil
	default:
		return "", ErrInvalidStoreMode
	}
}

// ItemRepository manages one user's tasks and letters.
type ItemRepository interface {
	// Get retrieves an item. Returns ErrItemNotFound if absent.
	Get(ctx context.Context, ref ItemRef) (*Item, error)

	// List retrieves all items of a kind, newest first.
	List(ctx context.Context, kind Kind) ([]*Item, error)

	// Create inserts a new item, assigning an ID when empty.
	Create(ctx context.Context, item *Item) error

	// Save replaces an existing item. Returns ErrItemNotFound if absent.
	Save(ctx context.Context, item *Item) error

	// Delete removes an item. Deleting an absent item is not an error.
	Delete(ctx context.Context, ref ItemRef) error

	// DeleteBatch removes several items in one write.
	DeleteBatch(ctx context.Context, refs []ItemRef) error

	// SaveBatch upserts several items keyed by ID in one write.
	SaveBatch(ctx context.Context, items []*Item) error

	// ReplaceAll discards every item and stores items instead.
	ReplaceAll(ctx context.Context, items []*Item) error
}

// ChatRepository manages one user's saved chats.
type ChatRepository interface {
	// List retrieves all saved chats.
	List(ctx context.Context) ([]SavedChat, error)

	// SaveBatch upserts chats keyed by ID.
	SaveBatch(ctx context.Context, chats []SavedChat) error

	// ReplaceAll discards every chat and stores chats instead.
	ReplaceAll(ctx context.Context, chats []SavedChat) error
}

// Persistence is the storage backend chosen once at startup.
type Persistence interface {
	// Mode reports which backend this is.
	Mode() StoreMode

	// Items returns the signed-in user's item repository.
	Items() ItemRepository

	// Chats returns the signed-in user's chat repository.
	Chats() ChatRepository
}

// ShareRepository manages share records under owners' items.
type ShareRepository interface {
	// Get retrieves one share record. Returns ErrShareNotFound if absent.
	Get(ctx context.Context, ownerUID string, ref ItemRef, recipientUID string) (*ShareRecord, error)

	// List retrieves every share record of an item, oldest first.
	List(ctx context.Context, ownerUID string, ref ItemRef) ([]ShareRecord, error)

	// Put creates or overwrites a share record.
	Put(ctx context.Context, ownerUID string, ref ItemRef, rec ShareRecord) error

	// Delete removes a share record. Deleting an absent record is not an error.
	Delete(ctx context.Context, ownerUID string, ref ItemRef, recipientUID string) error
}

// ReceivedRepository manages recipients' copies of shared items.
type ReceivedRepository interface {
	// Create stores a new copy, assigning an ID when empty.
	Create(ctx context.Context, recipientUID string, r *ReceivedItem) error

	// Get retrieves one copy. Returns ErrReceivedNotFound if absent.
	Get(ctx context.Context, recipientUID, id string) (*ReceivedItem, error)

	// List retrieves every copy the recipient holds, newest first.
	List(ctx context.Context, recipientUID string) ([]*ReceivedItem, error)

	// FindByOriginal returns the recipient's copies of one original item.
	FindByOriginal(ctx context.Context, recipientUID, originalItemID, ownerUID string) ([]*ReceivedItem, error)

	// Save replaces an existing copy. Returns ErrReceivedNotFound if absent.
	Save(ctx context.Context, recipientUID string, r *ReceivedItem) error

	// Delete removes a copy. Deleting an absent copy is not an error.
	Delete(ctx context.Context, recipientUID, id string) error
}

// Directory is the user directory with share-code allocation.
type Directory interface {
	// Get retrieves a profile. Returns ErrUserNotFound if absent.
	Get(ctx context.Context, uid string) (*Profile, error)

	// FindByShareCode looks a user up by share code. Returns ErrUserNotFound if absent.
	FindByShareCode(ctx context.Context, code int) (*Profile, error)

	// Register stores a new profile and assigns the next share code
	// from the shared counter atomically. Returns ErrProfileExists if registered.
	Register(ctx context.Context, p *Profile) error

	// Update stores profile details other than the share code.
	Update(ctx context.Context, p *Profile) error

	// SetShareCode assigns a user-chosen code.
	// Returns ErrShareCodeTaken if another user holds it.
	SetShareCode(ctx context.Context, uid string, code int) error
}

// PhotoStore holds profile photos.
type PhotoStore interface {
	// PutPhoto stores a photo and returns the URL it is served under.
	PutPhoto(ctx context.Context, uid, contentType string, data []byte) (string, error)

	// GetPhoto retrieves a photo. Returns ErrUserNotFound if absent.
	GetPhoto(ctx context.Context, uid string) ([]byte, string, error)
}

// SharingStore is the multi-user half of managed storage.
type SharingStore interface {
	// ItemsOf returns any user's item repository.
	ItemsOf(uid string) ItemRepository
	Shares() ShareRepository
	Received() ReceivedRepository
	Directory() Directory
	Photos() PhotoStore
}

// NotifiedStore remembers which reminders already fired.
type NotifiedStore interface {
	// HasNotified reports whether key was marked.
	HasNotified(key string) (bool, error)

	// MarkNotified records key.
	MarkNotified(key string) error

	// ClearNotified forgets key so the reminder can fire again.
	ClearNotified(key string) error
}

// BackupPreference stores the per-device auto-backup switch.
type BackupPreference interface {
	AutoBackupEnabled() (bool, error)
	SetAutoBackup(enabled bool) error
}

// Preferences is the per-device state file.
type Preferences interface {
	NotifiedStore
	BackupPreference
}

// Mail is one outgoing message.
type Mail struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Mailer delivers mail.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// Notifier raises a desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// SheetRow is one row of the spreadsheet export.
type SheetRow struct {
	Name      string
	Detail    string
	Type      string
	Status    string
	CreatedAt string
	DueDate   string
	Result    string
	Priority  int
}

// SpreadsheetWriter renders rows as a workbook.
type SpreadsheetWriter interface {
	Write(rows []SheetRow) ([]byte, error)
}

// Logger writes categorized log lines.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, string) {}
func (NopLogger) Info(string, string)  {}
func (NopLogger) Warn(string, string)  {}
func (NopLogger) Error(string, string) {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the configuration with defaults applied.
	Load() (*Config, error)
}

// ConfigInfo describes the config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager manages the config file.
type ConfigManager interface {
	// Info returns information about the config file.
	Info() ConfigInfo

	// Init writes the default config for uid and returns its path.
	// Returns ErrConfigExists if the file is already there.
	Init(uid string) (string, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock in Location.
type RealClock struct {
	Location *time.Location
}

// Now returns the current time.
func (c RealClock) Now() time.Time {
	if c.Location != nil {
		return time.Now().In(c.Location)
	}
	return time.Now()
}
