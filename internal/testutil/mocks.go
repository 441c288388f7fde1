// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockItemRepository is an in-memory domain.ItemRepository.
// Stored items are copies, so callers must Save to persist changes.
// Fields are ordered to minimize memory padding.
type MockItemRepository struct {
	Items          map[domain.ItemRef]*domain.Item
	GetErr         error
	ListErr        error
	CreateErr      error
	SaveErr        error
	DeleteErr      error
	BatchErr       error
	DeleteBatchLog [][]domain.ItemRef
	SaveBatchCalls int
	mu             sync.Mutex
	nextID         int
}

// Ensure MockItemRepository implements domain.ItemRepository.
var _ domain.ItemRepository = (*MockItemRepository)(nil)

// NewMockItemRepository creates an empty repository.
func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{Items: make(map[domain.ItemRef]*domain.Item)}
}

// Put stores a copy of item without error injection.
func (m *MockItemRepository) Put(item *domain.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[item.Ref()] = item.Clone()
}

// Peek returns the stored item or nil, bypassing error injection.
func (m *MockItemRepository) Peek(ref domain.ItemRef) *domain.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.Items[ref]
	if !ok {
		return nil
	}
	return it.Clone()
}

// Get returns a copy of the item.
func (m *MockItemRepository) Get(_ context.Context, ref domain.ItemRef) (*domain.Item, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	it := m.Peek(ref)
	if it == nil {
		return nil, domain.ErrItemNotFound
	}
	return it, nil
}

// List returns copies of every item of kind, newest first.
func (m *MockItemRepository) List(_ context.Context, kind domain.Kind) ([]*domain.Item, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]*domain.Item, 0, len(m.Items))
	for ref, it := range m.Items {
		if ref.Kind == kind {
			items = append(items, it.Clone())
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	domain.SortNewestFirst(items)
	return items, nil
}

// Create stores a new item, assigning "id-N" when the ID is empty.
func (m *MockItemRepository) Create(_ context.Context, item *domain.Item) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == "" {
		m.nextID++
		item.ID = fmt.Sprintf("id-%d", m.nextID)
	}
	m.Items[item.Ref()] = item.Clone()
	return nil
}

// Save replaces an existing item.
func (m *MockItemRepository) Save(_ context.Context, item *domain.Item) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[item.Ref()]; !ok {
		return domain.ErrItemNotFound
	}
	m.Items[item.Ref()] = item.Clone()
	return nil
}

// Delete removes an item.
func (m *MockItemRepository) Delete(_ context.Context, ref domain.ItemRef) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Items, ref)
	return nil
}

// DeleteBatch removes several items and records the call.
func (m *MockItemRepository) DeleteBatch(_ context.Context, refs []domain.ItemRef) error {
	if m.BatchErr != nil {
		return m.BatchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteBatchLog = append(m.DeleteBatchLog, refs)
	for _, ref := range refs {
		delete(m.Items, ref)
	}
	return nil
}

// SaveBatch upserts several items.
func (m *MockItemRepository) SaveBatch(_ context.Context, items []*domain.Item) error {
	if m.BatchErr != nil {
		return m.BatchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveBatchCalls++
	for _, it := range items {
		if it.ID == "" {
			m.nextID++
			it.ID = fmt.Sprintf("id-%d", m.nextID)
		}
		m.Items[it.Ref()] = it.Clone()
	}
	return nil
}

// ReplaceAll discards every item and stores items.
func (m *MockItemRepository) ReplaceAll(ctx context.Context, items []*domain.Item) error {
	if m.BatchErr != nil {
		return m.BatchErr
	}
	m.mu.Lock()
	m.Items = make(map[domain.ItemRef]*domain.Item)
	m.mu.Unlock()
	return m.SaveBatch(ctx, items)
}

// MockChatRepository is an in-memory domain.ChatRepository.
type MockChatRepository struct {
	Chats []domain.SavedChat
	Err   error
}

// List returns the stored chats.
func (m *MockChatRepository) List(_ context.Context) ([]domain.SavedChat, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]domain.SavedChat(nil), m.Chats...), nil
}

// SaveBatch upserts chats by ID.
func (m *MockChatRepository) SaveBatch(_ context.Context, chats []domain.SavedChat) error {
	if m.Err != nil {
		return m.Err
	}
	for _, c := range chats {
		replaced := false
		for i := range m.Chats {
			if m.Chats[i].ID == c.ID {
				m.Chats[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			m.Chats = append(m.Chats, c)
		}
	}
	return nil
}

// ReplaceAll discards every chat and stores chats.
func (m *MockChatRepository) ReplaceAll(_ context.Context, chats []domain.SavedChat) error {
	if m.Err != nil {
		return m.Err
	}
	m.Chats = append([]domain.SavedChat(nil), chats...)
	return nil
}

// MockPersistence is a test double for domain.Persistence.
type MockPersistence struct {
	ItemRepo  *MockItemRepository
	ChatRepo  *MockChatRepository
	ModeValue domain.StoreMode
}

// NewMockPersistence creates a persistence of the given mode with empty repositories.
func NewMockPersistence(mode domain.StoreMode) *MockPersistence {
	return &MockPersistence{
		ItemRepo:  NewMockItemRepository(),
		ChatRepo:  &MockChatRepository{},
		ModeValue: mode,
	}
}

// Mode returns the configured mode.
func (m *MockPersistence) Mode() domain.StoreMode { return m.ModeValue }

// Items returns the item repository.
func (m *MockPersistence) Items() domain.ItemRepository { return m.ItemRepo }

// Chats returns the chat repository.
func (m *MockPersistence) Chats() domain.ChatRepository { return m.ChatRepo }

// MockShareRepository is an in-memory domain.ShareRepository.
// Fields are ordered to minimize memory padding.
type MockShareRepository struct {
	Records   map[string]map[string]domain.ShareRecord
	GetErr    error
	ListErr   error
	PutErr    error
	DeleteErr error
	PutCalls  int
	mu        sync.Mutex
}

// Ensure MockShareRepository implements domain.ShareRepository.
var _ domain.ShareRepository = (*MockShareRepository)(nil)

// NewMockShareRepository creates an empty repository.
func NewMockShareRepository() *MockShareRepository {
	return &MockShareRepository{Records: make(map[string]map[string]domain.ShareRecord)}
}

func shareKey(ownerUID string, ref domain.ItemRef) string {
	return ownerUID + "/" + ref.String()
}

// Peek returns one record without error injection.
func (m *MockShareRepository) Peek(ownerUID string, ref domain.ItemRef, recipientUID string) (domain.ShareRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Records[shareKey(ownerUID, ref)][recipientUID]
	return rec, ok
}

// Get returns one record.
func (m *MockShareRepository) Get(_ context.Context, ownerUID string, ref domain.ItemRef, recipientUID string) (*domain.ShareRecord, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	rec, ok := m.Peek(ownerUID, ref, recipientUID)
	if !ok {
		return nil, domain.ErrShareNotFound
	}
	return &rec, nil
}

// List returns every record of an item, oldest first.
func (m *MockShareRepository) List(_ context.Context, ownerUID string, ref domain.ItemRef) ([]domain.ShareRecord, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ShareRecord
	for _, rec := range m.Records[shareKey(ownerUID, ref)] {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SharedAt.Equal(out[j].SharedAt) {
			return out[i].UID < out[j].UID
		}
		return out[i].SharedAt.Before(out[j].SharedAt)
	})
	return out, nil
}

// Put stores a record.
func (m *MockShareRepository) Put(_ context.Context, ownerUID string, ref domain.ItemRef, rec domain.ShareRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	if m.PutErr != nil {
		return m.PutErr
	}
	key := shareKey(ownerUID, ref)
	if m.Records[key] == nil {
		m.Records[key] = make(map[string]domain.ShareRecord)
	}
	m.Records[key][rec.UID] = rec
	return nil
}

// Delete removes a record.
func (m *MockShareRepository) Delete(_ context.Context, ownerUID string, ref domain.ItemRef, recipientUID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Records[shareKey(ownerUID, ref)], recipientUID)
	return nil
}

// MockReceivedRepository is an in-memory domain.ReceivedRepository.
// SaveErrFor injects a save failure for one recipient.
// Fields are ordered to minimize memory padding.
type MockReceivedRepository struct {
	Items       map[string]map[string]*domain.ReceivedItem
	SaveErrFor  map[string]error
	CreateErr   error
	GetErr      error
	ListErr     error
	SaveErr     error
	DeleteErr   error
	FindCalls   int
	CreateCalls int
	mu          sync.Mutex
	nextID      int
}

// Ensure MockReceivedRepository implements domain.ReceivedRepository.
var _ domain.ReceivedRepository = (*MockReceivedRepository)(nil)

// NewMockReceivedRepository creates an empty repository.
func NewMockReceivedRepository() *MockReceivedRepository {
	return &MockReceivedRepository{
		Items:      make(map[string]map[string]*domain.ReceivedItem),
		SaveErrFor: make(map[string]error),
	}
}

func cloneReceived(r *domain.ReceivedItem) *domain.ReceivedItem {
	c := *r
	c.Data = *r.Data.Clone()
	if r.SeenAt != nil {
		t := *r.SeenAt
		c.SeenAt = &t
	}
	return &c
}

// Put stores a copy of r without error injection.
func (m *MockReceivedRepository) Put(recipientUID string, r *domain.ReceivedItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Items[recipientUID] == nil {
		m.Items[recipientUID] = make(map[string]*domain.ReceivedItem)
	}
	m.Items[recipientUID][r.ID] = cloneReceived(r)
}

// All returns copies of every item the recipient holds, bypassing error injection.
func (m *MockReceivedRepository) All(recipientUID string) []*domain.ReceivedItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ReceivedItem
	for _, r := range m.Items[recipientUID] {
		out = append(out, cloneReceived(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create stores a new copy, assigning "recv-N" when the ID is empty.
func (m *MockReceivedRepository) Create(_ context.Context, recipientUID string, r *domain.ReceivedItem) error {
	m.mu.Lock()
	m.CreateCalls++
	if m.CreateErr != nil {
		m.mu.Unlock()
		return m.CreateErr
	}
	if r.ID == "" {
		m.nextID++
		r.ID = fmt.Sprintf("recv-%d", m.nextID)
	}
	m.mu.Unlock()
	m.Put(recipientUID, r)
	return nil
}

// Get returns one copy.
func (m *MockReceivedRepository) Get(_ context.Context, recipientUID, id string) (*domain.ReceivedItem, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Items[recipientUID][id]
	if !ok {
		return nil, domain.ErrReceivedNotFound
	}
	return cloneReceived(r), nil
}

// List returns every copy, newest share first.
func (m *MockReceivedRepository) List(_ context.Context, recipientUID string) ([]*domain.ReceivedItem, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := m.All(recipientUID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SharedAt.After(out[j].SharedAt) })
	return out, nil
}

// FindByOriginal returns the copies of one original item.
func (m *MockReceivedRepository) FindByOriginal(_ context.Context, recipientUID, originalItemID, ownerUID string) ([]*domain.ReceivedItem, error) {
	m.mu.Lock()
	m.FindCalls++
	m.mu.Unlock()
	var out []*domain.ReceivedItem
	for _, r := range m.All(recipientUID) {
		if r.OriginalItemID == originalItemID && r.OwnerUID() == ownerUID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Save replaces an existing copy.
func (m *MockReceivedRepository) Save(_ context.Context, recipientUID string, r *domain.ReceivedItem) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	if err := m.SaveErrFor[recipientUID]; err != nil {
		m.mu.Unlock()
		return err
	}
	_, ok := m.Items[recipientUID][r.ID]
	m.mu.Unlock()
	if !ok {
		return domain.ErrReceivedNotFound
	}
	m.Put(recipientUID, r)
	return nil
}

// Delete removes a copy.
func (m *MockReceivedRepository) Delete(_ context.Context, recipientUID, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Items[recipientUID], id)
	return nil
}

// MockDirectory is an in-memory domain.Directory.
// Fields are ordered to minimize memory padding.
type MockDirectory struct {
	Profiles    map[string]*domain.Profile
	GetErr      error
	RegisterErr error
	UpdateErr   error
	LastCode    int
	mu          sync.Mutex
}

// Ensure MockDirectory implements domain.Directory.
var _ domain.Directory = (*MockDirectory)(nil)

// NewMockDirectory creates an empty directory.
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{Profiles: make(map[string]*domain.Profile)}
}

// Add stores a profile without allocation.
func (m *MockDirectory) Add(p domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Profiles[p.UID] = &p
}

// Get returns a profile.
func (m *MockDirectory) Get(_ context.Context, uid string) (*domain.Profile, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *p
	return &c, nil
}

// FindByShareCode looks a profile up by code.
func (m *MockDirectory) FindByShareCode(_ context.Context, code int) (*domain.Profile, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Profiles {
		if p.ShareCode == code {
			c := *p
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Register stores a profile with the next free code.
func (m *MockDirectory) Register(_ context.Context, p *domain.Profile) error {
	if m.RegisterErr != nil {
		return m.RegisterErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Profiles[p.UID]; ok {
		return domain.ErrProfileExists
	}
	for {
		m.LastCode++
		if !m.codeTaken(m.LastCode) {
			break
		}
	}
	p.ShareCode = m.LastCode
	c := *p
	m.Profiles[p.UID] = &c
	return nil
}

// Update stores profile details, keeping the share code.
func (m *MockDirectory) Update(_ context.Context, p *domain.Profile) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.Profiles[p.UID]
	if !ok {
		return domain.ErrUserNotFound
	}
	c := *p
	c.ShareCode = cur.ShareCode
	m.Profiles[p.UID] = &c
	return nil
}

// SetShareCode assigns code to uid.
func (m *MockDirectory) SetShareCode(_ context.Context, uid string, code int) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	for other, q := range m.Profiles {
		if other != uid && q.ShareCode == code {
			return domain.ErrShareCodeTaken
		}
	}
	p.ShareCode = code
	return nil
}

func (m *MockDirectory) codeTaken(code int) bool {
	for _, p := range m.Profiles {
		if p.ShareCode == code {
			return true
		}
	}
	return false
}

// MockPhotoStore is an in-memory domain.PhotoStore.
type MockPhotoStore struct {
	Photos map[string][]byte
	Types  map[string]string
	Err    error
}

// NewMockPhotoStore creates an empty photo store.
func NewMockPhotoStore() *MockPhotoStore {
	return &MockPhotoStore{Photos: make(map[string][]byte), Types: make(map[string]string)}
}

// PutPhoto stores a photo.
func (m *MockPhotoStore) PutPhoto(_ context.Context, uid, contentType string, data []byte) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Photos[uid] = data
	m.Types[uid] = contentType
	return "/photos/" + uid, nil
}

// GetPhoto returns a photo.
func (m *MockPhotoStore) GetPhoto(_ context.Context, uid string) ([]byte, string, error) {
	if m.Err != nil {
		return nil, "", m.Err
	}
	data, ok := m.Photos[uid]
	if !ok {
		return nil, "", domain.ErrUserNotFound
	}
	return data, m.Types[uid], nil
}

// MockSharingStore is an in-memory domain.SharingStore.
type MockSharingStore struct {
	ItemRepos    map[string]*MockItemRepository
	ShareRepo    *MockShareRepository
	ReceivedRepo *MockReceivedRepository
	DirRepo      *MockDirectory
	PhotoRepo    *MockPhotoStore
	mu           sync.Mutex
}

// Ensure MockSharingStore implements domain.SharingStore.
var _ domain.SharingStore = (*MockSharingStore)(nil)

// NewMockSharingStore creates an empty sharing store.
func NewMockSharingStore() *MockSharingStore {
	return &MockSharingStore{
		ItemRepos:    make(map[string]*MockItemRepository),
		ShareRepo:    NewMockShareRepository(),
		ReceivedRepo: NewMockReceivedRepository(),
		DirRepo:      NewMockDirectory(),
		PhotoRepo:    NewMockPhotoStore(),
	}
}

// UserItems returns uid's repository, creating it on first use.
func (m *MockSharingStore) UserItems(uid string) *MockItemRepository {
	m.mu.Lock()
	defer m.mu.Unlock()
	repo, ok := m.ItemRepos[uid]
	if !ok {
		repo = NewMockItemRepository()
		m.ItemRepos[uid] = repo
	}
	return repo
}

// Session returns a managed persistence for uid backed by this store.
func (m *MockSharingStore) Session(uid string) *MockPersistence {
	return &MockPersistence{
		ItemRepo:  m.UserItems(uid),
		ChatRepo:  &MockChatRepository{},
		ModeValue: domain.StoreManaged,
	}
}

// ItemsOf returns uid's repository.
func (m *MockSharingStore) ItemsOf(uid string) domain.ItemRepository { return m.UserItems(uid) }

// Shares returns the share repository.
func (m *MockSharingStore) Shares() domain.ShareRepository { return m.ShareRepo }

// Received returns the received repository.
func (m *MockSharingStore) Received() domain.ReceivedRepository { return m.ReceivedRepo }

// Directory returns the directory.
func (m *MockSharingStore) Directory() domain.Directory { return m.DirRepo }

// Photos returns the photo store.
func (m *MockSharingStore) Photos() domain.PhotoStore { return m.PhotoRepo }

// MockPrefs is a test double for domain.NotifiedStore and domain.BackupPreference.
type MockPrefs struct {
	Notified   map[string]bool
	Err        error
	AutoBackup bool
}

// NewMockPrefs creates empty preferences.
func NewMockPrefs() *MockPrefs {
	return &MockPrefs{Notified: make(map[string]bool)}
}

// HasNotified reports whether key was marked.
func (m *MockPrefs) HasNotified(key string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	return m.Notified[key], nil
}

// MarkNotified records key.
func (m *MockPrefs) MarkNotified(key string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Notified[key] = true
	return nil
}

// ClearNotified forgets key.
func (m *MockPrefs) ClearNotified(key string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Notified, key)
	return nil
}

// AutoBackupEnabled returns the stored switch.
func (m *MockPrefs) AutoBackupEnabled() (bool, error) {
	return m.AutoBackup, m.Err
}

// SetAutoBackup stores the switch.
func (m *MockPrefs) SetAutoBackup(enabled bool) error {
	if m.Err != nil {
		return m.Err
	}
	m.AutoBackup = enabled
	return nil
}

// MockMailer is a test double for domain.Mailer.
type MockMailer struct {
	Err  error
	Sent []domain.Mail
}

// Send records m.
func (m *MockMailer) Send(_ context.Context, mail domain.Mail) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, mail)
	return nil
}

// Notification is one recorded notification.
type Notification struct {
	Title string
	Body  string
}

// MockNotifier is a test double for domain.Notifier.
type MockNotifier struct {
	Err   error
	Calls []Notification
}

// Notify records the call.
func (m *MockNotifier) Notify(title, body string) error {
	m.Calls = append(m.Calls, Notification{Title: title, Body: body})
	return m.Err
}

// MockSpreadsheetWriter is a test double for domain.SpreadsheetWriter.
type MockSpreadsheetWriter struct {
	Err  error
	Rows []domain.SheetRow
}

// Write records rows and returns a placeholder document.
func (m *MockSpreadsheetWriter) Write(rows []domain.SheetRow) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Rows = rows
	return []byte("xlsx"), nil
}

// LogEntry is one recorded log line.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger records log lines.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Debug records a debug line.
func (m *MockLogger) Debug(category, msg string) { m.add("DEBUG", category, msg) }

// Info records an info line.
func (m *MockLogger) Info(category, msg string) { m.add("INFO", category, msg) }

// Warn records a warning line.
func (m *MockLogger) Warn(category, msg string) { m.add("WARN", category, msg) }

// Error records an error line.
func (m *MockLogger) Error(category, msg string) { m.add("ERROR", category, msg) }

// Has reports whether a line at level contains substr.
func (m *MockLogger) Has(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Level == level && strings.Contains(e.Msg, substr) {
			return true
		}
	}
	return false
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config *domain.Config
	Err    error
}

// Load returns the configured config, or defaults.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr  error
	InitUID  string
	FileInfo domain.ConfigInfo
}

// Ensure MockConfigManager implements domain.ConfigManager.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// Info returns the configured file info.
func (m *MockConfigManager) Info() domain.ConfigInfo {
	return m.FileInfo
}

// Init records uid and returns the configured path.
func (m *MockConfigManager) Init(uid string) (string, error) {
	if m.InitErr != nil {
		return m.FileInfo.Path, m.InitErr
	}
	m.InitUID = uid
	m.FileInfo.Exists = true
	return m.FileInfo.Path, nil
}
