// Package jsonstore provides the single-user JSON file backend used in local mode.
package jsonstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hts-group/hts-tasks/internal/domain"
)

// storeData represents the JSON file structure.
type storeData struct {
	Tasks           []*domain.Item     `json:"tasks"`
	ApprovalLetters []*domain.Item     `json:"approvalLetters"`
	SavedChats      []domain.SavedChat `json:"savedChats"`
}

func (d *storeData) list(kind domain.Kind) *[]*domain.Item {
	if kind == domain.KindLetter {
		return &d.ApprovalLetters
	}
	return &d.Tasks
}

// normalize re-tags items with the kind of the list they were read from.
func (d *storeData) normalize() {
	for _, it := range d.Tasks {
		it.Kind = domain.KindTask
		it.Letter = nil
	}
	for _, it := range d.ApprovalLetters {
		it.Kind = domain.KindLetter
		if it.Letter == nil {
			it.Letter = &domain.Letter{}
		}
	}
}

// Store implements domain.Persistence using a JSON file.
type Store struct {
	items *ItemStore
	chats *ChatStore
	file  lockedFile
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string) *Store {
	s := &Store{file: newLockedFile(path)}
	s.items = &ItemStore{s: s, now: time.Now}
	s.chats = &ChatStore{s: s}
	return s
}

// Mode reports the local backend.
func (s *Store) Mode() domain.StoreMode { return domain.StoreLocal }

// Items returns the item repository.
func (s *Store) Items() domain.ItemRepository { return s.items }

// Chats returns the chat repository.
func (s *Store) Chats() domain.ChatRepository { return s.chats }

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	return s.file.exists()
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	if s.file.exists() {
		return nil
	}
	var data storeData
	return s.file.update(&data, func() error { return nil })
}

func (s *Store) view(fn func(*storeData) error) error {
	var data storeData
	if err := s.file.view(&data); err != nil {
		return err
	}
	data.normalize()
	return fn(&data)
}

func (s *Store) update(fn func(*storeData) error) error {
	var data storeData
	return s.file.update(&data, func() error {
		data.normalize()
		return fn(&data)
	})
}

// ItemStore implements domain.ItemRepository over the store file.
type ItemStore struct {
	s   *Store
	now func() time.Time
}

// newLocalID returns an id in the local-<unix ms>-<random> form.
func (r *ItemStore) newLocalID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("local-%d-%s", r.now().UnixMilli(), suffix)
}

// Get retrieves an item.
func (r *ItemStore) Get(_ context.Context, ref domain.ItemRef) (*domain.Item, error) {
	var found *domain.Item
	err := r.s.view(func(data *storeData) error {
		for _, it := range *data.list(ref.Kind) {
			if it.ID == ref.ID {
				found = it
				return nil
			}
		}
		return domain.ErrItemNotFound
	})
	return found, err
}

// List retrieves all items of a kind, newest first.
func (r *ItemStore) List(_ context.Context, kind domain.Kind) ([]*domain.Item, error) {
	var items []*domain.Item
	err := r.s.view(func(data *storeData) error {
		items = slices.Clone(*data.list(kind))
		return nil
	})
	domain.SortNewestFirst(items)
	return items, err
}

// Create inserts a new item, assigning an ID when empty.
func (r *ItemStore) Create(_ context.Context, item *domain.Item) error {
	return r.s.update(func(data *storeData) error {
		list := data.list(item.Kind)
		if item.ID == "" {
			item.ID = r.newLocalID()
		} else if indexOf(*list, item.ID) >= 0 {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidItem, item.ID)
		}
		*list = append(*list, item)
		return nil
	})
}

// Save replaces an existing item.
func (r *ItemStore) Save(_ context.Context, item *domain.Item) error {
	return r.s.update(func(data *storeData) error {
		list := data.list(item.Kind)
		i := indexOf(*list, item.ID)
		if i < 0 {
			return domain.ErrItemNotFound
		}
		(*list)[i] = item
		return nil
	})
}

// Delete removes an item.
func (r *ItemStore) Delete(ctx context.Context, ref domain.ItemRef) error {
	return r.DeleteBatch(ctx, []domain.ItemRef{ref})
}

// DeleteBatch removes several items in one write.
func (r *ItemStore) DeleteBatch(_ context.Context, refs []domain.ItemRef) error {
	if len(refs) == 0 {
		return nil
	}
	drop := make(map[domain.ItemRef]bool, len(refs))
	for _, ref := range refs {
		drop[ref] = true
	}
	return r.s.update(func(data *storeData) error {
		for _, kind := range domain.AllKinds() {
			list := data.list(kind)
			*list = slices.DeleteFunc(*list, func(it *domain.Item) bool {
				return drop[domain.ItemRef{Kind: kind, ID: it.ID}]
			})
		}
		return nil
	})
}

// SaveBatch upserts several items keyed by ID in one write.
func (r *ItemStore) SaveBatch(_ context.Context, items []*domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.s.update(func(data *storeData) error {
		for _, it := range items {
			if it.ID == "" {
				it.ID = r.newLocalID()
			}
			list := data.list(it.Kind)
			if i := indexOf(*list, it.ID); i >= 0 {
				(*list)[i] = it
			} else {
				*list = append(*list, it)
			}
		}
		return nil
	})
}

// ReplaceAll discards every item and stores items instead.
func (r *ItemStore) ReplaceAll(_ context.Context, items []*domain.Item) error {
	return r.s.update(func(data *storeData) error {
		data.Tasks = nil
		data.ApprovalLetters = nil
		for _, it := range items {
			if it.ID == "" {
				it.ID = r.newLocalID()
			}
			list := data.list(it.Kind)
			*list = append(*list, it)
		}
		return nil
	})
}

// ChatStore implements domain.ChatRepository over the store file.
type ChatStore struct {
	s *Store
}

// List retrieves all saved chats.
func (c *ChatStore) List(_ context.Context) ([]domain.SavedChat, error) {
	var chats []domain.SavedChat
	err := c.s.view(func(data *storeData) error {
		chats = slices.Clone(data.SavedChats)
		return nil
	})
	return chats, err
}

// SaveBatch upserts chats keyed by ID.
func (c *ChatStore) SaveBatch(_ context.Context, chats []domain.SavedChat) error {
	if len(chats) == 0 {
		return nil
	}
	return c.s.update(func(data *storeData) error {
		for _, chat := range chats {
			i := slices.IndexFunc(data.SavedChats, func(x domain.SavedChat) bool { return x.ID == chat.ID })
			if i >= 0 {
				data.SavedChats[i] = chat
			} else {
				data.SavedChats = append(data.SavedChats, chat)
			}
		}
		return nil
	})
}

// ReplaceAll discards every chat and stores chats instead.
func (c *ChatStore) ReplaceAll(_ context.Context, chats []domain.SavedChat) error {
	return c.s.update(func(data *storeData) error {
		data.SavedChats = slices.Clone(chats)
		return nil
	})
}

func indexOf(items []*domain.Item, id string) int {
	return slices.IndexFunc(items, func(it *domain.Item) bool { return it.ID == id })
}

// Ensure Store implements Persistence.
var (
	_ domain.Persistence    = (*Store)(nil)
	_ domain.ItemRepository = (*ItemStore)(nil)
	_ domain.ChatRepository = (*ChatStore)(nil)
)
