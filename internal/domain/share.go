package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Profile is a user's directory entry. ShareCode is unique across users.
// Fields are ordered to minimize memory padding.
type Profile struct {
	CreatedAt time.Time `json:"createdAt"`
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Company   string    `json:"company,omitempty"`
	Position  string    `json:"position,omitempty"`
	ShareCode int       `json:"shareCode"`
}

// ShareRecord is stored under the owner's item, one per recipient.
// ReceivedItemID points at the recipient's copy; it is empty for records
// written before the pointer existed, in which case the copy is found by
// its original item id.
type ShareRecord struct {
	SharedAt       time.Time  `json:"sharedAt"`
	LastSeen       *time.Time `json:"lastSeen"`
	UID            string     `json:"uid"`
	Name           string     `json:"name"`
	PhotoURL       string     `json:"photoURL,omitempty"`
	ReceivedItemID string     `json:"receivedItemId,omitempty"`
}

// ReceivedItem is a recipient's copy of a shared item.
// Data is a snapshot of the original with id, userId and sharedCount removed.
type ReceivedItem struct {
	SharedAt         time.Time  `json:"sharedAt"`
	SeenAt           *time.Time `json:"seenAt,omitempty"`
	Data             Item       `json:"data"`
	ID               string     `json:"id"`
	OriginalItemID   string     `json:"originalItemId"`
	OriginalItemType Kind       `json:"originalItemType"`
	OriginalOwnerUID string     `json:"originalOwnerUid"`
	SenderUID        string     `json:"senderUid"`
	SenderName       string     `json:"senderName"`
	SenderPhotoURL   string     `json:"senderPhotoURL,omitempty"`
}

// OwnerUID returns the original owner, falling back to the sender for
// copies that predate the explicit owner field.
func (r *ReceivedItem) OwnerUID() string {
	if r.OriginalOwnerUID != "" {
		return r.OriginalOwnerUID
	}
	return r.SenderUID
}

// OriginalRef returns the address of the original item, applying the same
// legacy fallbacks as OwnerUID: the copy's own id stands in for a missing
// original id, and the data's discriminant for a missing type.
func (r *ReceivedItem) OriginalRef() ItemRef {
	id := r.OriginalItemID
	if id == "" {
		id = r.ID
	}
	kind := r.OriginalItemType
	if !kind.IsValid() {
		kind = r.Data.Kind
	}
	return ItemRef{Kind: kind, ID: id}
}

// ShareResult is the outcome tag of a share attempt.
type ShareResult string

const (
	ShareSuccess       ShareResult = "success"
	ShareAlreadyShared ShareResult = "already_shared"
	ShareUserNotFound  ShareResult = "user_not_found"
	ShareError         ShareResult = "error"
)

// ValidateShareCode checks that a user-chosen code is usable.
func ValidateShareCode(code int) error {
	if code < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidShareCode, code)
	}
	return nil
}

// ChatMessage is one message of a saved chat.
type ChatMessage struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	Attachment string `json:"attachment,omitempty"` // Data URL of an attached file
}

// SavedChat is an assistant conversation carried through backups.
// CreatedAt and UpdatedAt are kept in whatever timestamp encoding the
// backup used.
type SavedChat struct {
	ID        string          `json:"id"`
	Title     string          `json:"title,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Messages  []ChatMessage   `json:"messages"`
	Timestamp int64           `json:"timestamp,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
}
