// Package domain contains core business entities and interfaces.
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind discriminates the two work-item variants.
type Kind string

const (
	KindTask   Kind = "task"   // Task
	KindLetter Kind = "letter" // Approval letter
)

// AllKinds returns both item kinds in display order.
func AllKinds() []Kind {
	return []Kind{KindTask, KindLetter}
}

// ParseKind parses a kind name. Plural and collection names are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "task", "tasks", "t":
		return KindTask, nil
	case "letter", "letters", "approvalletter", "approvalletters", "l":
		return KindLetter, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Collection returns the document-store collection name for the kind.
func (k Kind) Collection() string {
	if k == KindLetter {
		return "approvalLetters"
	}
	return "tasks"
}

// Display returns a human-readable name.
func (k Kind) Display() string {
	switch k {
	case KindTask:
		return "Task"
	case KindLetter:
		return "Letter"
	default:
		return string(k)
	}
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == KindTask || k == KindLetter
}

// ItemRef addresses one work item inside an actor's namespace.
type ItemRef struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// String returns "kind/id".
func (r ItemRef) String() string {
	return string(r.Kind) + "/" + r.ID
}

// FieldConfig holds presentation settings persisted next to a text field.
type FieldConfig struct {
	Direction  string `json:"direction"`
	FontSize   string `json:"fontSize"`
	FontFamily string `json:"fontFamily,omitempty"`
}

// DefaultFieldConfig returns the config applied to detail, further details and result.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{Direction: "rtl", FontSize: "0.875rem"}
}

// DefaultNameConfig returns the config applied to the name field.
func DefaultNameConfig() FieldConfig {
	return FieldConfig{Direction: "rtl", FontSize: "1.25rem"}
}

// IsZero reports whether no setting has been stored.
func (c FieldConfig) IsZero() bool {
	return c.Direction == "" && c.FontSize == "" && c.FontFamily == ""
}

// Letter holds the fields only approval letters carry.
type Letter struct {
	LetterCode string `json:"letterCode"`
	SentTo     string `json:"sentTo"`
	LetterType string `json:"letterType"`
}

// Item is a task or an approval letter.
// Kind is the explicit discriminant; Letter is non-nil exactly when Kind is KindLetter.
// On the wire the discriminant is structural: a taskNumber or a letterNumber key.
// Fields are ordered to minimize memory padding.
type Item struct {
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
	StartTime            time.Time   `json:"startTime"`
	Reminder             *time.Time  `json:"reminder"`
	OriginalReminder     *time.Time  `json:"originalReminder"`
	CompletedAt          *time.Time  `json:"completedAt"`
	*Letter                          // letterCode, sentTo, letterType
	ID                   string      `json:"id,omitempty"`
	OwnerID              string      `json:"userId,omitempty"`
	Name                 string      `json:"name"`
	Detail               string      `json:"detail"`
	FurtherDetails       string      `json:"furtherDetails"`
	Result               string      `json:"result"`
	Kind                 Kind        `json:"-"`
	NameConfig           FieldConfig `json:"nameConfig"`
	DetailConfig         FieldConfig `json:"detailConfig"`
	FurtherDetailsConfig FieldConfig `json:"furtherDetailsConfig"`
	ResultConfig         FieldConfig `json:"resultConfig"`
	Number               int         `json:"-"`
	Priority             int         `json:"priority"`
	SharedCount          int         `json:"sharedCount,omitempty"`
	IsUrgent             bool        `json:"isUrgent"`
	IsDone               bool        `json:"isDone"`
}

// Ref returns the item's address.
func (it *Item) Ref() ItemRef {
	return ItemRef{Kind: it.Kind, ID: it.ID}
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	c := *it
	c.Reminder = cloneTime(it.Reminder)
	c.OriginalReminder = cloneTime(it.OriginalReminder)
	c.CompletedAt = cloneTime(it.CompletedAt)
	if it.Letter != nil {
		l := *it.Letter
		c.Letter = &l
	}
	return &c
}

// ShareSnapshot returns a copy with the owner-only fields removed.
func (it *Item) ShareSnapshot() Item {
	c := it.Clone()
	c.ID = ""
	c.OwnerID = ""
	c.SharedCount = 0
	return *c
}

// Validate checks the structural invariants of the tagged union.
func (it *Item) Validate() error {
	switch it.Kind {
	case KindTask:
		if it.Letter != nil {
			return fmt.Errorf("%w: task carries letter fields", ErrInvalidItem)
		}
	case KindLetter:
		if it.Letter == nil {
			return fmt.Errorf("%w: letter without letter fields", ErrInvalidItem)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, it.Kind)
	}
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyName
	}
	if err := ValidatePriority(it.Priority); err != nil {
		return err
	}
	if it.SharedCount < 0 {
		return fmt.Errorf("%w: negative shared count", ErrInvalidItem)
	}
	return nil
}

// ApplyDefaults fills in values a stored or imported document may omit.
func (it *Item) ApplyDefaults(now time.Time) {
	if it.Priority == 0 {
		it.Priority = DefaultPriority
	}
	if it.StartTime.IsZero() {
		it.StartTime = now
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	if it.UpdatedAt.IsZero() {
		it.UpdatedAt = now
	}
	if it.NameConfig.IsZero() {
		it.NameConfig = DefaultNameConfig()
	}
	if it.DetailConfig.IsZero() {
		it.DetailConfig = DefaultFieldConfig()
	}
	if it.FurtherDetailsConfig.IsZero() {
		it.FurtherDetailsConfig = DefaultFieldConfig()
	}
	if it.ResultConfig.IsZero() {
		it.ResultConfig = DefaultFieldConfig()
	}
	if it.Kind == KindLetter && it.Letter == nil {
		it.Letter = &Letter{}
	}
	if it.SharedCount < 0 {
		it.SharedCount = 0
	}
}

// itemAlias drops the JSON methods of Item so the wrappers below can embed it.
type itemAlias Item

// MarshalJSON encodes the kind as a taskNumber or letterNumber key.
func (it Item) MarshalJSON() ([]byte, error) {
	w := struct {
		*itemAlias
		TaskNumber   *int `json:"taskNumber,omitempty"`
		LetterNumber *int `json:"letterNumber,omitempty"`
	}{itemAlias: (*itemAlias)(&it)}

	n := it.Number
	switch it.Kind {
	case KindTask:
		w.TaskNumber = &n
	case KindLetter:
		w.LetterNumber = &n
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes onto the receiver, so keys absent from data keep
// their current values. The kind is taken from taskNumber/letterNumber when present.
func (it *Item) UnmarshalJSON(data []byte) error {
	w := struct {
		*itemAlias
		TaskNumber   *int `json:"taskNumber"`
		LetterNumber *int `json:"letterNumber"`
	}{itemAlias: (*itemAlias)(it)}

	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch {
	case w.TaskNumber != nil:
		it.Kind = KindTask
		it.Number = *w.TaskNumber
		it.Letter = nil
	case w.LetterNumber != nil:
		it.Kind = KindLetter
		it.Number = *w.LetterNumber
		if it.Letter == nil {
			it.Letter = &Letter{}
		}
	}
	return nil
}

// NextNumber returns max(existing numbers)+1, or 1 for an empty list.
func NextNumber(items []*Item) int {
	highest := 0
	for _, it := range items {
		if it.Number > highest {
			highest = it.Number
		}
	}
	return highest + 1
}

// Priority bounds.
const (
	MinPriority     = 1
	MaxPriority     = 10
	DefaultPriority = 5
)

// ValidatePriority checks that p is within 1..10.
func ValidatePriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidPriority, p, MinPriority, MaxPriority)
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
