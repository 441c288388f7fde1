package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion is written into every exported snapshot.
const SnapshotVersion = "1.0"

// Snapshot is the backup document. Expired items are listed separately from
// the active and completed ones, mirroring the board.
type Snapshot struct {
	ExportedAt                 *time.Time  `json:"exportedAt,omitempty"`
	Version                    string      `json:"version"`
	Tasks                      []*Item     `json:"tasks"`
	ApprovalLetters            []*Item     `json:"approvalLetters"`
	ExpiredTasksList           []*Item     `json:"expiredTasksList"`
	ExpiredApprovalLettersList []*Item     `json:"expiredApprovalLettersList"`
	SavedChats                 []SavedChat `json:"savedChats"`
}

// BuildSnapshot splits tasks and letters into the snapshot's lists at now.
func BuildSnapshot(tasks, letters []*Item, chats []SavedChat, now time.Time) Snapshot {
	s := Snapshot{
		Version:                    SnapshotVersion,
		ExportedAt:                 &now,
		Tasks:                      []*Item{},
		ApprovalLetters:            []*Item{},
		ExpiredTasksList:           []*Item{},
		ExpiredApprovalLettersList: []*Item{},
		SavedChats:                 chats,
	}
	if s.SavedChats == nil {
		s.SavedChats = []SavedChat{}
	}
	for _, it := range tasks {
		if it.IsExpired(now) {
			s.ExpiredTasksList = append(s.ExpiredTasksList, it)
		} else {
			s.Tasks = append(s.Tasks, it)
		}
	}
	for _, it := range letters {
		if it.IsExpired(now) {
			s.ExpiredApprovalLettersList = append(s.ExpiredApprovalLettersList, it)
		} else {
			s.ApprovalLetters = append(s.ApprovalLetters, it)
		}
	}
	return s
}

// Count returns the number of items in the snapshot.
func (s Snapshot) Count() int {
	return len(s.Tasks) + len(s.ApprovalLetters) + len(s.ExpiredTasksList) + len(s.ExpiredApprovalLettersList)
}

// RawSnapshot is a parsed backup document whose items are still undecoded,
// so each one can be merged onto an existing record.
type RawSnapshot struct {
	Version                    string            `json:"version"`
	Tasks                      []json.RawMessage `json:"tasks"`
	ApprovalLetters            []json.RawMessage `json:"approvalLetters"`
	ExpiredTasksList           []json.RawMessage `json:"expiredTasksList"`
	ExpiredApprovalLettersList []json.RawMessage `json:"expiredApprovalLettersList"`
	SavedChats                 []SavedChat       `json:"savedChats"`
}

// RawEntry is one undecoded item with the kind implied by its list.
type RawEntry struct {
	Data json.RawMessage
	Kind Kind
}

// ParseSnapshot parses a backup document.
// A document without any of the four item lists is rejected.
func ParseSnapshot(data []byte) (*RawSnapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	found := false
	for _, key := range []string{"tasks", "approvalLetters", "expiredTasksList", "expiredApprovalLettersList"} {
		if _, ok := probe[key]; ok {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: no item lists", ErrInvalidBackup)
	}

	var raw RawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return &raw, nil
}

// Entries returns every item entry tagged with the kind of its list.
func (r *RawSnapshot) Entries() []RawEntry {
	var out []RawEntry
	add := func(list []json.RawMessage, kind Kind) {
		for _, m := range list {
			out = append(out, RawEntry{Data: m, Kind: kind})
		}
	}
	add(r.Tasks, KindTask)
	add(r.ExpiredTasksList, KindTask)
	add(r.ApprovalLetters, KindLetter)
	add(r.ExpiredApprovalLettersList, KindLetter)
	return out
}

// EntryID extracts the "id" key of an undecoded item, if any.
func EntryID(m json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(m, &probe); err != nil {
		return ""
	}
	return probe.ID
}

// DecodeEntry decodes e onto base, which may be nil for a fresh record.
// The list's kind applies when the entry carries no discriminant.
func DecodeEntry(e RawEntry, base *Item) (*Item, error) {
	it := base
	if it == nil {
		it = &Item{Kind: e.Kind}
		if e.Kind == KindLetter {
			it.Letter = &Letter{}
		}
	}
	if err := json.Unmarshal(e.Data, it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return it, nil
}
