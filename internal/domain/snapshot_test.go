package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshot_SplitsExpired(t *testing.T) {
	now := at(2024, time.March, 5, 12, 0)
	past := now.Add(-time.Hour)

	active := newTask("t1")
	expired := newTask("t2")
	expired.Reminder = &past
	doneLate := newTask("t3")
	doneLate.Reminder = &past
	doneLate.IsDone = true
	letter := newLetter("l1")
	letter.Reminder = &past

	s := BuildSnapshot([]*Item{active, expired, doneLate}, []*Item{letter}, nil, now)

	assert.Equal(t, SnapshotVersion, s.Version)
	assert.Equal(t, []*Item{active, doneLate}, s.Tasks)
	assert.Equal(t, []*Item{expired}, s.ExpiredTasksList)
	assert.Empty(t, s.ApprovalLetters)
	assert.Equal(t, []*Item{letter}, s.ExpiredApprovalLettersList)
	assert.NotNil(t, s.SavedChats)
	assert.Equal(t, 4, s.Count())
}

func TestParseSnapshot(t *testing.T) {
	t.Run("rejects documents without item lists", func(t *testing.T) {
		_, err := ParseSnapshot([]byte(`{"version":"1.0"}`))
		assert.ErrorIs(t, err, ErrInvalidBackup)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := ParseSnapshot([]byte(`{"tasks":[`))
		assert.ErrorIs(t, err, ErrInvalidBackup)
	})

	t.Run("tags entries by list", func(t *testing.T) {
		raw, err := ParseSnapshot([]byte(`{
			"tasks":[{"id":"t1","name":"A","taskNumber":1}],
			"expiredApprovalLettersList":[{"id":"l1","name":"B","letterNumber":2,"sentTo":"hr"}]
		}`))
		require.NoError(t, err)

		entries := raw.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, KindTask, entries[0].Kind)
		assert.Equal(t, "t1", EntryID(entries[0].Data))
		assert.Equal(t, KindLetter, entries[1].Kind)
	})
}

func TestDecodeEntry(t *testing.T) {
	t.Run("fresh record uses list kind when no discriminant", func(t *testing.T) {
		it, err := DecodeEntry(RawEntry{Kind: KindLetter, Data: json.RawMessage(`{"id":"x","name":"N","sentTo":"hr"}`)}, nil)
		require.NoError(t, err)
		assert.Equal(t, KindLetter, it.Kind)
		assert.Equal(t, "hr", it.SentTo)
	})

	t.Run("merges onto base", func(t *testing.T) {
		base := newTask("t1")
		base.Result = "kept"
		it, err := DecodeEntry(RawEntry{Kind: KindTask, Data: json.RawMessage(`{"id":"t1","name":"New"}`)}, base)
		require.NoError(t, err)
		assert.Same(t, base, it)
		assert.Equal(t, "New", it.Name)
		assert.Equal(t, "kept", it.Result)
	})
}

func TestSnapshot_RoundTrip(t *testing.T) {
	now := at(2024, time.March, 5, 12, 0)
	task := newTask("t1")
	letter := newLetter("l1")
	chats := []SavedChat{{ID: "c1", Messages: []ChatMessage{{Role: "user", Content: "hi"}}}}

	data, err := json.Marshal(BuildSnapshot([]*Item{task}, []*Item{letter}, chats, now))
	require.NoError(t, err)

	raw, err := ParseSnapshot(data)
	require.NoError(t, err)
	entries := raw.Entries()
	require.Len(t, entries, 2)

	got, err := DecodeEntry(entries[1], nil)
	require.NoError(t, err)
	assert.Equal(t, KindLetter, got.Kind)
	assert.Equal(t, letter.Number, got.Number)
	assert.Equal(t, letter.LetterCode, got.LetterCode)
	assert.Equal(t, chats, raw.SavedChats)
}
