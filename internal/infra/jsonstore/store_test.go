package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "items.json"))
}

func testItem(kind domain.Kind, id, name string, created time.Time) *domain.Item {
	it := &domain.Item{ID: id, Kind: kind, Name: name}
	if kind == domain.KindLetter {
		it.Letter = &domain.Letter{SentTo: "hr"}
	}
	it.ApplyDefaults(created)
	return it
}

func TestStore_Initialize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	store := New(path)

	assert.False(t, store.IsInitialized())
	require.NoError(t, store.Initialize())
	assert.FileExists(t, path)
	assert.True(t, store.IsInitialized())

	// Idempotent
	require.NoError(t, store.Initialize())
}

func TestStore_MissingFileReadsEmpty(t *testing.T) {
	store := newTestStore(t)

	items, err := store.Items().List(context.Background(), domain.KindTask)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = store.Items().Get(context.Background(), domain.ItemRef{Kind: domain.KindTask, ID: "x"})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemStore_CreateAssignsLocalID(t *testing.T) {
	// Setup
	store := newTestStore(t)
	ctx := context.Background()
	it := testItem(domain.KindTask, "", "Report", time.Now())

	// Execute
	require.NoError(t, store.Items().Create(ctx, it))

	// Assert
	assert.True(t, strings.HasPrefix(it.ID, "local-"), it.ID)
	got, err := store.Items().Get(ctx, it.Ref())
	require.NoError(t, err)
	assert.Equal(t, "Report", got.Name)
	assert.Equal(t, domain.KindTask, got.Kind)
}

func TestItemStore_CreateDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Items().Create(ctx, testItem(domain.KindTask, "t1", "A", time.Now())))

	err := store.Items().Create(ctx, testItem(domain.KindTask, "t1", "B", time.Now()))
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestItemStore_ListNewestFirstPerKind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Items().Create(ctx, testItem(domain.KindTask, "old", "A", base)))
	require.NoError(t, store.Items().Create(ctx, testItem(domain.KindTask, "new", "B", base.Add(time.Hour))))
	require.NoError(t, store.Items().Create(ctx, testItem(domain.KindLetter, "l1", "C", base)))

	tasks, err := store.Items().List(ctx, domain.KindTask)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "new", tasks[0].ID)
	assert.Equal(t, "old", tasks[1].ID)

	letters, err := store.Items().List(ctx, domain.KindLetter)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "hr", letters[0].SentTo)
}

func TestItemStore_SaveAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	it := testItem(domain.KindTask, "t1", "A", time.Now())
	require.NoError(t, store.Items().Create(ctx, it))

	it.Name = "Renamed"
	require.NoError(t, store.Items().Save(ctx, it))
	got, err := store.Items().Get(ctx, it.Ref())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	missing := testItem(domain.KindTask, "nope", "X", time.Now())
	assert.ErrorIs(t, store.Items().Save(ctx, missing), domain.ErrItemNotFound)

	require.NoError(t, store.Items().Delete(ctx, it.Ref()))
	_, err = store.Items().Get(ctx, it.Ref())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	// Deleting again is not an error.
	require.NoError(t, store.Items().Delete(ctx, it.Ref()))
}

func TestItemStore_DeleteBatchAcrossKinds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Items().SaveBatch(ctx, []*domain.Item{
		testItem(domain.KindTask, "t1", "A", now),
		testItem(domain.KindTask, "t2", "B", now),
		testItem(domain.KindLetter, "l1", "C", now),
	}))

	require.NoError(t, store.Items().DeleteBatch(ctx, []domain.ItemRef{
		{Kind: domain.KindTask, ID: "t1"},
		{Kind: domain.KindLetter, ID: "l1"},
		{Kind: domain.KindLetter, ID: "t2"}, // wrong kind, kept
	}))

	tasks, err := store.Items().List(ctx, domain.KindTask)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t2", tasks[0].ID)

	letters, err := store.Items().List(ctx, domain.KindLetter)
	require.NoError(t, err)
	assert.Empty(t, letters)
}

func TestItemStore_ReplaceAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Items().Create(ctx, testItem(domain.KindTask, "t1", "A", now)))

	require.NoError(t, store.Items().ReplaceAll(ctx, []*domain.Item{testItem(domain.KindLetter, "l9", "Z", now)}))

	tasks, err := store.Items().List(ctx, domain.KindTask)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	letters, err := store.Items().List(ctx, domain.KindLetter)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "l9", letters[0].ID)
}

func TestChatStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Chats().SaveBatch(ctx, []domain.SavedChat{{ID: "c1", Title: "a"}, {ID: "c2"}}))
	require.NoError(t, store.Chats().SaveBatch(ctx, []domain.SavedChat{{ID: "c1", Title: "b"}}))

	chats, err := store.Chats().List(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "b", chats[0].Title)

	require.NoError(t, store.Chats().ReplaceAll(ctx, nil))
	chats, err = store.Chats().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	store := New(path)

	_, err := store.Items().List(context.Background(), domain.KindTask)
	assert.Error(t, err)
}
