package docstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "hts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testItem(kind domain.Kind, id, name string, created time.Time) *domain.Item {
	it := &domain.Item{ID: id, Kind: kind, Name: name}
	if kind == domain.KindLetter {
		it.Letter = &domain.Letter{LetterCode: "C-1", SentTo: "hr"}
	}
	it.ApplyDefaults(created)
	return it
}

func TestItemRepo_CRUD(t *testing.T) {
	// Setup
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.ItemsOf("alice")
	it := testItem(domain.KindLetter, "", "Budget", time.Now())

	// Execute
	require.NoError(t, repo.Create(ctx, it))

	// Assert
	require.NotEmpty(t, it.ID)
	got, err := repo.Get(ctx, it.Ref())
	require.NoError(t, err)
	assert.Equal(t, "Budget", got.Name)
	assert.Equal(t, "alice", got.OwnerID)
	assert.Equal(t, domain.KindLetter, got.Kind)
	assert.Equal(t, "C-1", got.LetterCode)

	got.Name = "Budget v2"
	require.NoError(t, repo.Save(ctx, got))
	again, err := repo.Get(ctx, it.Ref())
	require.NoError(t, err)
	assert.Equal(t, "Budget v2", again.Name)

	require.NoError(t, repo.Delete(ctx, it.Ref()))
	_, err = repo.Get(ctx, it.Ref())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemRepo_SaveMissing(t *testing.T) {
	s := newTestStore(t)
	err := s.ItemsOf("alice").Save(context.Background(), testItem(domain.KindTask, "nope", "x", time.Now()))
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemRepo_OwnersAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.ItemsOf("alice").Create(ctx, testItem(domain.KindTask, "t1", "A", time.Now())))

	_, err := s.ItemsOf("bob").Get(ctx, domain.ItemRef{Kind: domain.KindTask, ID: "t1"})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	items, err := s.ItemsOf("bob").List(ctx, domain.KindTask)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemRepo_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.ItemsOf("alice")
	base := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, testItem(domain.KindTask, "a", "A", base)))
	require.NoError(t, repo.Create(ctx, testItem(domain.KindTask, "b", "B", base.Add(time.Hour))))

	items, err := repo.List(ctx, domain.KindTask)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
}

func TestItemRepo_SaveBatchAcrossChunks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.ItemsOf("alice")
	now := time.Now()

	items := make([]*domain.Item, 0, batchLimit+10)
	refs := make([]domain.ItemRef, 0, batchLimit+10)
	for i := range batchLimit + 10 {
		it := testItem(domain.KindTask, fmt.Sprintf("t%d", i), "x", now)
		items = append(items, it)
		refs = append(refs, it.Ref())
	}

	require.NoError(t, repo.SaveBatch(ctx, items))
	got, err := repo.List(ctx, domain.KindTask)
	require.NoError(t, err)
	assert.Len(t, got, batchLimit+10)

	// Upsert keeps the count.
	items[0].Name = "changed"
	require.NoError(t, repo.SaveBatch(ctx, items[:1]))
	got, err = repo.List(ctx, domain.KindTask)
	require.NoError(t, err)
	assert.Len(t, got, batchLimit+10)

	require.NoError(t, repo.DeleteBatch(ctx, refs))
	got, err = repo.List(ctx, domain.KindTask)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestItemRepo_ReplaceAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.ItemsOf("alice")
	now := time.Now()
	require.NoError(t, repo.Create(ctx, testItem(domain.KindTask, "t1", "A", now)))
	require.NoError(t, s.ItemsOf("bob").Create(ctx, testItem(domain.KindTask, "t1", "B", now)))

	require.NoError(t, repo.ReplaceAll(ctx, []*domain.Item{testItem(domain.KindLetter, "l1", "L", now)}))

	tasks, err := repo.List(ctx, domain.KindTask)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	bobs, err := s.ItemsOf("bob").List(ctx, domain.KindTask)
	require.NoError(t, err)
	assert.Len(t, bobs, 1)
}

func TestShareRepo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ref := domain.ItemRef{Kind: domain.KindTask, ID: "t1"}
	now := time.Now().Truncate(time.Millisecond)

	_, err := s.Shares().Get(ctx, "alice", ref, "bob")
	assert.ErrorIs(t, err, domain.ErrShareNotFound)

	require.NoError(t, s.Shares().Put(ctx, "alice", ref, domain.ShareRecord{UID: "bob", Name: "Bob", SharedAt: now, ReceivedItemID: "r1"}))
	require.NoError(t, s.Shares().Put(ctx, "alice", ref, domain.ShareRecord{UID: "carol", Name: "Carol", SharedAt: now.Add(time.Second)}))

	rec, err := s.Shares().Get(ctx, "alice", ref, "bob")
	require.NoError(t, err)
	assert.Equal(t, "r1", rec.ReceivedItemID)
	assert.Nil(t, rec.LastSeen)

	recs, err := s.Shares().List(ctx, "alice", ref)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "bob", recs[0].UID)

	require.NoError(t, s.Shares().Delete(ctx, "alice", ref, "bob"))
	recs, err = s.Shares().List(ctx, "alice", ref)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestReceivedRepo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	data := testItem(domain.KindTask, "t1", "Shared", time.Now()).ShareSnapshot()

	rec := &domain.ReceivedItem{
		OriginalItemID:   "t1",
		OriginalItemType: domain.KindTask,
		OriginalOwnerUID: "alice",
		SenderUID:        "alice",
		SharedAt:         time.Now(),
		Data:             data,
	}
	require.NoError(t, s.Received().Create(ctx, "bob", rec))
	require.NotEmpty(t, rec.ID)

	got, err := s.Received().Get(ctx, "bob", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shared", got.Data.Name)
	assert.Equal(t, domain.KindTask, got.Data.Kind)
	assert.Empty(t, got.Data.ID)

	found, err := s.Received().FindByOriginal(ctx, "bob", "t1", "alice")
	require.NoError(t, err)
	assert.Len(t, found, 1)
	found, err = s.Received().FindByOriginal(ctx, "bob", "t1", "")
	require.NoError(t, err)
	assert.Len(t, found, 1)
	found, err = s.Received().FindByOriginal(ctx, "bob", "t1", "mallory")
	require.NoError(t, err)
	assert.Empty(t, found)

	got.Data.Name = "Edited"
	require.NoError(t, s.Received().Save(ctx, "bob", got))
	list, err := s.Received().List(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Edited", list[0].Data.Name)

	require.NoError(t, s.Received().Delete(ctx, "bob", rec.ID))
	_, err = s.Received().Get(ctx, "bob", rec.ID)
	assert.ErrorIs(t, err, domain.ErrReceivedNotFound)
	assert.ErrorIs(t, s.Received().Save(ctx, "bob", got), domain.ErrReceivedNotFound)
}

func TestDirectory_RegisterAssignsSequentialCodes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := s.Directory()

	alice := &domain.Profile{UID: "alice", Name: "Alice", Email: "a@example.com"}
	bob := &domain.Profile{UID: "bob", Name: "Bob"}
	require.NoError(t, dir.Register(ctx, alice))
	require.NoError(t, dir.Register(ctx, bob))

	assert.Equal(t, 1, alice.ShareCode)
	assert.Equal(t, 2, bob.ShareCode)
	assert.ErrorIs(t, dir.Register(ctx, &domain.Profile{UID: "alice"}), domain.ErrProfileExists)

	got, err := dir.FindByShareCode(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.UID)

	_, err = dir.FindByShareCode(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDirectory_SetShareCode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := s.Directory()
	require.NoError(t, dir.Register(ctx, &domain.Profile{UID: "alice"}))
	require.NoError(t, dir.Register(ctx, &domain.Profile{UID: "bob"}))

	assert.ErrorIs(t, dir.SetShareCode(ctx, "alice", 2), domain.ErrShareCodeTaken)
	assert.ErrorIs(t, dir.SetShareCode(ctx, "alice", 0), domain.ErrInvalidShareCode)
	require.NoError(t, dir.SetShareCode(ctx, "alice", 1)) // own code
	require.NoError(t, dir.SetShareCode(ctx, "alice", 3))

	// The counter skips the code alice picked.
	carol := &domain.Profile{UID: "carol"}
	require.NoError(t, dir.Register(ctx, carol))
	assert.Equal(t, 4, carol.ShareCode)

	got, err := dir.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, got.ShareCode)
}

func TestDirectory_UpdateKeepsShareCode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := s.Directory()
	require.NoError(t, dir.Register(ctx, &domain.Profile{UID: "alice", Name: "A"}))

	require.NoError(t, dir.Update(ctx, &domain.Profile{UID: "alice", Name: "Alice", ShareCode: 77}))

	got, err := dir.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 1, got.ShareCode)
	assert.ErrorIs(t, dir.Update(ctx, &domain.Profile{UID: "ghost"}), domain.ErrUserNotFound)
}

func TestPhotoRepo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	url, err := s.Photos().PutPhoto(ctx, "alice", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/profiles/alice/photo", url)

	data, ct, err := s.Photos().GetPhoto(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, "image/png", ct)

	_, _, err = s.Photos().GetPhoto(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSession_Chats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sess := s.Session("alice")
	assert.Equal(t, domain.StoreManaged, sess.Mode())

	require.NoError(t, sess.Chats().SaveBatch(ctx, []domain.SavedChat{{ID: "c1"}}))
	require.NoError(t, sess.Chats().ReplaceAll(ctx, []domain.SavedChat{{ID: "c2"}}))

	chats, err := sess.Chats().List(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "c2", chats[0].ID)
	assert.Equal(t, "alice", chats[0].UserID)

	other, err := s.Session("bob").Chats().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, other)
}
