package shared

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/testutil"
)

var now = time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC)

// seedShared stores alice's task t-1 shared with every recipient.
// Recipients listed in withPointer get a share record pointing at their copy.
func seedShared(store *testutil.MockSharingStore, recipients []string, withPointer map[string]bool) domain.ItemRef {
	ref := domain.ItemRef{Kind: domain.KindTask, ID: "t-1"}
	store.UserItems("alice").Put(&domain.Item{ID: "t-1", Kind: domain.KindTask, Name: "Old", Priority: 5, SharedCount: len(recipients)})
	for _, uid := range recipients {
		copyID := "copy-" + uid
		store.ReceivedRepo.Put(uid, &domain.ReceivedItem{
			ID:               copyID,
			OriginalItemID:   "t-1",
			OriginalItemType: domain.KindTask,
			OriginalOwnerUID: "alice",
			SenderUID:        "alice",
			Data:             domain.Item{Kind: domain.KindTask, Name: "Old", Priority: 5},
		})
		rec := domain.ShareRecord{UID: uid, SharedAt: now}
		if withPointer[uid] {
			rec.ReceivedItemID = copyID
		}
		_ = store.ShareRepo.Put(context.Background(), "alice", ref, rec)
	}
	return ref
}

func rename(name string) []domain.FieldUpdate {
	return []domain.FieldUpdate{{Field: domain.FieldName, Value: name}}
}

func TestBroadcaster_ToRecipients(t *testing.T) {
	// Setup
	store := testutil.NewMockSharingStore()
	ref := seedShared(store, []string{"bob", "carol", "dave"}, map[string]bool{"bob": true, "carol": true})
	b := NewBroadcaster(store, nil)

	// Execute
	failed := b.ToRecipients(context.Background(), "alice", ref, "carol", rename("New"), now)

	// Assert
	assert.Zero(t, failed)
	assert.Equal(t, "New", store.ReceivedRepo.All("bob")[0].Data.Name)
	assert.Equal(t, "Old", store.ReceivedRepo.All("carol")[0].Data.Name, "skipped recipient is untouched")
	assert.Equal(t, "New", store.ReceivedRepo.All("dave")[0].Data.Name)
	assert.Equal(t, now, store.ReceivedRepo.All("dave")[0].Data.UpdatedAt)
	// Every recipient except the skipped one is queried by original id.
	assert.Equal(t, 2, store.ReceivedRepo.FindCalls)
}

func TestBroadcaster_ToRecipients_PartialFailure(t *testing.T) {
	// Setup
	store := testutil.NewMockSharingStore()
	ref := seedShared(store, []string{"bob", "carol"}, nil)
	store.ReceivedRepo.SaveErrFor["bob"] = assert.AnError
	logger := &testutil.MockLogger{}
	b := NewBroadcaster(store, logger)

	// Execute
	failed := b.ToRecipients(context.Background(), "alice", ref, "", rename("New"), now)

	// Assert
	assert.Equal(t, 1, failed)
	assert.Equal(t, "Old", store.ReceivedRepo.All("bob")[0].Data.Name)
	assert.Equal(t, "New", store.ReceivedRepo.All("carol")[0].Data.Name)
	assert.True(t, logger.Has("WARN", "to bob"))
}

func TestBroadcaster_ToRecipients_StalePointerFallsBack(t *testing.T) {
	store := testutil.NewMockSharingStore()
	ref := seedShared(store, []string{"bob"}, nil)
	require.NoError(t, store.ShareRepo.Put(context.Background(), "alice", ref, domain.ShareRecord{UID: "bob", ReceivedItemID: "gone"}))
	b := NewBroadcaster(store, nil)

	failed := b.ToRecipients(context.Background(), "alice", ref, "", rename("New"), now)

	assert.Zero(t, failed)
	assert.Equal(t, "New", store.ReceivedRepo.All("bob")[0].Data.Name)
}

func TestBroadcaster_ToRecipients_PatchesCopiesBehindPointer(t *testing.T) {
	// Setup: bob holds two copies and the record points at the newer one
	store := testutil.NewMockSharingStore()
	ref := seedShared(store, []string{"bob"}, nil)
	store.ReceivedRepo.Put("bob", &domain.ReceivedItem{
		ID:               "copy-bob-2",
		OriginalItemID:   "t-1",
		OriginalItemType: domain.KindTask,
		OriginalOwnerUID: "alice",
		SenderUID:        "alice",
		Data:             domain.Item{Kind: domain.KindTask, Name: "Old", Priority: 5},
	})
	require.NoError(t, store.ShareRepo.Put(context.Background(), "alice", ref, domain.ShareRecord{UID: "bob", ReceivedItemID: "copy-bob-2"}))
	b := NewBroadcaster(store, nil)

	// Execute
	failed := b.ToRecipients(context.Background(), "alice", ref, "", rename("New"), now)

	// Assert
	assert.Zero(t, failed)
	copies := store.ReceivedRepo.All("bob")
	require.Len(t, copies, 2)
	for _, c := range copies {
		assert.Equal(t, "New", c.Data.Name, c.ID)
	}
}

func TestBroadcaster_ToSiblings(t *testing.T) {
	// Setup
	store := testutil.NewMockSharingStore()
	ref := seedShared(store, []string{"bob", "carol"}, nil)
	store.ReceivedRepo.Put("bob", &domain.ReceivedItem{
		ID:               "copy-bob-2",
		OriginalItemID:   "t-1",
		OriginalItemType: domain.KindTask,
		OriginalOwnerUID: "alice",
		Data:             domain.Item{Kind: domain.KindTask, Name: "Old", Priority: 5},
	})
	b := NewBroadcaster(store, nil)

	// Execute
	failed := b.ToSiblings(context.Background(), "alice", ref, "bob", "copy-bob", rename("New"), now)

	// Assert
	assert.Zero(t, failed)
	for _, c := range store.ReceivedRepo.All("bob") {
		want := "New"
		if c.ID == "copy-bob" {
			want = "Old"
		}
		assert.Equal(t, want, c.Data.Name, c.ID)
	}
	assert.Equal(t, "Old", store.ReceivedRepo.All("carol")[0].Data.Name)
}

func TestBroadcaster_ToOwner(t *testing.T) {
	store := testutil.NewMockSharingStore()
	ref := seedShared(store, []string{"bob"}, nil)
	b := NewBroadcaster(store, nil)

	err := b.ToOwner(context.Background(), "alice", ref, rename("Owner sees this"), now)

	require.NoError(t, err)
	got := store.UserItems("alice").Peek(ref)
	assert.Equal(t, "Owner sees this", got.Name)
	assert.Equal(t, now, got.UpdatedAt)
}

func TestBroadcaster_ToOwner_Deleted(t *testing.T) {
	store := testutil.NewMockSharingStore()
	b := NewBroadcaster(store, nil)

	err := b.ToOwner(context.Background(), "alice", domain.ItemRef{Kind: domain.KindTask, ID: "gone"}, rename("x"), now)

	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}
