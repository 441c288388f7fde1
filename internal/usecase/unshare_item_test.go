package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/testutil"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

func TestUnshareItem_Execute(t *testing.T) {
	// Setup: bob holds two copies after a forced re-share
	f := newSharedFixture("bob", "carol")
	f.store.ReceivedRepo.Put("bob", &domain.ReceivedItem{
		ID:               "copy-bob-2",
		OriginalItemID:   "t-1",
		OriginalItemType: domain.KindTask,
		OriginalOwnerUID: f.owner,
		Data:             *f.original(),
	})
	uc := usecase.NewUnshareItem(f.store.Session(f.owner), f.store, f.owner, clockAt(at(2024, time.March, 5, 10, 0)), nil)

	// Execute
	out, err := uc.Execute(context.Background(), usecase.UnshareItemInput{Ref: f.ref, RecipientUID: "bob"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, out.CopiesRemoved)
	assert.Empty(t, f.store.ReceivedRepo.All("bob"))
	_, ok := f.store.ShareRepo.Peek(f.owner, f.ref, "bob")
	assert.False(t, ok)
	assert.Equal(t, 1, f.original().SharedCount)
	assert.NotNil(t, f.copyOf("carol"), "other recipients are untouched")
}

func TestUnshareItem_Execute_FlooredAtZero(t *testing.T) {
	f := newSharedFixture("bob")
	it := f.original()
	it.SharedCount = 0
	f.store.UserItems(f.owner).Put(it)
	uc := usecase.NewUnshareItem(f.store.Session(f.owner), f.store, f.owner, clockAt(at(2024, time.March, 5, 10, 0)), nil)

	_, err := uc.Execute(context.Background(), usecase.UnshareItemInput{Ref: f.ref, RecipientUID: "bob"})

	require.NoError(t, err)
	assert.Zero(t, f.original().SharedCount)
}

func TestUnshareItem_Execute_NoRecordStillRemovesStrayCopies(t *testing.T) {
	f := newSharedFixture("bob")
	delete(f.store.ShareRepo.Records[f.owner+"/"+f.ref.String()], "bob")
	uc := usecase.NewUnshareItem(f.store.Session(f.owner), f.store, f.owner, clockAt(at(2024, time.March, 5, 10, 0)), nil)

	out, err := uc.Execute(context.Background(), usecase.UnshareItemInput{Ref: f.ref, RecipientUID: "bob"})

	require.NoError(t, err)
	assert.Equal(t, 1, out.CopiesRemoved)
	assert.Equal(t, 1, f.original().SharedCount, "count tracks records, not copies")
}

func TestUnshareItem_Execute_RestoresRecordWhenCopyDeleteFails(t *testing.T) {
	f := newSharedFixture("bob")
	f.store.ReceivedRepo.DeleteErr = assert.AnError
	logger := &testutil.MockLogger{}
	uc := usecase.NewUnshareItem(f.store.Session(f.owner), f.store, f.owner, clockAt(at(2024, time.March, 5, 10, 0)), logger)

	_, err := uc.Execute(context.Background(), usecase.UnshareItemInput{Ref: f.ref, RecipientUID: "bob"})

	assert.ErrorIs(t, err, assert.AnError)
	_, ok := f.store.ShareRepo.Peek(f.owner, f.ref, "bob")
	assert.True(t, ok)
	assert.Equal(t, 1, f.original().SharedCount)
	assert.True(t, logger.Has("ERROR", "unshare task/t-1 from bob"))
}

func TestUnshareItem_Execute_Errors(t *testing.T) {
	now := clockAt(at(2024, time.March, 5, 10, 0))

	t.Run("local mode", func(t *testing.T) {
		uc := usecase.NewUnshareItem(testutil.NewMockPersistence(domain.StoreLocal), nil, "", now, nil)
		_, err := uc.Execute(context.Background(), usecase.UnshareItemInput{Ref: domain.ItemRef{ID: "t-1"}, RecipientUID: "bob"})
		assert.ErrorIs(t, err, domain.ErrSharingUnavailable)
	})

	t.Run("missing recipient", func(t *testing.T) {
		f := newSharedFixture("bob")
		uc := usecase.NewUnshareItem(f.store.Session(f.owner), f.store, f.owner, now, nil)
		_, err := uc.Execute(context.Background(), usecase.UnshareItemInput{Ref: f.ref})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
