package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/testutil"
)

func TestResolveTarget(t *testing.T) {
	// Setup
	ctx := context.Background()
	store := testutil.NewMockSharingStore()
	items := store.UserItems("bob")
	items.Put(&domain.Item{ID: "own-1", Kind: domain.KindTask, Name: "Mine", Priority: 5})
	store.ReceivedRepo.Put("bob", &domain.ReceivedItem{ID: "recv-1", Data: domain.Item{Kind: domain.KindTask, Name: "Theirs"}})

	// Execute
	owned, err := ResolveTarget(ctx, items, store, "bob", domain.ItemRef{Kind: domain.KindTask, ID: "own-1"})
	require.NoError(t, err)
	received, err := ResolveTarget(ctx, items, store, "bob", domain.ItemRef{Kind: domain.KindTask, ID: "recv-1"})
	require.NoError(t, err)
	_, missingErr := ResolveTarget(ctx, items, store, "bob", domain.ItemRef{Kind: domain.KindTask, ID: "nope"})

	// Assert
	assert.False(t, owned.IsReceived())
	assert.Equal(t, "Mine", owned.Item().Name)
	assert.True(t, received.IsReceived())
	assert.Equal(t, "Theirs", received.Item().Name)
	assert.ErrorIs(t, missingErr, domain.ErrItemNotFound)
}

func TestResolveTarget_LocalMode(t *testing.T) {
	items := testutil.NewMockItemRepository()
	items.Put(&domain.Item{ID: "l-1", Kind: domain.KindLetter, Letter: &domain.Letter{}, Name: "Letter", Priority: 5})

	target, err := ResolveTarget(context.Background(), items, nil, "", domain.ItemRef{ID: "l-1"})

	require.NoError(t, err)
	assert.Equal(t, domain.KindLetter, target.Owned.Kind)
}

func TestGetItem_RepositoryError(t *testing.T) {
	items := testutil.NewMockItemRepository()
	items.GetErr = assert.AnError

	_, err := GetItem(context.Background(), items, domain.ItemRef{Kind: domain.KindTask, ID: "x"})

	assert.ErrorIs(t, err, assert.AnError)
}
