package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hts-group/hts-tasks/internal/domain"
)

func TestShareCommand(t *testing.T) {
	// Setup
	env := newManagedEnv(t, "alice")

	// Execute
	out, err := env.run("share", "task/t-1", "42")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Shared with Bob\n", out)
	assert.Len(t, env.store.ReceivedRepo.All("bob"), 1)

	// Execute: again without --force
	out, err = env.run("share", "task/t-1", "42")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Already shared with Bob")
	assert.Len(t, env.store.ReceivedRepo.All("bob"), 1)

	// Execute: forced
	_, err = env.run("share", "task/t-1", "42", "--force")

	// Assert
	require.NoError(t, err)
	assert.Len(t, env.store.ReceivedRepo.All("bob"), 2)
}

func TestShareCommand_Errors(t *testing.T) {
	env := newManagedEnv(t, "alice")

	_, err := env.run("share", "task/t-1", "999")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = env.run("share", "task/t-1", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidShareCode)

	local := newLocalEnv(t)
	_, err = local.run("share", "task/t-1", "42")
	assert.ErrorIs(t, err, domain.ErrSharingUnavailable)
}

func TestSharesAndUnshareCommands(t *testing.T) {
	// Setup
	env := newManagedEnv(t, "alice")
	_, err := env.run("share", "t-1", "42")
	require.NoError(t, err)

	// Execute
	out, err := env.run("shares", "t-1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Budget")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "Bob")

	// Execute
	out, err = env.run("unshare", "t-1", "bob")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Unshared from bob (1 copies removed)\n", out)
	assert.Empty(t, env.store.ReceivedRepo.All("bob"))
	assert.Zero(t, env.store.UserItems("alice").Peek(domain.ItemRef{Kind: domain.KindTask, ID: "t-1"}).SharedCount)
}

// shareToBob shares alice's t-1 with bob and returns bob's environment
// over the same store, with the copy's id.
func shareToBob(t *testing.T) (*testEnv, string) {
	t.Helper()
	alice := newManagedEnv(t, "alice")
	_, err := alice.run("share", "t-1", "42")
	require.NoError(t, err)
	copies := alice.store.ReceivedRepo.All("bob")
	require.Len(t, copies, 1)

	return newManagedEnvOn(t, alice.store, "bob"), copies[0].ID
}

func TestReceivedCommand(t *testing.T) {
	// Setup
	bob, id := shareToBob(t)

	// Execute
	out, err := bob.run("received")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "(1 unseen)")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "* Budget")

	// Execute: mark as seen
	out, err = bob.run("received", "seen", id)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Marked "+id+" as seen\n", out)
	out, err = bob.run("inbox")
	require.NoError(t, err)
	assert.Contains(t, out, "(0 unseen)")
	assert.NotContains(t, out, "* Budget")

	rec, ok := bob.store.ShareRepo.Peek("alice", domain.ItemRef{Kind: domain.KindTask, ID: "t-1"}, "bob")
	require.True(t, ok)
	assert.NotNil(t, rec.LastSeen)
}

func TestReceivedSetCommand_ReachesOwner(t *testing.T) {
	// Setup
	bob, id := shareToBob(t)

	// Execute
	out, err := bob.run("received", "set", id, "result", "Approved")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Updated result of Budget\n", out)
	original := bob.store.UserItems("alice").Peek(domain.ItemRef{Kind: domain.KindTask, ID: "t-1"})
	assert.Equal(t, "Approved", original.Result)
}

func TestReceivedRmAndResync(t *testing.T) {
	bob, id := shareToBob(t)

	out, err := bob.run("received", "resync")
	require.NoError(t, err)
	assert.Equal(t, "Updated 1, orphaned 0, failed 0\n", out)

	out, err = bob.run("received", "rm", id)
	require.NoError(t, err)
	assert.Equal(t, "Removed "+id+"\n", out)
	assert.Empty(t, bob.store.ReceivedRepo.All("bob"))

	out, err = bob.run("received")
	require.NoError(t, err)
	assert.Equal(t, "Nothing received.\n", out)
}

func TestShowCommand_ReceivedCopy(t *testing.T) {
	bob, id := shareToBob(t)

	out, err := bob.run("show", id)

	require.NoError(t, err)
	assert.Contains(t, out, "Received from: Alice (alice)")
	assert.Contains(t, out, "Budget")
}
