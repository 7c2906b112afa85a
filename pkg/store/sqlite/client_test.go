package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/adrianliechti/furnish/pkg/store"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
	})

	require.NoError(t, client.Seed(context.Background(), []store.Account{
		{Username: "alice", Password: "wonderland", Tokens: 5, Admin: true},
		{Username: "bob", Password: "builder"},
	}))

	return client
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	client := testClient(t)

	user, err := client.Authenticate(ctx, "alice", "wonderland")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, 5, user.Tokens)
	require.True(t, user.Admin)

	_, err = client.Authenticate(ctx, "alice", "nope")
	require.ErrorIs(t, err, store.ErrInvalidCredentials)

	_, err = client.Authenticate(ctx, "mallory", "x")
	require.ErrorIs(t, err, store.ErrInvalidCredentials)
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()

	client := testClient(t)

	user, err := client.User(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, 20, user.Tokens)
	require.False(t, user.Admin)

	// seeding again must not reset existing accounts
	require.NoError(t, client.Seed(ctx, []store.Account{
		{Username: "bob", Password: "changed", Tokens: 99},
	}))

	_, err = client.Authenticate(ctx, "bob", "builder")
	require.NoError(t, err)
}

func TestDebitTokens(t *testing.T) {
	ctx := context.Background()

	client := testClient(t)

	remaining, err := client.DebitTokens(ctx, "alice", 1)
	require.NoError(t, err)
	require.Equal(t, 4, remaining)

	remaining, err = client.DebitTokens(ctx, "alice", 10)
	require.ErrorIs(t, err, store.ErrInsufficientTokens)
	require.Equal(t, 4, remaining)

	require.NoError(t, client.SetTokens(ctx, "alice", 0))

	_, err = client.DebitTokens(ctx, "alice", 1)
	require.ErrorIs(t, err, store.ErrInsufficientTokens)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()

	client := testClient(t)

	session, err := client.CreateSession(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	found, err := client.Session(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", found.Username)

	require.NoError(t, client.DeleteSession(ctx, session.ID))

	_, err = client.Session(ctx, session.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()

	client := testClient(t)

	users, err := client.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username)
}
