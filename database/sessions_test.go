package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-quiz/auth"
	"github.com/mbolis/quick-quiz/config"
)

func openTestDB(t *testing.T) Sessions {
	t.Helper()
	db, err := Open(config.Config{DBUrl: filepath.Join(t.TempDir(), "test.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessions(db)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")
	for i := 0; i < 2; i++ {
		db, err := Open(config.Config{DBUrl: path})
		require.NoError(t, err)
		require.NoError(t, db.Close())
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sessions := openTestDB(t)
	ctx := context.Background()

	saved := &auth.Session{
		ID:      "5c1b0bd4-7f4e-4c59-9f83-8ef4f3e1c0a1",
		Access:  "access",
		Refresh: "refresh",
		Name:    "Ada",
		Expires: time.Now().Add(time.Hour).Truncate(time.Second),
	}
	require.NoError(t, sessions.Save(ctx, saved))

	got, err := sessions.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Access, got.Access)
	assert.Equal(t, saved.Refresh, got.Refresh)
	assert.Equal(t, saved.Name, got.Name)
	assert.True(t, saved.Expires.Equal(got.Expires))

	saved.Access = "renewed"
	require.NoError(t, sessions.Save(ctx, saved))
	got, err = sessions.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "renewed", got.Access)

	require.NoError(t, sessions.Delete(ctx, saved.ID))
	_, err = sessions.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestExpiredSessionIsDroppedOnGet(t *testing.T) {
	sessions := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &auth.Session{ID: "old", Access: "a", Expires: time.Now().Add(-time.Minute)}))

	_, err := sessions.Get(ctx, "old")
	assert.ErrorIs(t, err, auth.ErrSessionExpired)
	_, err = sessions.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestPurgeExpired(t *testing.T) {
	sessions := openTestDB(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, sessions.Save(ctx, &auth.Session{ID: "old", Access: "a", Expires: now.Add(-time.Minute)}))
	require.NoError(t, sessions.Save(ctx, &auth.Session{ID: "new", Access: "b", Expires: now.Add(time.Hour)}))

	n, err := sessions.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = sessions.Get(ctx, "new")
	assert.NoError(t, err)
}
