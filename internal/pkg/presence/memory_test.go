package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Touch(ctx, "biz", "alice", now.Add(-2*time.Minute)))
	require.NoError(t, store.Touch(ctx, "biz", "bob", now.Add(-40*time.Minute)))
	require.NoError(t, store.Touch(ctx, "biz", "carol", now))
	require.NoError(t, store.Touch(ctx, "other", "dave", now))

	// an older touch never moves last activity backwards
	require.NoError(t, store.Touch(ctx, "biz", "carol", now.Add(-time.Hour)))

	online, err := store.Online(ctx, "biz", now.Add(-30*time.Minute))
	require.NoError(t, err)
	require.Len(t, online, 2)
	assert.Equal(t, "carol", online[0].StaffID)
	assert.Equal(t, now, online[0].LastActiveAt)
	assert.Equal(t, "alice", online[1].StaffID)

	require.NoError(t, store.Remove(ctx, "biz", "carol"))
	online, err = store.Online(ctx, "biz", now.Add(-30*time.Minute))
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "alice", online[0].StaffID)

	online, err = store.Online(ctx, "empty", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, online)
	assert.NotNil(t, online)
}
