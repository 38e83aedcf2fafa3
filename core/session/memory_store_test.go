package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/guardkit/core/session"
)

func TestMemoryStore_CRUD(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore[testData]()
	ctx := context.Background()

	sess := session.Session[testData]{
		ID:           uuid.New(),
		Token:        "token-1",
		Metadata:     map[string]string{"source": "upload"},
		Data:         testData{Draft: "v1"},
		CreatedAt:    time.Unix(0, 0),
		LastActivity: time.Unix(0, 0),
		Active:       true,
	}
	require.NoError(t, store.Save(ctx, &sess))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, *got)

	// Mutating the returned record must not leak into the store.
	got.Active = false
	again, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, again.Active)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, store.Delete(ctx, sess.ID))
	assert.Equal(t, 0, store.Len())

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Deleting a missing record is a no-op, not an error.
	assert.NoError(t, store.Delete(ctx, sess.ID))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore[testData]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				sess := session.Session[testData]{ID: uuid.New(), Active: true}
				_ = store.Save(ctx, &sess)
				_, _ = store.Get(ctx, sess.ID)
				_, _ = store.All(ctx)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, store.Len())
}
