package tenants

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waledger/waledger/internal/db/dbtest"
)

func TestResolveCreatesOnce(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	r := NewResolver(nil)

	first, err := r.Resolve(ctx, store, "acme")
	require.NoError(t, err)
	second, err := r.Resolve(ctx, store, "  acme ")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "acme", second.Name)
	assert.Len(t, store.Snapshot().Tenants, 1)
}

func TestResolveConcurrentFirstSight(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	r := NewResolver(nil)

	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tenant, err := r.Resolve(ctx, store, "acme")
			assert.NoError(t, err)
			ids[i] = tenant.ID
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Len(t, store.Snapshot().Tenants, 1)
}

func TestResolveRejectsBlankName(t *testing.T) {
	_, err := NewResolver(nil).Resolve(context.Background(), dbtest.NewStore(), "   ")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestResolvePropagatesStorageErrors(t *testing.T) {
	store := dbtest.NewStore()
	boom := errors.New("connection reset")
	store.FailOn("GetTenantByName", boom)

	_, err := NewResolver(nil).Resolve(context.Background(), store, "acme")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.Snapshot().Tenants)
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore()
	r := NewResolver(nil)

	_, found, err := r.Lookup(ctx, store, "acme")
	require.NoError(t, err)
	assert.False(t, found)

	created, err := r.Resolve(ctx, store, "acme")
	require.NoError(t, err)
	got, found, err := r.Lookup(ctx, store, "acme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, created.ID, got.ID)
}
