package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waledger/waledger/internal/db/dbtest"
	"github.com/waledger/waledger/internal/tenants"
)

func setup(t *testing.T) (*dbtest.Store, string) {
	t.Helper()
	store := dbtest.NewStore()
	tenant, err := tenants.NewResolver(nil).Resolve(context.Background(), store, "acme")
	require.NoError(t, err)
	return store, tenant.ID
}

func TestUpsertCreatesThenReuses(t *testing.T) {
	ctx := context.Background()
	store, tenantID := setup(t)
	u := NewUpserter(nil)

	created, err := u.Upsert(ctx, store, UpsertInput{TenantID: tenantID, ContactKey: "wa:100", WaID: "100", ProfileName: "Ana"})
	require.NoError(t, err)
	assert.True(t, created.Created)
	assert.Equal(t, "Ana", created.Contact.ProfileName)

	again, err := u.Upsert(ctx, store, UpsertInput{TenantID: tenantID, ContactKey: "wa:100", WaID: "100", ProfileName: "Ana"})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.False(t, again.Updated)
	assert.Equal(t, created.Contact.ID, again.Contact.ID)
	assert.Equal(t, created.Contact.UpdatedAt, again.Contact.UpdatedAt)
	assert.Len(t, store.Snapshot().Contacts, 1)
}

func TestUpsertMergesWithoutClearing(t *testing.T) {
	ctx := context.Background()
	store, tenantID := setup(t)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	u := NewUpserter(nil)

	first, err := u.Upsert(ctx, store, UpsertInput{TenantID: tenantID, ContactKey: "wa:100", WaID: "100", ProfileName: "Ana"})
	require.NoError(t, err)

	blank, err := u.Upsert(ctx, store, UpsertInput{TenantID: tenantID, ContactKey: "wa:100"})
	require.NoError(t, err)
	assert.False(t, blank.Updated)
	assert.Equal(t, "Ana", blank.Contact.ProfileName)
	assert.Equal(t, "100", blank.Contact.WaID)

	renamed, err := u.Upsert(ctx, store, UpsertInput{TenantID: tenantID, ContactKey: "wa:100", ProfileName: "Ana María"})
	require.NoError(t, err)
	assert.True(t, renamed.Updated)
	assert.Equal(t, "Ana María", renamed.Contact.ProfileName)
	assert.Equal(t, "100", renamed.Contact.WaID)
	assert.True(t, renamed.Contact.UpdatedAt.After(first.Contact.UpdatedAt))
}

func TestUpsertScopedByTenant(t *testing.T) {
	ctx := context.Background()
	store, acmeID := setup(t)
	globex, err := tenants.NewResolver(nil).Resolve(ctx, store, "globex")
	require.NoError(t, err)
	u := NewUpserter(nil)

	a, err := u.Upsert(ctx, store, UpsertInput{TenantID: acmeID, ContactKey: "wa:100"})
	require.NoError(t, err)
	b, err := u.Upsert(ctx, store, UpsertInput{TenantID: globex.ID, ContactKey: "wa:100"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Contact.ID, b.Contact.ID)
	assert.True(t, b.Created)
}

func TestUpsertRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	store, tenantID := setup(t)
	u := NewUpserter(nil)

	_, err := u.Upsert(ctx, store, UpsertInput{TenantID: tenantID, ContactKey: " "})
	assert.ErrorIs(t, err, ErrContactKeyRequired)

	_, err = u.Upsert(ctx, store, UpsertInput{TenantID: "not-a-uuid", ContactKey: "wa:1"})
	assert.Error(t, err)
}
