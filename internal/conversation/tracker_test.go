package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waledger/waledger/internal/contacts"
	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/dbtest"
	"github.com/waledger/waledger/internal/db/sqlc"
	"github.com/waledger/waledger/internal/tenants"
)

func setup(t *testing.T) (*dbtest.Store, string, string) {
	t.Helper()
	ctx := context.Background()
	store := dbtest.NewStore()
	tenant, err := tenants.NewResolver(nil).Resolve(ctx, store, "acme")
	require.NoError(t, err)
	contact, err := contacts.NewUpserter(nil).Upsert(ctx, store, contacts.UpsertInput{TenantID: tenant.ID, ContactKey: "wa:100"})
	require.NoError(t, err)
	return store, tenant.ID, contact.Contact.ID
}

func TestEnsureActiveOpensThenReuses(t *testing.T) {
	ctx := context.Background()
	store, tenantID, contactID := setup(t)
	tr := NewTracker(nil)

	opened, err := tr.EnsureActive(ctx, store, tenantID, contactID)
	require.NoError(t, err)
	assert.True(t, opened.Opened)
	assert.Equal(t, StatusActive, opened.Conversation.Status)
	assert.Nil(t, opened.Conversation.ClosedAt)

	reused, err := tr.EnsureActive(ctx, store, tenantID, contactID)
	require.NoError(t, err)
	assert.False(t, reused.Opened)
	assert.Equal(t, opened.Conversation.ID, reused.Conversation.ID)
	assert.Len(t, store.Snapshot().Conversations, 1)
}

func TestEnsureActivePicksNewest(t *testing.T) {
	ctx := context.Background()
	store, tenantID, contactID := setup(t)
	pgTenantID, err := db.ParseUUID(tenantID)
	require.NoError(t, err)
	pgContactID, err := db.ParseUUID(contactID)
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.InsertConversation(sqlc.Conversation{TenantID: pgTenantID, ContactID: pgContactID, OpenedAt: db.Timestamptz(base)})
	newest := store.InsertConversation(sqlc.Conversation{TenantID: pgTenantID, ContactID: pgContactID, OpenedAt: db.Timestamptz(base.Add(time.Hour))})
	store.InsertConversation(sqlc.Conversation{TenantID: pgTenantID, ContactID: pgContactID, Status: StatusClosed, OpenedAt: db.Timestamptz(base.Add(2 * time.Hour))})

	got, err := NewTracker(nil).EnsureActive(ctx, store, tenantID, contactID)
	require.NoError(t, err)
	assert.False(t, got.Opened)
	assert.Equal(t, db.UUIDString(newest.ID), got.Conversation.ID)
	assert.Len(t, store.Snapshot().ActiveConversations(pgContactID), 2)
}

func TestEnsureActiveIgnoresClosed(t *testing.T) {
	ctx := context.Background()
	store, tenantID, contactID := setup(t)
	pgTenantID, _ := db.ParseUUID(tenantID)
	pgContactID, _ := db.ParseUUID(contactID)
	closed := store.InsertConversation(sqlc.Conversation{TenantID: pgTenantID, ContactID: pgContactID, Status: StatusClosed})

	got, err := NewTracker(nil).EnsureActive(ctx, store, tenantID, contactID)
	require.NoError(t, err)
	assert.True(t, got.Opened)
	assert.NotEqual(t, db.UUIDString(closed.ID), got.Conversation.ID)
}
