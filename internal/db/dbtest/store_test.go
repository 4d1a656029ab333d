package dbtest

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
)

func TestInTxCommitPublishes(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.InTx(ctx, func(ctx context.Context, q sqlc.Querier) (db.TxDecision, error) {
		_, err := q.CreateTenantIfAbsent(ctx, "acme")
		return db.TxCommit, err
	})
	require.NoError(t, err)
	assert.Len(t, s.Snapshot().Tenants, 1)
}

func TestInTxDiscardAndErrorRollBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.InTx(ctx, func(ctx context.Context, q sqlc.Querier) (db.TxDecision, error) {
		_, err := q.CreateTenantIfAbsent(ctx, "acme")
		return db.TxDiscard, err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.InTx(ctx, func(ctx context.Context, q sqlc.Querier) (db.TxDecision, error) {
		if _, err := q.CreateTenantIfAbsent(ctx, "globex"); err != nil {
			return db.TxDiscard, err
		}
		return db.TxCommit, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Snapshot().Tenants)
}

func TestAbortedTxRefusesStatements(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	tenant, err := s.CreateTenantIfAbsent(ctx, "acme")
	require.NoError(t, err)

	err = s.InTx(ctx, func(ctx context.Context, q sqlc.Querier) (db.TxDecision, error) {
		_, err := q.CreateContactIfAbsent(ctx, sqlc.CreateContactIfAbsentParams{TenantID: newID(), ContactKey: "wa:1"})
		var fkErr *pgconn.PgError
		require.ErrorAs(t, err, &fkErr)
		assert.Equal(t, codeForeignKeyViolation, fkErr.Code)
		assert.Equal(t, "contacts_tenant_id_fkey", fkErr.ConstraintName)

		_, err = q.GetTenantByName(ctx, tenant.Name)
		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, codeInFailedTx, pgErr.Code)
		return db.TxCommit, nil
	})
	require.Error(t, err)
	assert.Empty(t, s.Snapshot().Contacts)
}

func TestUniqueViolationCarriesConstraint(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.CreateOperator(ctx, sqlc.CreateOperatorParams{Username: "admin", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = s.CreateOperator(ctx, sqlc.CreateOperatorParams{Username: "admin", PasswordHash: "y"})
	assert.True(t, db.IsConstraintViolation(err, "operators_username_key"))
}

func TestFailOn(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	s.FailOn("CountOperators", boom)
	_, err := s.CountOperators(ctx)
	assert.ErrorIs(t, err, boom)

	s.FailOn("CountOperators", nil)
	n, err := s.CountOperators(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
