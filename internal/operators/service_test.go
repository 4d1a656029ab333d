package operators

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/waledger/waledger/internal/config"
	"github.com/waledger/waledger/internal/db/dbtest"
)

func newTestService(store *dbtest.Store) *Service {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), store)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestCreateAndAuthenticate(t *testing.T) {
	t.Parallel()
	store := dbtest.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	op, err := svc.Create(ctx, " ops ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ops", op.Username)
	assert.True(t, op.IsActive)
	assert.NotEmpty(t, op.ID)

	stored := store.Snapshot().Operators[0]
	assert.NotEqual(t, "hunter2", stored.PasswordHash)

	got, err := svc.Authenticate(ctx, "ops", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ops", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateRejectsDuplicatesAndBlanks(t *testing.T) {
	t.Parallel()
	svc := newTestService(dbtest.NewStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, "ops", "pw")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "ops", "pw2")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svc.Create(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrUsernameRequired)
	_, err = svc.Create(ctx, "other", " ")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestEnsureDefault(t *testing.T) {
	t.Parallel()
	store := dbtest.NewStore()
	svc := newTestService(store)
	ctx := context.Background()
	admin := config.AdminConfig{Username: "admin", Password: "s3cret"}

	created, err := svc.EnsureDefault(ctx, admin)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureDefault(ctx, admin)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, store.Snapshot().Operators, 1)

	_, err = svc.Authenticate(ctx, "admin", "s3cret")
	assert.NoError(t, err)
}

func TestEnsureDefaultRequiresCredentials(t *testing.T) {
	t.Parallel()
	svc := newTestService(dbtest.NewStore())

	_, err := svc.EnsureDefault(context.Background(), config.AdminConfig{Username: "admin"})
	assert.Error(t, err)
}

func TestEnsureDefaultStorageFailure(t *testing.T) {
	t.Parallel()
	store := dbtest.NewStore()
	boom := errors.New("db down")
	store.FailOn("CountOperators", boom)

	_, err := newTestService(store).EnsureDefault(context.Background(), config.AdminConfig{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, boom)
}
