package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUUIDRoundTrip(t *testing.T) {
	t.Parallel()

	id, err := ParseUUID(" 0b9d3f7e-6a53-4c36-9a57-7cf4a8bb3f11 ")
	require.NoError(t, err)
	assert.True(t, id.Valid)
	assert.Equal(t, "0b9d3f7e-6a53-4c36-9a57-7cf4a8bb3f11", UUIDString(id))

	_, err = ParseUUID("not-a-uuid")
	assert.Error(t, err)
}

func TestUniqueViolationClassification(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "messages_tenant_message_id_key"}
	wrapped := fmt.Errorf("create message: %w", pgErr)

	assert.True(t, IsUniqueViolation(wrapped))
	assert.True(t, IsConstraintViolation(wrapped, "messages_tenant_message_id_key"))
	assert.False(t, IsConstraintViolation(wrapped, "contacts_tenant_contact_key_key"))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "messages_contact_fkey"}
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestTextBlankIsNull(t *testing.T) {
	t.Parallel()

	assert.False(t, Text("  ").Valid)
	v := Text(" Juan ")
	assert.True(t, v.Valid)
	assert.Equal(t, "Juan", v.String)
}

func TestMigrateURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pgx5://u:p@h:5432/d?sslmode=disable", migrateURL("postgres://u:p@h:5432/d?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/d", migrateURL("postgresql://u@h/d"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}
