package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
)

// Tracker finds or opens the active conversation for a contact.
type Tracker struct {
	logger *slog.Logger
}

// NewTracker creates a conversation tracker.
func NewTracker(log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{logger: log.With(slog.String("service", "conversation"))}
}

// EnsureActive returns the contact's most recently opened active conversation, or
// opens one. If concurrent events ever left more than one active row, the newest
// opened_at wins and the others are left untouched.
func (t *Tracker) EnsureActive(ctx context.Context, q sqlc.Querier, tenantID, contactID string) (EnsureResult, error) {
	pgTenantID, err := db.ParseUUID(tenantID)
	if err != nil {
		return EnsureResult{}, fmt.Errorf("invalid tenant id: %w", err)
	}
	pgContactID, err := db.ParseUUID(contactID)
	if err != nil {
		return EnsureResult{}, fmt.Errorf("invalid contact id: %w", err)
	}

	row, err := q.GetActiveConversation(ctx, sqlc.GetActiveConversationParams{
		TenantID:  pgTenantID,
		ContactID: pgContactID,
	})
	if err == nil {
		return EnsureResult{Conversation: toConversation(row)}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return EnsureResult{}, fmt.Errorf("get active conversation: %w", err)
	}

	row, err = q.CreateConversation(ctx, sqlc.CreateConversationParams{
		TenantID:  pgTenantID,
		ContactID: pgContactID,
	})
	if err != nil {
		return EnsureResult{}, fmt.Errorf("create conversation: %w", err)
	}
	t.logger.Debug("conversation opened",
		slog.String("conversation_id", db.UUIDString(row.ID)),
		slog.String("contact_id", contactID),
	)
	return EnsureResult{Conversation: toConversation(row), Opened: true}, nil
}

func toConversation(row sqlc.Conversation) Conversation {
	c := Conversation{
		ID:        db.UUIDString(row.ID),
		TenantID:  db.UUIDString(row.TenantID),
		ContactID: db.UUIDString(row.ContactID),
		Status:    row.Status,
		OpenedAt:  row.OpenedAt.Time,
		CreatedAt: row.CreatedAt.Time,
	}
	if row.ClosedAt.Valid {
		closedAt := row.ClosedAt.Time
		c.ClosedAt = &closedAt
	}
	return c
}
