package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
)

// Updater advances the contact's last user activity.
type Updater struct {
	logger    *slog.Logger
	monotonic bool
}

// NewUpdater creates a memory updater. With monotonic set, an older message never
// moves last_user_message_at backwards.
func NewUpdater(log *slog.Logger, monotonic bool) *Updater {
	if log == nil {
		log = slog.Default()
	}
	return &Updater{
		logger:    log.With(slog.String("service", "memory")),
		monotonic: monotonic,
	}
}

// Touch ensures the memory row exists, seeded with ts, then records ts as the
// latest user activity and bumps updated_at.
func (u *Updater) Touch(ctx context.Context, q sqlc.Querier, tenantID, contactID string, ts time.Time) error {
	pgTenantID, err := db.ParseUUID(tenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}
	pgContactID, err := db.ParseUUID(contactID)
	if err != nil {
		return fmt.Errorf("invalid contact id: %w", err)
	}
	at := db.Timestamptz(ts)

	if err := q.EnsureMemoryRecord(ctx, sqlc.EnsureMemoryRecordParams{
		TenantID:          pgTenantID,
		ContactID:         pgContactID,
		LastUserMessageAt: at,
	}); err != nil {
		return fmt.Errorf("ensure memory record: %w", err)
	}

	if u.monotonic {
		err = q.TouchMemoryActivityMonotonic(ctx, sqlc.TouchMemoryActivityMonotonicParams{
			TenantID:          pgTenantID,
			ContactID:         pgContactID,
			LastUserMessageAt: at,
		})
	} else {
		err = q.TouchMemoryActivity(ctx, sqlc.TouchMemoryActivityParams{
			TenantID:          pgTenantID,
			ContactID:         pgContactID,
			LastUserMessageAt: at,
		})
	}
	if err != nil {
		return fmt.Errorf("touch memory activity: %w", err)
	}
	return nil
}

// Get returns the memory record for a contact.
func (u *Updater) Get(ctx context.Context, q sqlc.Querier, tenantID, contactID string) (Record, bool, error) {
	pgTenantID, err := db.ParseUUID(tenantID)
	if err != nil {
		return Record{}, false, fmt.Errorf("invalid tenant id: %w", err)
	}
	pgContactID, err := db.ParseUUID(contactID)
	if err != nil {
		return Record{}, false, fmt.Errorf("invalid contact id: %w", err)
	}
	row, err := q.GetMemoryRecord(ctx, sqlc.GetMemoryRecordParams{
		TenantID:  pgTenantID,
		ContactID: pgContactID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("get memory record: %w", err)
	}
	return toRecord(row), true, nil
}

func toRecord(row sqlc.MemoryRecord) Record {
	r := Record{
		TenantID:              db.UUIDString(row.TenantID),
		ContactID:             db.UUIDString(row.ContactID),
		Summary:               row.Summary,
		Facts:                 json.RawMessage(row.Facts),
		ActivePrimaryEvent:    row.ActivePrimaryEvent.String,
		ActiveSecondaryEvents: json.RawMessage(row.ActiveSecondaryEvents),
		RecentEvents:          json.RawMessage(row.RecentEvents),
		Scores:                json.RawMessage(row.Scores),
		UpdatedAt:             row.UpdatedAt.Time,
	}
	if row.LastUserMessageAt.Valid {
		at := row.LastUserMessageAt.Time.UTC()
		r.LastUserMessageAt = &at
	}
	return r
}
