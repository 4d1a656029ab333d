package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
)

// Upserter finds or creates contacts and merges fresher profile attributes.
type Upserter struct {
	logger *slog.Logger
}

// NewUpserter creates a contact upserter.
func NewUpserter(log *slog.Logger) *Upserter {
	if log == nil {
		log = slog.Default()
	}
	return &Upserter{logger: log.With(slog.String("service", "contacts"))}
}

// Upsert returns the contact for (tenant, contact key). A new contact stores every
// provided field. An existing one is updated only for fields that are provided and
// differ from the stored value; a stored value is never cleared, and updated_at
// moves only when something changed.
func (u *Upserter) Upsert(ctx context.Context, q sqlc.Querier, in UpsertInput) (UpsertResult, error) {
	key := strings.TrimSpace(in.ContactKey)
	if key == "" {
		return UpsertResult{}, ErrContactKeyRequired
	}
	tenantID, err := db.ParseUUID(in.TenantID)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("invalid tenant id: %w", err)
	}

	row, err := q.GetContactByKey(ctx, sqlc.GetContactByKeyParams{TenantID: tenantID, ContactKey: key})
	if errors.Is(err, pgx.ErrNoRows) {
		row, err = q.CreateContactIfAbsent(ctx, sqlc.CreateContactIfAbsentParams{
			TenantID:    tenantID,
			ContactKey:  key,
			WaID:        db.Text(in.WaID),
			ProfileName: db.Text(in.ProfileName),
		})
		if err == nil {
			return UpsertResult{Contact: toContact(row), Created: true}, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return UpsertResult{}, fmt.Errorf("create contact: %w", err)
		}
		// A concurrent event created the contact first.
		row, err = q.GetContactByKey(ctx, sqlc.GetContactByKeyParams{TenantID: tenantID, ContactKey: key})
	}
	if err != nil {
		return UpsertResult{}, fmt.Errorf("get contact: %w", err)
	}

	waID, waChanged := merge(row.WaID, in.WaID)
	profileName, nameChanged := merge(row.ProfileName, in.ProfileName)
	if !waChanged && !nameChanged {
		return UpsertResult{Contact: toContact(row)}, nil
	}

	updated, err := q.UpdateContactProfile(ctx, sqlc.UpdateContactProfileParams{
		ID:          row.ID,
		TenantID:    tenantID,
		WaID:        waID,
		ProfileName: profileName,
	})
	if err != nil {
		return UpsertResult{}, fmt.Errorf("update contact: %w", err)
	}
	u.logger.Debug("contact profile updated",
		slog.String("contact_id", db.UUIDString(updated.ID)),
		slog.Bool("wa_id_changed", waChanged),
		slog.Bool("profile_name_changed", nameChanged),
	)
	return UpsertResult{Contact: toContact(updated), Updated: true}, nil
}

// merge keeps stored unless incoming is provided and different.
func merge(stored pgtype.Text, incoming string) (pgtype.Text, bool) {
	next := db.Text(incoming)
	if !next.Valid {
		return stored, false
	}
	if stored.Valid && stored.String == next.String {
		return stored, false
	}
	return next, true
}

func toContact(row sqlc.Contact) Contact {
	return Contact{
		ID:           db.UUIDString(row.ID),
		TenantID:     db.UUIDString(row.TenantID),
		ContactKey:   row.ContactKey,
		WaID:         row.WaID.String,
		PhoneE164:    row.PhoneE164.String,
		ProfileName:  row.ProfileName.String,
		CrmContactID: row.CrmContactID.String,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
