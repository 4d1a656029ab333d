package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
)

// ErrMessageIDRequired is returned when a message has no external id.
var ErrMessageIDRequired = errors.New("message id is required")

// Recorder persists and reads messages.
type Recorder struct {
	logger *slog.Logger
}

// NewRecorder creates a message recorder.
func NewRecorder(log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{logger: log.With(slog.String("service", "message"))}
}

// Exists reports whether the tenant already has a message with this external id.
func (r *Recorder) Exists(ctx context.Context, q sqlc.Querier, tenantID, messageID string) (bool, error) {
	pgTenantID, err := db.ParseUUID(tenantID)
	if err != nil {
		return false, fmt.Errorf("invalid tenant id: %w", err)
	}
	exists, err := q.MessageExists(ctx, sqlc.MessageExistsParams{
		TenantID:  pgTenantID,
		MessageID: messageID,
	})
	if err != nil {
		return false, fmt.Errorf("check message exists: %w", err)
	}
	return exists, nil
}

// Record inserts an inbound message. A unique violation on the message id
// constraint is reported as Duplicate, not as an error; the caller must discard
// its unit of work because the failed statement aborted it.
func (r *Recorder) Record(ctx context.Context, q sqlc.Querier, in RecordInput) (RecordResult, error) {
	if strings.TrimSpace(in.MessageID) == "" {
		return RecordResult{}, ErrMessageIDRequired
	}
	pgTenantID, err := db.ParseUUID(in.TenantID)
	if err != nil {
		return RecordResult{}, fmt.Errorf("invalid tenant id: %w", err)
	}
	pgConversationID, err := db.ParseUUID(in.ConversationID)
	if err != nil {
		return RecordResult{}, fmt.Errorf("invalid conversation id: %w", err)
	}
	pgContactID, err := db.ParseUUID(in.ContactID)
	if err != nil {
		return RecordResult{}, fmt.Errorf("invalid contact id: %w", err)
	}
	payload, err := json.Marshal(in.Payload)
	if err != nil {
		return RecordResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	textBody := pgtype.Text{}
	if in.TextBody != "" {
		textBody = pgtype.Text{String: in.TextBody, Valid: true}
	}

	row, err := q.CreateMessage(ctx, sqlc.CreateMessageParams{
		TenantID:       pgTenantID,
		ConversationID: pgConversationID,
		ContactID:      pgContactID,
		Direction:      DirectionIn,
		Channel:        in.Channel,
		MessageID:      in.MessageID,
		Timestamp:      db.Timestamptz(in.Timestamp),
		Type:           in.Type,
		TextBody:       textBody,
		PayloadJson:    payload,
	})
	if err != nil {
		if db.IsConstraintViolation(err, UniqueConstraint) {
			r.logger.Debug("message insert lost race",
				slog.String("tenant_id", in.TenantID),
				slog.String("message_id", in.MessageID),
			)
			return RecordResult{Status: Duplicate}, nil
		}
		return RecordResult{}, fmt.Errorf("create message: %w", err)
	}
	return RecordResult{Status: Recorded, Message: toMessage(row)}, nil
}

// Get returns the tenant's message with the given external id.
func (r *Recorder) Get(ctx context.Context, q sqlc.Querier, tenantID, messageID string) (Message, bool, error) {
	pgTenantID, err := db.ParseUUID(tenantID)
	if err != nil {
		return Message{}, false, fmt.Errorf("invalid tenant id: %w", err)
	}
	row, err := q.GetMessageByExternalID(ctx, sqlc.GetMessageByExternalIDParams{
		TenantID:  pgTenantID,
		MessageID: messageID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, false, nil
		}
		return Message{}, false, fmt.Errorf("get message: %w", err)
	}
	return toMessage(row), true, nil
}

// ListLog returns the newest messages first, at most limit of them. An empty
// tenantID lists all tenants.
func (r *Recorder) ListLog(ctx context.Context, q sqlc.Querier, tenantID string, limit int) ([]LogEntry, error) {
	params := sqlc.ListMessageLogParams{MaxCount: int32(ClampLimit(limit, MaxLogLimit))}
	if strings.TrimSpace(tenantID) != "" {
		pgTenantID, err := db.ParseUUID(tenantID)
		if err != nil {
			return nil, fmt.Errorf("invalid tenant id: %w", err)
		}
		params.TenantID = pgTenantID
	}
	rows, err := q.ListMessageLog(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list message log: %w", err)
	}
	items := make([]LogEntry, 0, len(rows))
	for _, row := range rows {
		entry := LogEntry{
			Tenant:     row.TenantName,
			ContactKey: row.ContactKey,
			MessageID:  row.MessageID,
			Timestamp:  row.Timestamp.Time.UTC(),
			Type:       row.Type,
			Channel:    row.Channel,
		}
		if row.TextBody.Valid {
			body := row.TextBody.String
			entry.TextBody = &body
		}
		items = append(items, entry)
	}
	return items, nil
}

// ClampLimit bounds a requested page size to [1, upper].
func ClampLimit(limit, upper int) int {
	if upper < 1 {
		upper = MaxLogLimit
	}
	return min(max(1, limit), upper)
}

func toMessage(row sqlc.Message) Message {
	return Message{
		ID:             db.UUIDString(row.ID),
		TenantID:       db.UUIDString(row.TenantID),
		ConversationID: db.UUIDString(row.ConversationID),
		ContactID:      db.UUIDString(row.ContactID),
		Direction:      row.Direction,
		Channel:        row.Channel,
		MessageID:      row.MessageID,
		Timestamp:      row.Timestamp.Time.UTC(),
		Type:           row.Type,
		TextBody:       row.TextBody.String,
		Payload:        json.RawMessage(row.PayloadJson),
		CreatedAt:      row.CreatedAt.Time,
	}
}
