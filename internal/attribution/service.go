// Package attribution records marketing-referral provenance for inbound messages.
package attribution

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
	"github.com/waledger/waledger/internal/referral"
)

// Attribution links a message to the referral that produced it.
type Attribution struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	ContactID  string          `json:"contact_id"`
	MessageID  string          `json:"message_id,omitempty"`
	SourceType string          `json:"source_type"`
	CtwaClid   string          `json:"ctwa_clid,omitempty"`
	SourceID   string          `json:"source_id,omitempty"`
	Headline   string          `json:"headline,omitempty"`
	Body       string          `json:"body,omitempty"`
	Raw        json.RawMessage `json:"raw_json"`
	CapturedAt time.Time       `json:"captured_at"`
}

// Recorder appends attribution rows.
type Recorder struct {
	logger *slog.Logger
}

// NewRecorder creates an attribution recorder.
func NewRecorder(log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{logger: log.With(slog.String("service", "attribution"))}
}

// Record stores one attribution for messageID. Dedupe is inherited from the
// message insert in the same unit of work.
func (r *Recorder) Record(ctx context.Context, q sqlc.Querier, tenantID, contactID, messageID string, ref referral.Referral) (Attribution, error) {
	pgTenantID, err := db.ParseUUID(tenantID)
	if err != nil {
		return Attribution{}, fmt.Errorf("invalid tenant id: %w", err)
	}
	pgContactID, err := db.ParseUUID(contactID)
	if err != nil {
		return Attribution{}, fmt.Errorf("invalid contact id: %w", err)
	}
	raw := []byte(ref.Raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	sourceType := ref.SourceType
	if sourceType == "" {
		sourceType = referral.DefaultSourceType
	}

	row, err := q.CreateAttribution(ctx, sqlc.CreateAttributionParams{
		TenantID:   pgTenantID,
		ContactID:  pgContactID,
		MessageID:  db.Text(messageID),
		SourceType: sourceType,
		CtwaClid:   db.Text(ref.CtwaClid),
		SourceID:   db.Text(ref.SourceID),
		Headline:   db.Text(ref.Headline),
		Body:       db.Text(ref.Body),
		RawJson:    raw,
	})
	if err != nil {
		return Attribution{}, fmt.Errorf("create attribution: %w", err)
	}
	r.logger.Debug("attribution recorded",
		slog.String("message_id", messageID),
		slog.String("source_type", sourceType),
	)
	return toAttribution(row), nil
}

func toAttribution(row sqlc.Attribution) Attribution {
	return Attribution{
		ID:         db.UUIDString(row.ID),
		TenantID:   db.UUIDString(row.TenantID),
		ContactID:  db.UUIDString(row.ContactID),
		MessageID:  row.MessageID.String,
		SourceType: row.SourceType,
		CtwaClid:   row.CtwaClid.String,
		SourceID:   row.SourceID.String,
		Headline:   row.Headline.String,
		Body:       row.Body.String,
		Raw:        json.RawMessage(row.RawJson),
		CapturedAt: row.CapturedAt.Time,
	}
}
