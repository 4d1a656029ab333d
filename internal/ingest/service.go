package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/waledger/waledger/internal/attribution"
	"github.com/waledger/waledger/internal/config"
	"github.com/waledger/waledger/internal/contacts"
	"github.com/waledger/waledger/internal/conversation"
	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
	"github.com/waledger/waledger/internal/memory"
	"github.com/waledger/waledger/internal/message"
	"github.com/waledger/waledger/internal/referral"
	"github.com/waledger/waledger/internal/tenants"
)

// Service sequences one inbound event through the pipeline.
type Service struct {
	queries sqlc.Querier
	uow     db.UnitOfWork
	logger  *slog.Logger

	tenants       *tenants.Resolver
	contacts      *contacts.Upserter
	conversations *conversation.Tracker
	messages      *message.Recorder
	attributions  *attribution.Recorder
	memory        *memory.Updater

	defaultChannel string
}

// NewService creates an ingestion service. queries serves the reads and the
// tenant find-or-create that run outside the unit of work.
func NewService(log *slog.Logger, queries sqlc.Querier, uow db.UnitOfWork, cfg config.IngestConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	channel := strings.TrimSpace(cfg.DefaultChannel)
	if channel == "" {
		channel = config.DefaultChannel
	}
	return &Service{
		queries:        queries,
		uow:            uow,
		logger:         log.With(slog.String("service", "ingest")),
		tenants:        tenants.NewResolver(log),
		contacts:       contacts.NewUpserter(log),
		conversations:  conversation.NewTracker(log),
		messages:       message.NewRecorder(log),
		attributions:   attribution.NewRecorder(log),
		memory:         memory.NewUpdater(log, cfg.MonotonicActivity),
		defaultChannel: channel,
	}
}

// normalized is an event that passed semantic validation.
type normalized struct {
	event     Event
	timestamp time.Time
	channel   string
	referral  referral.Referral
	referred  bool
}

func (s *Service) normalize(ev Event) (normalized, error) {
	required := []struct {
		field string
		value string
	}{
		{"tenant_id", ev.TenantID},
		{"received_at", ev.ReceivedAt},
		{"contact.contact_key", ev.Contact.ContactKey},
		{"message.message_id", ev.Message.MessageID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return normalized{}, &ValidationError{Field: r.field, Err: errors.New("required")}
		}
	}

	for _, blob := range []struct {
		field string
		value json.RawMessage
	}{
		{"raw", ev.Raw},
		{"message.raw", ev.Message.Raw},
	} {
		if !isObject(blob.value) {
			return normalized{}, &ValidationError{Field: blob.field, Err: errors.New("must be a JSON object")}
		}
	}

	ts, err := ParseTimestamp(ev.Message.Timestamp)
	if err != nil {
		return normalized{}, err
	}
	ref, referred, err := referral.Parse(ev.Referral)
	if err != nil {
		return normalized{}, &ValidationError{Field: "referral", Err: err}
	}

	n := normalized{
		event:     ev,
		timestamp: ts,
		channel:   strings.TrimSpace(ev.Channel),
		referral:  ref,
		referred:  referred,
	}
	if n.channel == "" {
		n.channel = s.defaultChannel
	}
	if strings.TrimSpace(n.event.Metadata.Provider) == "" {
		n.event.Metadata.Provider = DefaultProvider
	}
	return n, nil
}

// Ingest records ev exactly once. A redelivered event, including one racing a
// concurrent delivery of itself, returns a deduped Result and no error. A
// *ValidationError means nothing was written; any other error means the unit of
// work was rolled back.
func (s *Service) Ingest(ctx context.Context, ev Event) (Result, error) {
	n, err := s.normalize(ev)
	if err != nil {
		return Result{}, err
	}
	log := s.logger.With(
		slog.String("tenant", ev.TenantID),
		slog.String("message_id", ev.Message.MessageID),
		slog.String("trace_id", ev.TraceID),
	)

	tenant, err := s.tenants.Resolve(ctx, s.queries, ev.TenantID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve tenant: %w", err)
	}

	exists, err := s.messages.Exists(ctx, s.queries, tenant.ID, ev.Message.MessageID)
	if err != nil {
		return Result{}, err
	}
	if exists {
		log.Info("inbound message ingested", slog.String("outcome", OutcomeShortCircuit.String()))
		return Result{Outcome: OutcomeShortCircuit, TenantID: tenant.ID, MessageID: ev.Message.MessageID}, nil
	}

	var res Result
	err = s.uow.InTx(ctx, func(ctx context.Context, q sqlc.Querier) (db.TxDecision, error) {
		var txErr error
		res, txErr = s.apply(ctx, q, tenant.ID, n)
		if txErr != nil {
			return db.TxDiscard, txErr
		}
		if res.Outcome == OutcomeRaceRecovered {
			return db.TxDiscard, nil
		}
		return db.TxCommit, nil
	})
	if err != nil {
		log.Error("inbound message failed", slog.Any("error", err))
		return Result{}, err
	}

	if res.Outcome == OutcomeRaceRecovered {
		existing, found, getErr := s.messages.Get(ctx, s.queries, tenant.ID, ev.Message.MessageID)
		switch {
		case getErr != nil:
			log.Warn("read winning message failed", slog.Any("error", getErr))
		case found:
			res.Existing = &existing
			log = log.With(slog.String("winner_id", existing.ID))
		}
	}
	log.Info("inbound message ingested", slog.String("outcome", res.Outcome.String()))
	return res, nil
}

// apply runs the transactional steps. It returns OutcomeRaceRecovered when the
// message insert lost to a concurrent one; q is unusable afterwards.
func (s *Service) apply(ctx context.Context, q sqlc.Querier, tenantID string, n normalized) (Result, error) {
	ev := n.event

	contact, err := s.contacts.Upsert(ctx, q, contacts.UpsertInput{
		TenantID:    tenantID,
		ContactKey:  ev.Contact.ContactKey,
		WaID:        ev.Contact.WaID,
		ProfileName: ev.Contact.ProfileName,
	})
	if err != nil {
		return Result{}, fmt.Errorf("upsert contact: %w", err)
	}

	conv, err := s.conversations.EnsureActive(ctx, q, tenantID, contact.Contact.ID)
	if err != nil {
		return Result{}, fmt.Errorf("ensure conversation: %w", err)
	}

	recorded, err := s.messages.Record(ctx, q, message.RecordInput{
		TenantID:       tenantID,
		ConversationID: conv.Conversation.ID,
		ContactID:      contact.Contact.ID,
		Channel:        n.channel,
		MessageID:      ev.Message.MessageID,
		Timestamp:      n.timestamp,
		Type:           ev.Message.Type,
		TextBody:       textBody(ev.Message),
		Payload:        payload(n),
	})
	if err != nil {
		return Result{}, fmt.Errorf("record message: %w", err)
	}
	if recorded.Status == message.Duplicate {
		return Result{Outcome: OutcomeRaceRecovered, TenantID: tenantID, MessageID: ev.Message.MessageID}, nil
	}

	if n.referred {
		if _, err := s.attributions.Record(ctx, q, tenantID, contact.Contact.ID, ev.Message.MessageID, n.referral); err != nil {
			return Result{}, fmt.Errorf("record attribution: %w", err)
		}
	}

	if err := s.memory.Touch(ctx, q, tenantID, contact.Contact.ID, n.timestamp); err != nil {
		return Result{}, fmt.Errorf("touch memory: %w", err)
	}

	return Result{
		Outcome:        OutcomeCommitted,
		TenantID:       tenantID,
		ContactID:      contact.Contact.ID,
		ConversationID: conv.Conversation.ID,
		MessageID:      ev.Message.MessageID,
		Timestamp:      n.timestamp,
	}, nil
}

func textBody(m Message) string {
	if m.Type != "text" || m.Text == nil {
		return ""
	}
	return m.Text.Body
}

func payload(n normalized) message.Payload {
	ev := n.event
	return message.Payload{
		Metadata: map[string]any{
			"provider":             ev.Metadata.Provider,
			"waba_id":              optional(ev.Metadata.WabaID),
			"phone_number_id":      optional(ev.Metadata.PhoneNumberID),
			"display_phone_number": optional(ev.Metadata.DisplayPhoneNumber),
		},
		MessageRaw:  ev.Message.Raw,
		Referral:    n.referral.Raw,
		ValueRaw:    ev.Raw,
		TraceID:     ev.TraceID,
		Interactive: ev.Message.Interactive,
		Media:       ev.Message.Media,
	}
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}

func optional(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// RecentMessages lists the newest messages, optionally limited to the tenant
// with the given external name. An unknown tenant yields an empty list.
func (s *Service) RecentMessages(ctx context.Context, tenantName string, limit int) ([]message.LogEntry, error) {
	tenantID := ""
	if name := strings.TrimSpace(tenantName); name != "" {
		tenant, found, err := s.tenants.Lookup(ctx, s.queries, name)
		if err != nil {
			return nil, fmt.Errorf("lookup tenant: %w", err)
		}
		if !found {
			return []message.LogEntry{}, nil
		}
		tenantID = tenant.ID
	}
	return s.messages.ListLog(ctx, s.queries, tenantID, limit)
}
