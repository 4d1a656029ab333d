// Package ingest turns normalized inbound messaging events into tenant, contact,
// conversation, message, attribution and memory rows, exactly once per
// (tenant, message id).
package ingest

import (
	"encoding/json"
	"time"

	"github.com/waledger/waledger/internal/message"
)

// DefaultProvider is assumed when the event metadata names no provider.
const DefaultProvider = "cloud_api"

// Event is the normalized inbound webhook payload. The raw blobs are kept as
// received so ids wider than a float64 mantissa survive archiving.
type Event struct {
	TenantID   string          `json:"tenant_id" validate:"required"`
	TraceID    string          `json:"trace_id" validate:"required"`
	ReceivedAt string          `json:"received_at" validate:"required"`
	Channel    string          `json:"channel"`
	Metadata   Metadata        `json:"metadata"`
	Contact    Contact         `json:"contact"`
	Message    Message         `json:"message"`
	Referral   json.RawMessage `json:"referral"`
	Raw        json.RawMessage `json:"raw" validate:"required"`
}

// Metadata identifies the provider account that delivered the event.
type Metadata struct {
	Provider           string `json:"provider"`
	WabaID             string `json:"waba_id,omitempty"`
	PhoneNumberID      string `json:"phone_number_id,omitempty"`
	DisplayPhoneNumber string `json:"display_phone_number,omitempty"`
}

// Contact is the sender of the event.
type Contact struct {
	WaID        string `json:"wa_id" validate:"required"`
	ContactKey  string `json:"contact_key" validate:"required"`
	ProfileName string `json:"profile_name,omitempty"`
}

// Message is the inbound message carried by the event.
type Message struct {
	MessageID   string          `json:"message_id" validate:"required"`
	Timestamp   string          `json:"timestamp" validate:"required"`
	Type        string          `json:"type" validate:"required"`
	Text        *Text           `json:"text,omitempty"`
	Interactive json.RawMessage `json:"interactive,omitempty"`
	Media       json.RawMessage `json:"media,omitempty"`
	Raw         json.RawMessage `json:"raw" validate:"required"`
}

// Text is the body of a text message.
type Text struct {
	Body string `json:"body"`
}

// UnmarshalJSON accepts "wamid" as an alias of "message_id".
func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	var aux struct {
		plain
		Wamid string `json:"wamid"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Message(aux.plain)
	if m.MessageID == "" {
		m.MessageID = aux.Wamid
	}
	return nil
}

// Outcome is the terminal state of one ingestion.
type Outcome int

const (
	// OutcomeCommitted means this call recorded the message.
	OutcomeCommitted Outcome = iota
	// OutcomeShortCircuit means the message already existed before any write.
	OutcomeShortCircuit
	// OutcomeRaceRecovered means a concurrent ingestion claimed the message id first
	// and this call's unit of work was discarded.
	OutcomeRaceRecovered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeShortCircuit:
		return "deduped"
	case OutcomeRaceRecovered:
		return "race_recovered"
	default:
		return "unknown"
	}
}

// Result describes what an ingestion did. The identifiers are set only when
// Outcome is OutcomeCommitted.
type Result struct {
	Outcome        Outcome
	TenantID       string
	ContactID      string
	ConversationID string
	MessageID      string
	Timestamp      time.Time
	// Existing is the message that won the race, when it could be read back.
	Existing *message.Message
}

// Deduped reports whether the event had already been processed.
func (r Result) Deduped() bool {
	return r.Outcome != OutcomeCommitted
}
