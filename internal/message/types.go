// Package message records inbound messages exactly once per tenant and message id.
package message

import (
	"encoding/json"
	"time"
)

// Direction values stored on a message row.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// UniqueConstraint is the store constraint that makes (tenant, message_id) the idempotency key.
const UniqueConstraint = "messages_tenant_message_id_key"

// Log page size bounds.
const (
	DefaultLogLimit = 50
	MaxLogLimit     = 200
)

// Message is one persisted unit of communication.
type Message struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenant_id"`
	ConversationID string          `json:"conversation_id"`
	ContactID      string          `json:"contact_id"`
	Direction      string          `json:"direction"`
	Channel        string          `json:"channel"`
	MessageID      string          `json:"message_id"`
	Timestamp      time.Time       `json:"timestamp"`
	Type           string          `json:"type"`
	TextBody       string          `json:"text_body,omitempty"`
	Payload        json.RawMessage `json:"payload_json"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Payload is the archived bundle stored in payload_json.
type Payload struct {
	Metadata    map[string]any `json:"metadata"`
	MessageRaw  json.RawMessage `json:"message_raw"`
	Referral    json.RawMessage `json:"referral"`
	ValueRaw    json.RawMessage `json:"value_raw"`
	TraceID     string          `json:"trace_id"`
	Interactive json.RawMessage `json:"interactive,omitempty"`
	Media       json.RawMessage `json:"media,omitempty"`
}

// RecordInput is the data needed to record an inbound message.
type RecordInput struct {
	TenantID       string
	ConversationID string
	ContactID      string
	Channel        string
	MessageID      string
	Timestamp      time.Time
	Type           string
	TextBody       string
	Payload        Payload
}

// RecordStatus tags how a Record call ended.
type RecordStatus int

const (
	// Recorded means this call inserted the message row.
	Recorded RecordStatus = iota
	// Duplicate means a concurrent insert already claimed the message id.
	Duplicate
)

func (s RecordStatus) String() string {
	switch s {
	case Recorded:
		return "recorded"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// RecordResult carries the inserted message when Status is Recorded.
type RecordResult struct {
	Status  RecordStatus
	Message Message
}

// LogEntry is one row of the recent-messages log.
type LogEntry struct {
	Tenant     string    `json:"tenant"`
	ContactKey string    `json:"contact_key"`
	MessageID  string    `json:"message_id"`
	Timestamp  time.Time `json:"timestamp"`
	Type       string    `json:"type"`
	TextBody   *string   `json:"text_body"`
	Channel    string    `json:"channel"`
}
