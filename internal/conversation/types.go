// Package conversation tracks the active conversation between a tenant and a contact.
package conversation

import (
	"time"
)

// Conversation status constants.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Conversation is a bounded session of message exchange with one contact.
type Conversation struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	ContactID string     `json:"contact_id"`
	Status    string     `json:"status"`
	OpenedAt  time.Time  `json:"opened_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// EnsureResult is the authoritative active conversation and whether it was just opened.
type EnsureResult struct {
	Conversation Conversation
	Opened       bool
}
