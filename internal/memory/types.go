// Package memory maintains the per-contact memory record. Only the activity
// timestamps are written here; the remaining fields belong to downstream consumers.
package memory

import (
	"encoding/json"
	"time"
)

// Record is the per-(tenant, contact) memory row.
type Record struct {
	TenantID              string          `json:"tenant_id"`
	ContactID             string          `json:"contact_id"`
	Summary               string          `json:"summary"`
	Facts                 json.RawMessage `json:"facts"`
	ActivePrimaryEvent    string          `json:"active_primary_event,omitempty"`
	ActiveSecondaryEvents json.RawMessage `json:"active_secondary_events"`
	RecentEvents          json.RawMessage `json:"recent_events"`
	Scores                json.RawMessage `json:"scores"`
	LastUserMessageAt     *time.Time      `json:"last_user_message_at,omitempty"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
