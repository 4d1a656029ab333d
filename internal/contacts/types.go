package contacts

import (
	"errors"
	"time"
)

// ErrContactKeyRequired is returned when an event names no contact.
var ErrContactKeyRequired = errors.New("contact key is required")

// Contact is a tenant-scoped end user, keyed by ContactKey (e.g. "wa:5493511111111").
type Contact struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	ContactKey   string    `json:"contact_key"`
	WaID         string    `json:"wa_id,omitempty"`
	PhoneE164    string    `json:"phone_e164,omitempty"`
	ProfileName  string    `json:"profile_name,omitempty"`
	CrmContactID string    `json:"crm_contact_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpsertInput carries the profile attributes seen on one inbound event.
// Blank optional fields mean "not provided".
type UpsertInput struct {
	TenantID    string
	ContactKey  string
	WaID        string
	ProfileName string
}

// UpsertResult reports whether the contact was created or had its profile changed.
type UpsertResult struct {
	Contact Contact
	Created bool
	Updated bool
}
