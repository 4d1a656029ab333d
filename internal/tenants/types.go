package tenants

import (
	"errors"
	"time"
)

// ErrNameRequired is returned when the external tenant identifier is blank.
var ErrNameRequired = errors.New("tenant name is required")

// Tenant is an isolated account boundary, keyed externally by Name.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
