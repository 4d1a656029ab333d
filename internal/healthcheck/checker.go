package healthcheck

import "context"

// Status grades a single check.
type Status string

const (
	StatusOK    Status = "ok"
	StatusWarn  Status = "warn"
	StatusError Status = "error"
)

// Failed reports whether s should mark the service unhealthy. A warning does not.
func (s Status) Failed() bool {
	return s == StatusError
}

// CheckResult describes one probed dependency. Metadata carries details a
// caller may surface, such as the database engine and name.
type CheckResult struct {
	ID       string
	Type     string
	Status   Status
	Summary  string
	Detail   string
	Metadata map[string]any
}

// Checker reports on the dependencies it owns.
type Checker interface {
	ListChecks(ctx context.Context) []CheckResult
}
