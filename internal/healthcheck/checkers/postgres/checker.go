package postgreschecker

import (
	"context"
	"log/slog"
	"time"

	"github.com/waledger/waledger/internal/healthcheck"
)

const (
	checkTypeDBConnection = "db.connection"
	// Engine is reported alongside a successful connection check.
	Engine = "postgresql"

	defaultTimeout = 3 * time.Second
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker evaluates store connectivity.
type Checker struct {
	logger   *slog.Logger
	pinger   Pinger
	database string
	timeout  time.Duration
}

// NewChecker creates a postgres health checker for the named database.
func NewChecker(log *slog.Logger, pinger Pinger, database string) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger:   log.With(slog.String("checker", "healthcheck_postgres")),
		pinger:   pinger,
		database: database,
		timeout:  defaultTimeout,
	}
}

// ListChecks pings the database once.
func (c *Checker) ListChecks(ctx context.Context) []healthcheck.CheckResult {
	item := healthcheck.CheckResult{
		ID:     checkTypeDBConnection,
		Type:   checkTypeDBConnection,
		Status: healthcheck.StatusError,
		Metadata: map[string]any{
			"engine": Engine,
			"name":   c.database,
		},
	}
	if c.pinger == nil {
		item.Summary = "Database is not configured."
		item.Detail = "postgres pool is nil"
		return []healthcheck.CheckResult{item}
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.pinger.Ping(pingCtx); err != nil {
		c.logger.Warn("postgres ping failed", slog.Any("error", err))
		item.Summary = "Database is unreachable."
		item.Detail = err.Error()
		return []healthcheck.CheckResult{item}
	}
	item.Status = healthcheck.StatusOK
	item.Summary = "Database is reachable."
	return []healthcheck.CheckResult{item}
}
