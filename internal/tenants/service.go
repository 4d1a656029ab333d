package tenants

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
)

// Resolver maps external tenant identifiers to tenant rows.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a tenant resolver.
func NewResolver(log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{logger: log.With(slog.String("service", "tenants"))}
}

// Resolve finds the tenant named name, creating it on first sight. Concurrent
// first-sight calls converge on one row: the insert is conflict-tolerant and the
// loser re-reads the winner's row.
func (r *Resolver) Resolve(ctx context.Context, q sqlc.Querier, name string) (Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tenant{}, ErrNameRequired
	}
	row, err := q.GetTenantByName(ctx, name)
	if err == nil {
		return toTenant(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, fmt.Errorf("get tenant: %w", err)
	}

	row, err = q.CreateTenantIfAbsent(ctx, name)
	if err == nil {
		r.logger.Info("tenant created", slog.String("tenant", name), slog.String("tenant_id", db.UUIDString(row.ID)))
		return toTenant(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, fmt.Errorf("create tenant: %w", err)
	}

	row, err = q.GetTenantByName(ctx, name)
	if err != nil {
		return Tenant{}, fmt.Errorf("get tenant after conflict: %w", err)
	}
	return toTenant(row), nil
}

// Lookup finds an existing tenant without creating one.
func (r *Resolver) Lookup(ctx context.Context, q sqlc.Querier, name string) (Tenant, bool, error) {
	row, err := q.GetTenantByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, false, nil
	}
	if err != nil {
		return Tenant{}, false, fmt.Errorf("get tenant: %w", err)
	}
	return toTenant(row), true, nil
}

func toTenant(row sqlc.Tenant) Tenant {
	return Tenant{
		ID:        db.UUIDString(row.ID),
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
	}
}
