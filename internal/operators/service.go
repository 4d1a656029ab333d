package operators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/waledger/waledger/internal/config"
	"github.com/waledger/waledger/internal/db"
	"github.com/waledger/waledger/internal/db/sqlc"
)

// Service creates and authenticates operators.
type Service struct {
	queries sqlc.Querier
	logger  *slog.Logger
	cost    int
}

// NewService creates an operator service.
func NewService(log *slog.Logger, queries sqlc.Querier) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "operators")),
		cost:    bcrypt.DefaultCost,
	}
}

// Create stores a new active operator with a bcrypt password hash.
func (s *Service) Create(ctx context.Context, username, password string) (Operator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Operator{}, ErrUsernameRequired
	}
	if strings.TrimSpace(password) == "" {
		return Operator{}, ErrPasswordRequired
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return Operator{}, fmt.Errorf("hash password: %w", err)
	}
	row, err := s.queries.CreateOperator(ctx, sqlc.CreateOperatorParams{
		Username:     username,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Operator{}, ErrUsernameTaken
		}
		return Operator{}, fmt.Errorf("create operator: %w", err)
	}
	return toOperator(row), nil
}

// Authenticate returns the operator whose username and password match.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Operator, error) {
	row, err := s.queries.GetOperatorByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Operator{}, ErrInvalidCredentials
		}
		return Operator{}, fmt.Errorf("get operator: %w", err)
	}
	if !row.IsActive {
		return Operator{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return Operator{}, ErrInvalidCredentials
	}
	return toOperator(row), nil
}

// EnsureDefault creates the configured admin operator when no operator exists yet.
func (s *Service) EnsureDefault(ctx context.Context, admin config.AdminConfig) (bool, error) {
	count, err := s.queries.CountOperators(ctx)
	if err != nil {
		return false, fmt.Errorf("count operators: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	username := strings.TrimSpace(admin.Username)
	password := strings.TrimSpace(admin.Password)
	if username == "" || password == "" {
		return false, fmt.Errorf("admin username/password required in config.toml")
	}
	if password == config.DefaultAdminPassword {
		s.logger.Warn("admin password uses default placeholder; please update config.toml")
	}
	op, err := s.Create(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("admin operator created", slog.String("username", op.Username))
	return true, nil
}

func toOperator(row sqlc.Operator) Operator {
	return Operator{
		ID:        db.UUIDString(row.ID),
		Username:  row.Username,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt.Time,
	}
}
