package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/waledger/waledger/internal/auth"
	"github.com/waledger/waledger/internal/operators"
)

// Authenticator verifies operator credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (operators.Operator, error)
}

type AuthHandler struct {
	authenticator Authenticator
	jwtSecret     string
	expiresIn     time.Duration
	logger        *slog.Logger
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username,omitempty"`
}

func NewAuthHandler(log *slog.Logger, authenticator Authenticator, jwtSecret string, expiresIn time.Duration) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		jwtSecret:     jwtSecret,
		expiresIn:     expiresIn,
		logger:        log.With(slog.String("handler", "auth")),
	}
}

func (h *AuthHandler) Register(e *echo.Echo) {
	e.POST("/auth/login", h.Login)
	e.POST("/auth/refresh", h.Refresh)
}

// Login godoc
// @Summary Operator login
// @Description Exchange operator credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	op, err := h.authenticator.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, operators.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		h.logger.Error("authenticate failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	token, expiresAt, err := auth.GenerateToken(op.ID, h.jwtSecret, h.expiresIn)
	if err != nil {
		h.logger.Error("generate token failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    op.Username,
	})
}

// Refresh godoc
// @Summary Refresh an operator token
// @Description Issue a new token with the lifetime of the presented one
// @Tags auth
// @Produce json
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token, expiresAt, err := auth.RefreshTokenFromContext(c, h.jwtSecret, h.expiresIn)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}
