// Package auth issues and verifies operator bearer tokens.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	claimSubject    = "sub"
	claimOperatorID = "operator_id"
	claimIssuedAt   = "iat"
	claimExpiresAt  = "exp"

	contextKey = "user"
)

// JWTMiddleware returns a JWT auth middleware configured for HS256 tokens.
func JWTMiddleware(secret string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		TokenLookup:   "header:Authorization:Bearer ",
		ContextKey:    contextKey,
		Skipper:       skipper,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
	})
}

// OperatorIDFromContext extracts the operator id from JWT claims.
func OperatorIDFromContext(c echo.Context) (string, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return "", err
	}
	if id := claimString(claims, claimOperatorID); id != "" {
		return id, nil
	}
	if id := claimString(claims, claimSubject); id != "" {
		return id, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "operator id missing")
}

// GenerateToken creates a signed JWT for the operator.
func GenerateToken(operatorID, secret string, expiresIn time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(operatorID) == "" {
		return "", time.Time{}, fmt.Errorf("operator id is required")
	}
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, fmt.Errorf("jwt secret is required")
	}
	if expiresIn <= 0 {
		return "", time.Time{}, fmt.Errorf("jwt expires in must be positive")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(expiresIn)
	claims := jwt.MapClaims{
		claimSubject:    operatorID,
		claimOperatorID: operatorID,
		claimIssuedAt:   now.Unix(),
		claimExpiresAt:  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// RefreshTokenFromContext issues a new token for the operator in the current
// token, keeping the current token's lifetime. defaultDuration is used when that
// lifetime cannot be read.
func RefreshTokenFromContext(c echo.Context, secret string, defaultDuration time.Duration) (string, time.Time, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return "", time.Time{}, err
	}
	operatorID := claimString(claims, claimOperatorID)
	if operatorID == "" {
		operatorID = claimString(claims, claimSubject)
	}
	if operatorID == "" {
		return "", time.Time{}, echo.NewHTTPError(http.StatusUnauthorized, "operator id missing")
	}

	duration := defaultDuration
	iat, iatErr := claims.GetIssuedAt()
	exp, expErr := claims.GetExpirationTime()
	if iatErr == nil && expErr == nil && iat != nil && exp != nil {
		if lifetime := exp.Sub(iat.Time); lifetime > 0 {
			duration = lifetime
		}
	}
	return GenerateToken(operatorID, secret, duration)
}

func claimsFromContext(c echo.Context) (jwt.MapClaims, error) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok || token == nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	raw, ok := claims[key]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(raw)
	}
}
