package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newContext() echo.Context {
	return echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
}

func parse(t *testing.T, signed string) *jwt.Token {
	t.Helper()
	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	return token
}

func lifetime(t *testing.T, token *jwt.Token) time.Duration {
	t.Helper()
	claims := token.Claims.(jwt.MapClaims)
	iat, err := claims.GetIssuedAt()
	require.NoError(t, err)
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	return exp.Sub(iat.Time)
}

func TestRefreshKeepsLifetime(t *testing.T) {
	c := newContext()
	signed, _, err := GenerateToken("op-123", testSecret, 5*time.Minute)
	require.NoError(t, err)
	c.Set(contextKey, parse(t, signed))

	refreshed, expiresAt, err := RefreshTokenFromContext(c, testSecret, time.Hour)
	require.NoError(t, err)

	token := parse(t, refreshed)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "op-123", claims[claimSubject])
	assert.Equal(t, "op-123", claims[claimOperatorID])
	assert.Equal(t, 5*time.Minute, lifetime(t, token))

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, expiresAt.Unix(), exp.Unix())
}

func TestRefreshFallsBackToDefaultDuration(t *testing.T) {
	c := newContext()
	bare := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{claimOperatorID: "op-9"})
	signed, err := bare.SignedString([]byte(testSecret))
	require.NoError(t, err)
	c.Set(contextKey, parse(t, signed))

	refreshed, _, err := RefreshTokenFromContext(c, testSecret, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, lifetime(t, parse(t, refreshed)))
}

func TestRefreshWithoutToken(t *testing.T) {
	_, _, err := RefreshTokenFromContext(newContext(), testSecret, time.Hour)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestOperatorIDFromContext(t *testing.T) {
	c := newContext()
	signed, expiresAt, err := GenerateToken("op-1", testSecret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
	c.Set(contextKey, parse(t, signed))

	id, err := OperatorIDFromContext(c)
	assert.NoError(t, err)
	assert.Equal(t, "op-1", id)
}

func TestGenerateTokenRejectsBadInput(t *testing.T) {
	_, _, err := GenerateToken("", "secret", time.Hour)
	assert.Error(t, err)
	_, _, err = GenerateToken("op-1", " ", time.Hour)
	assert.Error(t, err)
	_, _, err = GenerateToken("op-1", "secret", 0)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(JWTMiddleware("s3cret", func(c echo.Context) bool {
		return c.Request().URL.Path == "/open"
	}))
	e.GET("/open", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/closed", func(c echo.Context) error {
		id, err := OperatorIDFromContext(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, id)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/closed", nil))
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusUnauthorized}, rec.Code)

	bad, _, err := GenerateToken("op-7", "other-secret", time.Minute)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.Header.Set("Authorization", "Bearer "+bad)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	signed, _, err := GenerateToken("op-7", "s3cret", time.Minute)
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "op-7", rec.Body.String())
}
