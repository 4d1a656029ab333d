package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waledger/waledger/internal/healthcheck"
)

type PingHandler struct {
	logger  *slog.Logger
	checker healthcheck.Checker
}

func NewPingHandler(log *slog.Logger, checker healthcheck.Checker) *PingHandler {
	return &PingHandler{
		logger:  log.With(slog.String("handler", "ping")),
		checker: checker,
	}
}

func (h *PingHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.GET("/health", h.Health)
	e.HEAD("/health", h.PingHead)
	e.GET("/health/db", h.HealthDB)
}

// Ping godoc
// @Summary Ping
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *PingHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *PingHandler) PingHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /health [get]
func (h *PingHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// HealthDB godoc
// @Summary Database health
// @Description Report whether the database answers, with its engine and name
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /health/db [get]
func (h *PingHandler) HealthDB(c echo.Context) error {
	results := healthcheck.Run(c.Request().Context(), h.checker)
	if len(results) == 0 {
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"db_ok": false,
			"error": "database checker is not configured",
		})
	}
	if !healthcheck.Healthy(results) {
		detail := results[0].Detail
		if detail == "" {
			detail = results[0].Summary
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"db_ok": false,
			"error": detail,
		})
	}
	resp := map[string]any{"db_ok": true}
	for _, key := range []string{"engine", "name"} {
		if v, ok := results[0].Metadata[key]; ok {
			resp[key] = v
		}
	}
	return c.JSON(http.StatusOK, resp)
}
