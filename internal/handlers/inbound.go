package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/waledger/waledger/internal/config"
	"github.com/waledger/waledger/internal/ingest"
	"github.com/waledger/waledger/internal/message"
)

// Ingester is the ingestion pipeline as seen by the HTTP layer.
type Ingester interface {
	Ingest(ctx context.Context, ev ingest.Event) (ingest.Result, error)
	RecentMessages(ctx context.Context, tenantName string, limit int) ([]message.LogEntry, error)
}

// InboundHandler serves the inbound webhook and its log.
type InboundHandler struct {
	ingester Ingester
	cfg      config.IngestConfig
	logger   *slog.Logger
}

// InboundResponse is the body returned for an accepted event.
type InboundResponse struct {
	OK             bool   `json:"ok"`
	Deduped        bool   `json:"deduped"`
	Tenant         string `json:"tenant,omitempty"`
	ContactID      string `json:"contact_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	MessageID      string `json:"message_id,omitempty"`
}

// ErrorResponse is the body returned for a refused event.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// MessageLogResponse wraps a page of the message log.
type MessageLogResponse struct {
	Items []message.LogEntry `json:"items"`
}

// NewInboundHandler creates an InboundHandler.
func NewInboundHandler(log *slog.Logger, ingester Ingester, cfg config.IngestConfig) *InboundHandler {
	return &InboundHandler{
		ingester: ingester,
		cfg:      cfg,
		logger:   log.With(slog.String("handler", "inbound")),
	}
}

// Register registers the inbound routes.
func (h *InboundHandler) Register(e *echo.Echo) {
	e.POST("/v1/whatsapp/inbound", h.Inbound)
	e.GET("/v1/whatsapp/inbound/logs", h.Logs)
}

// Inbound godoc
// @Summary Ingest an inbound message event
// @Description Record one normalized event exactly once per tenant and message id. Redeliveries return deduped=true.
// @Tags inbound
// @Accept json
// @Produce json
// @Param payload body ingest.Event true "Normalized inbound event"
// @Success 200 {object} InboundResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/whatsapp/inbound [post]
func (h *InboundHandler) Inbound(c echo.Context) error {
	var ev ingest.Event
	if err := c.Bind(&ev); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&ev); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	res, err := h.ingester.Ingest(c.Request().Context(), ev)
	if err != nil {
		if ingest.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("ingest failed",
			slog.String("tenant", ev.TenantID),
			slog.String("trace_id", ev.TraceID),
			slog.Any("error", err),
		)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	if res.Deduped() {
		return c.JSON(http.StatusOK, InboundResponse{OK: true, Deduped: true})
	}
	return c.JSON(http.StatusOK, InboundResponse{
		OK:             true,
		Tenant:         res.TenantID,
		ContactID:      res.ContactID,
		ConversationID: res.ConversationID,
		MessageID:      res.MessageID,
	})
}

// Logs godoc
// @Summary List recent inbound messages
// @Description List messages newest first, optionally for one tenant
// @Tags inbound
// @Produce json
// @Param tenant_id query string false "Tenant name"
// @Param limit query int false "Limit"
// @Success 200 {object} MessageLogResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /v1/whatsapp/inbound/logs [get]
func (h *InboundHandler) Logs(c echo.Context) error {
	limit := h.cfg.LogsDefaultLimit
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = parsed
	}
	limit = message.ClampLimit(limit, h.cfg.LogsMaxLimit)

	items, err := h.ingester.RecentMessages(c.Request().Context(), c.QueryParam("tenant_id"), limit)
	if err != nil {
		h.logger.Error("list message log failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if items == nil {
		items = []message.LogEntry{}
	}
	return c.JSON(http.StatusOK, MessageLogResponse{Items: items})
}
