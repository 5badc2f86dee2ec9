package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadwireai/leadwire/internal/playbook"
	"github.com/leadwireai/leadwire/internal/routing"
	"github.com/leadwireai/leadwire/internal/tenant"
)

// RouteMessageRequest is the inbound message envelope.
type RouteMessageRequest struct {
	TenantID  string `json:"tenant_id" validate:"required"`
	ChannelID string `json:"channel_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

// RouteMessageResponse is returned when the pipeline produced agent replies.
type RouteMessageResponse struct {
	FunnelID string   `json:"funnel_id"`
	Replies  []string `json:"replies"`
}

// MessageHandler handles inbound-message routing.
type MessageHandler struct {
	pipeline *routing.Pipeline
	logger   *slog.Logger
}

func NewMessageHandler(log *slog.Logger, pipeline *routing.Pipeline) *MessageHandler {
	return &MessageHandler{
		pipeline: pipeline,
		logger:   log.With(slog.String("handler", "message")),
	}
}

func (h *MessageHandler) Register(e *echo.Echo) {
	e.POST("/v1/messages/route", h.RouteMessage)
}

// RouteMessage runs the resolution pipeline for one message. A deliberate
// no-reply outcome (inactive playbook, rejected unknown contact) is 204, not
// an error.
func (h *MessageHandler) RouteMessage(c echo.Context) error {
	var req RouteMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.pipeline.Route(c.Request().Context(), routing.RouteRequest{
		TenantID:  req.TenantID,
		ChannelID: req.ChannelID,
		UserID:    req.UserID,
		Text:      req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "tenant not found")
		case errors.Is(err, playbook.ErrConfiguration):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("route message failed",
				slog.String("tenant_id", req.TenantID),
				slog.Any("error", err),
			)
			return echo.NewHTTPError(http.StatusInternalServerError, "message routing failed")
		}
	}
	if !result.Matched {
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, RouteMessageResponse{
		FunnelID: result.FunnelID,
		Replies:  result.Replies,
	})
}
