package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadwireai/leadwire/internal/rag"
	"github.com/leadwireai/leadwire/internal/tenant"
)

// RagQueryRequest is one knowledge-base question. Exactly which store answers
// it is resolved server-side from playbook_name, rag_alias, or data_store_id.
type RagQueryRequest struct {
	TenantID           string `json:"tenant_id" validate:"required"`
	Query              string `json:"query" validate:"required"`
	PlaybookName       string `json:"playbook_name"`
	RagAlias           string `json:"rag_alias"`
	DataStoreID        string `json:"data_store_id"`
	SummaryResultCount int    `json:"summary_result_count"`
	IncludeCitations   bool   `json:"include_citations"`
}

type RagQueryResponse struct {
	Summary   string         `json:"summary"`
	Citations []rag.Citation `json:"citations,omitempty"`
}

// RagHandler handles knowledge-base query endpoints.
type RagHandler struct {
	service *rag.Service
	logger  *slog.Logger
}

func NewRagHandler(log *slog.Logger, service *rag.Service) *RagHandler {
	return &RagHandler{
		service: service,
		logger:  log.With(slog.String("handler", "rag")),
	}
}

func (h *RagHandler) Register(e *echo.Echo) {
	e.POST("/v1/rag/query", h.Query)
}

func (h *RagHandler) Query(c echo.Context) error {
	var req RagQueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.RunQuery(c.Request().Context(), rag.QueryRequest{
		TenantID:           req.TenantID,
		Query:              req.Query,
		PlaybookName:       req.PlaybookName,
		Alias:              req.RagAlias,
		DataStoreID:        req.DataStoreID,
		SummaryResultCount: req.SummaryResultCount,
		IncludeCitations:   req.IncludeCitations,
	})
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrUnauthorized):
			return echo.NewHTTPError(http.StatusForbidden, "data store not available to tenant")
		case errors.Is(err, tenant.ErrNotFound), errors.Is(err, rag.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, rag.ErrConfiguration):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("rag query failed",
				slog.String("tenant_id", req.TenantID),
				slog.Any("error", err),
			)
			return echo.NewHTTPError(http.StatusInternalServerError, "rag query failed")
		}
	}

	return c.JSON(http.StatusOK, RagQueryResponse{
		Summary:   result.Summary,
		Citations: result.Citations,
	})
}
