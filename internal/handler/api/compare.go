package api

import (
	"github.com/labstack/echo/v4"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/usecase"
	xhttp "StockSquad/pkg/http"
	xlogger "StockSquad/pkg/logger"
)

// CompareHandler serves multi-participant comparisons.
type CompareHandler struct {
	logger     *xlogger.Logger
	comparator *usecase.Comparator
}

// NewCompareHandler wires the compare route.
func NewCompareHandler(logger *xlogger.Logger, comparator *usecase.Comparator) *CompareHandler {
	return &CompareHandler{logger: logger, comparator: comparator}
}

// RegisterRoutes implements xhttp.Handler.
func (h *CompareHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/compare", h.Compare)
}

// Compare handles POST /api/compare.
func (h *CompareHandler) Compare(c echo.Context) error {
	req := &models.CompareRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := h.comparator.Compare(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("comparison failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	return xhttp.SuccessResponse(c, out)
}
