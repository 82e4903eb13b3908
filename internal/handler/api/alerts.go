package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"StockSquad/internal/domain/models"
	domrepo "StockSquad/internal/domain/repository"
	xhttp "StockSquad/pkg/http"
	xlogger "StockSquad/pkg/logger"
)

// AlertHandler serves price-alert CRUD.
type AlertHandler struct {
	logger *xlogger.Logger
	store  domrepo.AlertStore
}

// NewAlertHandler wires the alert routes.
func NewAlertHandler(logger *xlogger.Logger, store domrepo.AlertStore) *AlertHandler {
	return &AlertHandler{logger: logger, store: store}
}

// RegisterRoutes implements xhttp.Handler.
func (h *AlertHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/alerts")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.DELETE("/:id", h.Delete)
}

// Create handles POST /api/alerts.
func (h *AlertHandler) Create(c echo.Context) error {
	req := &models.CreateAlertRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	a := &models.Alert{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Symbol:    req.Symbol,
		Direction: req.Direction,
		Threshold: req.Threshold,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.Create(c.Request().Context(), a); err != nil {
		h.logger.Error("alert create failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.CreatedResponse(c, a)
}

// List handles GET /api/alerts?userId=...
func (h *AlertHandler) List(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("userId is required"))
	}

	alerts, err := h.store.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.ListResponse(c, alerts, int64(len(alerts)))
}

// Delete handles DELETE /api/alerts/:id.
func (h *AlertHandler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.NoContentResponse(c)
}
