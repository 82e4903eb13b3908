package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"StockSquad/internal/domain/models"
	domrepo "StockSquad/internal/domain/repository"
	"StockSquad/internal/usecase"
	xhttp "StockSquad/pkg/http"
	xlogger "StockSquad/pkg/logger"
)

// PortfolioHandler serves squad CRUD and the per-portfolio series view.
type PortfolioHandler struct {
	logger  *xlogger.Logger
	store   domrepo.PortfolioStore
	builder *usecase.SeriesBuilder
}

// NewPortfolioHandler wires the portfolio routes.
func NewPortfolioHandler(logger *xlogger.Logger, store domrepo.PortfolioStore, builder *usecase.SeriesBuilder) *PortfolioHandler {
	return &PortfolioHandler{logger: logger, store: store, builder: builder}
}

// RegisterRoutes implements xhttp.Handler.
func (h *PortfolioHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/portfolios")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/series", h.Series)
}

// Create handles POST /api/portfolios.
func (h *PortfolioHandler) Create(c echo.Context) error {
	req := &models.CreatePortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	p := &models.Portfolio{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Name:      req.Name,
		Formation: req.Formation,
		Holdings:  req.Holdings,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.Create(c.Request().Context(), p); err != nil {
		h.logger.Error("portfolio create failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.CreatedResponse(c, p)
}

// List handles GET /api/portfolios?userId=...
func (h *PortfolioHandler) List(c echo.Context) error {
	userID := c.QueryParam("userId")
	if userID == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("userId is required"))
	}

	portfolios, err := h.store.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.ListResponse(c, portfolios, int64(len(portfolios)))
}

// Get handles GET /api/portfolios/:id.
func (h *PortfolioHandler) Get(c echo.Context) error {
	p, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, p)
}

// Update handles PUT /api/portfolios/:id.
func (h *PortfolioHandler) Update(c echo.Context) error {
	req := &models.CreatePortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	existing, err := h.store.GetByID(ctx, c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}

	existing.Name = req.Name
	existing.Formation = req.Formation
	existing.Holdings = req.Holdings
	existing.UpdatedAt = time.Now().UTC()
	if err := h.store.Update(ctx, existing); err != nil {
		h.logger.Error("portfolio update failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, existing)
}

// Delete handles DELETE /api/portfolios/:id.
func (h *PortfolioHandler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.NoContentResponse(c)
}

// Series handles GET /api/portfolios/:id/series?range=1M.
func (h *PortfolioHandler) Series(c echo.Context) error {
	req := &models.PortfolioSeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r, err := domrepo.ResolveRange(req.Range, req.Start, req.End, time.Now())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}

	ctx := c.Request().Context()
	p, err := h.store.GetByID(ctx, req.ID)
	if err != nil {
		return xhttp.AppErrorResponse(c, mapError(err))
	}

	series, dropped := h.builder.Build(ctx, p.Holdings, r)
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"portfolioId": p.ID,
		"range":       r.Label,
		"series":      series,
		"dropped":     dropped,
	})
}
