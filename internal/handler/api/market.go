package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"StockSquad/internal/domain/models"
	domrepo "StockSquad/internal/domain/repository"
	xhttp "StockSquad/pkg/http"
	xlogger "StockSquad/pkg/logger"
)

// MarketHandler serves quote, historical and fundamentals lookups
// through the cached market-data gateway.
type MarketHandler struct {
	logger *xlogger.Logger
	market domrepo.MarketData
}

// NewMarketHandler wires the market routes.
func NewMarketHandler(logger *xlogger.Logger, market domrepo.MarketData) *MarketHandler {
	return &MarketHandler{logger: logger, market: market}
}

// RegisterRoutes implements xhttp.Handler.
func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/quote/:symbol", h.Quote)
	g.GET("/historical/:symbol", h.Historical)
	g.GET("/fundamentals/:symbol", h.Fundamentals)
}

// Quote handles GET /api/quote/:symbol.
func (h *MarketHandler) Quote(c echo.Context) error {
	req := &models.GetQuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	q, err := h.market.GetQuote(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Warn("quote lookup failed",
			xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, q)
}

// Historical handles GET /api/historical/:symbol?range=1M or start/end.
func (h *MarketHandler) Historical(c echo.Context) error {
	req := &models.GetHistoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r, err := domrepo.ResolveRange(req.Range, req.Start, req.End, time.Now())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}

	points, err := h.market.GetHistorical(c.Request().Context(), req.Symbol, r)
	if err != nil {
		h.logger.Warn("historical lookup failed",
			xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, points)
}

// Fundamentals handles GET /api/fundamentals/:symbol.
func (h *MarketHandler) Fundamentals(c echo.Context) error {
	req := &models.GetQuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	f, err := h.market.GetFundamentals(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Warn("fundamentals lookup failed",
			xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, f)
}
