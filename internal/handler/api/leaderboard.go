package api

import (
	"github.com/labstack/echo/v4"

	"StockSquad/internal/domain/models"
	domrepo "StockSquad/internal/domain/repository"
	xhttp "StockSquad/pkg/http"
	xlogger "StockSquad/pkg/logger"
)

// LeaderboardHandler serves ranked portfolio snapshots.
type LeaderboardHandler struct {
	logger    *xlogger.Logger
	snapshots domrepo.SnapshotStore
}

// NewLeaderboardHandler wires the leaderboard route.
func NewLeaderboardHandler(logger *xlogger.Logger, snapshots domrepo.SnapshotStore) *LeaderboardHandler {
	return &LeaderboardHandler{logger: logger, snapshots: snapshots}
}

// RegisterRoutes implements xhttp.Handler.
func (h *LeaderboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/leaderboard", h.Top)
}

// Top handles GET /api/leaderboard?range=1M&limit=20.
func (h *LeaderboardHandler) Top(c echo.Context) error {
	req := &models.LeaderboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	entries, err := h.snapshots.TopByReturn(c.Request().Context(), req.Range, req.Limit)
	if err != nil {
		h.logger.Warn("leaderboard query failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}
