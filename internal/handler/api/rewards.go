package api

import (
	"github.com/labstack/echo/v4"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/usecase"
	xhttp "StockSquad/pkg/http"
	xlogger "StockSquad/pkg/logger"
)

// RewardsHandler serves the daily check-in claim.
type RewardsHandler struct {
	logger  *xlogger.Logger
	rewards *usecase.RewardService
}

// NewRewardsHandler wires the rewards route.
func NewRewardsHandler(logger *xlogger.Logger, rewards *usecase.RewardService) *RewardsHandler {
	return &RewardsHandler{logger: logger, rewards: rewards}
}

// RegisterRoutes implements xhttp.Handler.
func (h *RewardsHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/rewards/claim", h.Claim)
}

// Claim handles POST /api/rewards/claim.
func (h *RewardsHandler) Claim(c echo.Context) error {
	req := &models.ClaimRewardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	claim, err := h.rewards.Claim(c.Request().Context(), req.UserID)
	if err != nil {
		h.logger.Error("reward claim failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapError(err))
	}
	return xhttp.SuccessResponse(c, claim)
}
