package handlers

import (
	"droppay/internal/services/reward"
	"droppay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type RewardHandler struct {
	rewardService reward.Service
}

func NewRewardHandler(rewardSvc reward.Service) *RewardHandler {
	return &RewardHandler{rewardService: rewardSvc}
}

func (h *RewardHandler) Verify(c *fiber.Ctx) error {
	var req reward.VerifyRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	result, err := h.rewardService.Verify(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
