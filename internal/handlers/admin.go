package handlers

import (
	"droppay/internal/services/merchant"
	"droppay/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	merchantService *merchant.Service
}

func NewAdminHandler(merchantSvc *merchant.Service) *AdminHandler {
	return &AdminHandler{merchantService: merchantSvc}
}

func (h *AdminHandler) ListMerchants(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	merchants, total, err := h.merchantService.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, merchants))
}
