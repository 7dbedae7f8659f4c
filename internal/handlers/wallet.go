package handlers

import (
	"droppay/internal/middleware"
	"droppay/internal/services/wallet"
	"droppay/internal/utils/pagination"
	"droppay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletSvc wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletSvc}
}

type withdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	w, err := h.walletService.Withdraw(c.UserContext(), middleware.MerchantID(c), req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return response.Created(c, w)
}

func (h *WalletHandler) ListWithdrawals(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	items, total, err := h.walletService.ListWithdrawals(c.UserContext(), middleware.MerchantID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, items))
}
