package handlers

import (
	"droppay/internal/middleware"
	"droppay/internal/services/payment"
	"droppay/internal/utils/pagination"
	"droppay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentSvc payment.Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentSvc,
	}
}

// Approve handles POST /api/payments/approve. The Pi API response is
// returned verbatim.
func (h *PaymentHandler) Approve(c *fiber.Ctx) error {
	var req payment.ApproveRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	raw, err := h.paymentService.Approve(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return response.Raw(c, fiber.StatusOK, raw)
}

func (h *PaymentHandler) Complete(c *fiber.Ctx) error {
	var req payment.CompleteRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	raw, err := h.paymentService.Complete(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return response.Raw(c, fiber.StatusOK, raw)
}

// Verify always answers 200 once the request is well formed; chain lookup
// failures are reported inside the body.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req payment.VerifyRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	result, err := h.paymentService.Verify(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *PaymentHandler) ListTransactions(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	txs, total, err := h.paymentService.ListTransactions(c.UserContext(), middleware.MerchantID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, txs))
}
