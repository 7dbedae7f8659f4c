package handlers

import (
	"droppay/internal/middleware"
	"droppay/internal/services/notification"
	"droppay/internal/utils/pagination"
	"droppay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService *notification.Service
}

func NewNotificationHandler(notificationSvc *notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationSvc}
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	items, total, err := h.notificationService.List(c.UserContext(), middleware.MerchantID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, items))
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkRead(c.UserContext(), c.Params("id"), middleware.MerchantID(c)); err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Notification marked as read", fiber.Map{"id": c.Params("id")})
}
