package handlers

import (
	"droppay/internal/middleware"
	"droppay/internal/services/links"
	"droppay/internal/utils/response"
	"droppay/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type LinkHandler struct {
	linkService *links.Service
}

func NewLinkHandler(linkSvc *links.Service) *LinkHandler {
	return &LinkHandler{linkService: linkSvc}
}

func (h *LinkHandler) CreateLink(c *fiber.Ctx) error {
	var input links.CreateInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.Required(input.Title, "title")
	v.PositiveAmount(input.Amount, "amount")
	if !v.Valid() {
		return response.ValidationError(c, v.Error())
	}

	link, err := h.linkService.Create(c.UserContext(), middleware.MerchantID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return response.Created(c, link)
}

func (h *LinkHandler) ListLinks(c *fiber.Ctx) error {
	items, err := h.linkService.List(c.UserContext(), middleware.MerchantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetLink is public so customers can open a shared link.
func (h *LinkHandler) GetLink(c *fiber.Ctx) error {
	link, err := h.linkService.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(link)
}

// DeactivateLink takes ?checkout=true for checkout links.
func (h *LinkHandler) DeactivateLink(c *fiber.Ctx) error {
	checkout := c.QueryBool("checkout", false)
	if err := h.linkService.Deactivate(c.UserContext(), middleware.MerchantID(c), c.Params("id"), checkout); err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Link deactivated", fiber.Map{"id": c.Params("id")})
}
