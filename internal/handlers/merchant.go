package handlers

import (
	"droppay/internal/middleware"
	"droppay/internal/services/merchant"
	"droppay/internal/utils/response"
	"droppay/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
)

type MerchantHandler struct {
	merchantService *merchant.Service
}

func NewMerchantHandler(merchantSvc *merchant.Service) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantSvc,
	}
}

// CreateMerchant returns 201 for a new profile and 200 for an existing one.
// session_token is present only when accessToken was verified.
func (h *MerchantHandler) CreateMerchant(c *fiber.Ctx) error {
	var input merchant.CreateProfileInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.WalletAddress(input.WalletAddress, "walletAddress")
	if !v.Valid() {
		return response.ValidationError(c, v.Error())
	}

	result, err := h.merchantService.EnsureProfile(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	body := fiber.Map{"merchant": result.Merchant}
	if result.SessionToken != "" {
		body["session_token"] = result.SessionToken
	}
	return c.Status(status).JSON(body)
}

func (h *MerchantHandler) GetMerchantProfile(c *fiber.Ctx) error {
	m, err := h.merchantService.GetProfile(c.UserContext(), middleware.MerchantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

func (h *MerchantHandler) UpdateMerchantProfile(c *fiber.Ctx) error {
	var input merchant.UpdateProfileInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if input.WalletAddress != nil {
		v := validation.New()
		v.WalletAddress(*input.WalletAddress, "wallet_address")
		if !v.Valid() {
			return response.ValidationError(c, v.Error())
		}
	}

	m, err := h.merchantService.UpdateProfile(c.UserContext(), middleware.MerchantID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Merchant profile updated successfully", m)
}

func (h *MerchantHandler) CreateAPIKey(c *fiber.Ctx) error {
	key, err := h.merchantService.IssueAPIKey(c.UserContext(), middleware.MerchantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return response.Created(c, key)
}
