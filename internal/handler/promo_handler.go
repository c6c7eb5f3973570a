package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/middleware"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// PromoServiceInterface defines the renter-facing promo logic.
type PromoServiceInterface interface {
	Validate(ctx context.Context, ident auth.Identity, req *model.ValidatePromoRequest) (*model.ValidatePromoResponse, error)
	Eligible(ctx context.Context, ident auth.Identity) (*model.EligiblePromosResponse, error)
	ListActive(ctx context.Context) ([]model.Promo, error)
}

// PromoHandler handles renter-facing HTTP requests for promo codes.
type PromoHandler struct {
	service   PromoServiceInterface
	validator *validator.Validate
}

// NewPromoHandler creates a new PromoHandler.
func NewPromoHandler(svc PromoServiceInterface, v *validator.Validate) *PromoHandler {
	return &PromoHandler{service: svc, validator: v}
}

// Validate handles POST /api/promos/validate. This is a preview: usage is
// only consumed when a booking actually redeems the code.
func (h *PromoHandler) Validate(c *fiber.Ctx) error {
	var req model.ValidatePromoRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	resp, err := h.service.Validate(c.Context(), middleware.Identity(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "promo valid", resp)
}

// Eligible handles GET /api/promos/eligible.
func (h *PromoHandler) Eligible(c *fiber.Ctx) error {
	resp, err := h.service.Eligible(c.Context(), middleware.Identity(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "eligible promos", resp)
}

// ListActive handles GET /api/promos.
func (h *PromoHandler) ListActive(c *fiber.Ctx) error {
	promos, err := h.service.ListActive(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "active promos", promos)
}
