package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Thalanas110/CarRentalAPI/internal/audit"
	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/middleware"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// RentalServiceInterface defines the interface for rental lifecycle logic.
type RentalServiceInterface interface {
	Create(ctx context.Context, ident auth.Identity, req *model.CreateRentalRequest) (*model.CreateRentalResponse, error)
	Return(ctx context.Context, ident auth.Identity, rentalID int64) (*model.ReturnRentalResponse, error)
	Cancel(ctx context.Context, ident auth.Identity, rentalID int64) (*model.Rental, error)
	Get(ctx context.Context, ident auth.Identity, rentalID int64) (*model.RentalView, error)
	ListMine(ctx context.Context, ident auth.Identity) ([]model.RentalView, error)
}

// RentalHandler handles HTTP requests for the renter-facing lifecycle.
type RentalHandler struct {
	service   RentalServiceInterface
	validator *validator.Validate
	audit     *audit.Recorder
}

// NewRentalHandler creates a new RentalHandler.
func NewRentalHandler(svc RentalServiceInterface, v *validator.Validate, rec *audit.Recorder) *RentalHandler {
	return &RentalHandler{service: svc, validator: v, audit: rec}
}

// Create handles POST /api/rentals.
func (h *RentalHandler) Create(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	var req model.CreateRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	resp, err := h.service.Create(c.Context(), ident, &req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(c.Context(), &model.EventLog{
		EventType:   "rental_created",
		Category:    model.EventCategoryRental,
		Description: "rental booked",
		UserID:      &ident.UserID,
		UserEmail:   &ident.Email,
		Metadata: map[string]any{
			"rental_id": resp.RentalID,
			"car_id":    req.CarID,
			"total":     resp.Pricing.Total,
		},
		IPAddress: ipOf(c),
	})
	log.Info().
		Int64("rental_id", resp.RentalID).
		Int64("user_id", ident.UserID).
		Int64("car_id", req.CarID).
		Float64("total", resp.Pricing.Total).
		Msg("rental created")
	return ok(c, fiber.StatusCreated, "rental created", resp)
}

// ListMine handles GET /api/rentals.
func (h *RentalHandler) ListMine(c *fiber.Ctx) error {
	rentals, err := h.service.ListMine(c.Context(), middleware.Identity(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "rentals", rentals)
}

// Get handles GET /api/rentals/:id.
func (h *RentalHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	rental, err := h.service.Get(c.Context(), middleware.Identity(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "rental", rental)
}

// Return handles POST /api/rentals/:id/return.
func (h *RentalHandler) Return(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.service.Return(c.Context(), ident, id)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(c.Context(), &model.EventLog{
		EventType:   "rental_returned",
		Category:    model.EventCategoryRental,
		Description: "car returned",
		UserID:      &ident.UserID,
		UserEmail:   &ident.Email,
		Metadata: map[string]any{
			"rental_id":    id,
			"overtime_fee": resp.OvertimeFee,
			"total_price":  resp.TotalPrice,
		},
		IPAddress: ipOf(c),
	})
	log.Info().
		Int64("rental_id", id).
		Float64("overtime_fee", resp.OvertimeFee).
		Msg("rental returned")
	return ok(c, fiber.StatusOK, "rental returned", resp)
}

// Cancel handles POST /api/rentals/:id/cancel.
func (h *RentalHandler) Cancel(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	rental, err := h.service.Cancel(c.Context(), ident, id)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(c.Context(), &model.EventLog{
		EventType:   "rental_cancelled",
		Category:    model.EventCategoryRental,
		Description: "rental cancelled",
		UserID:      &ident.UserID,
		UserEmail:   &ident.Email,
		Metadata:    map[string]any{"rental_id": id},
		IPAddress:   ipOf(c),
	})
	return ok(c, fiber.StatusOK, "rental cancelled", rental)
}
