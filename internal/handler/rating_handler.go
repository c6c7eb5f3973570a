package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/middleware"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// RatingServiceInterface defines the interface for rating logic.
type RatingServiceInterface interface {
	Create(ctx context.Context, ident auth.Identity, req *model.CreateRatingRequest) (*model.Rating, error)
	Update(ctx context.Context, ident auth.Identity, ratingID int64, req *model.UpdateRatingRequest) (*model.Rating, error)
	Delete(ctx context.Context, ident auth.Identity, ratingID int64) error
	ListMine(ctx context.Context, ident auth.Identity) ([]model.Rating, error)
}

// RatingHandler handles HTTP requests for post-rental feedback.
type RatingHandler struct {
	service   RatingServiceInterface
	validator *validator.Validate
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(svc RatingServiceInterface, v *validator.Validate) *RatingHandler {
	return &RatingHandler{service: svc, validator: v}
}

// Create handles POST /api/ratings.
func (h *RatingHandler) Create(c *fiber.Ctx) error {
	var req model.CreateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	rating, err := h.service.Create(c.Context(), middleware.Identity(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusCreated, "rating created", rating)
}

// Update handles PUT /api/ratings/:id.
func (h *RatingHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var req model.UpdateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	rating, err := h.service.Update(c.Context(), middleware.Identity(c), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "rating updated", rating)
}

// Delete handles DELETE /api/ratings/:id.
func (h *RatingHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), middleware.Identity(c), id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "rating deleted", nil)
}

// ListMine handles GET /api/ratings.
func (h *RatingHandler) ListMine(c *fiber.Ctx) error {
	ratings, err := h.service.ListMine(c.Context(), middleware.Identity(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "ratings", ratings)
}
