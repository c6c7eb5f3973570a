package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/middleware"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// CarCatalogInterface defines the public fleet queries.
type CarCatalogInterface interface {
	Catalog(ctx context.Context, ident auth.Identity) (*model.CatalogResponse, error)
	Get(ctx context.Context, id int64) (*model.CarWithRating, error)
}

// CarHandler handles public HTTP requests for the car catalog.
type CarHandler struct {
	service CarCatalogInterface
	ratings RatingReaderInterface
}

// RatingReaderInterface defines the public rating queries shown with cars.
type RatingReaderInterface interface {
	ListByCar(ctx context.Context, carID int64) ([]model.Rating, error)
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(svc CarCatalogInterface, ratings RatingReaderInterface) *CarHandler {
	return &CarHandler{service: svc, ratings: ratings}
}

// Catalog handles GET /api/cars. Authenticated callers get the split
// driven by their points balance; anonymous callers browse with zero.
func (h *CarHandler) Catalog(c *fiber.Ctx) error {
	resp, err := h.service.Catalog(c.Context(), middleware.Identity(c))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "catalog", resp)
}

// Get handles GET /api/cars/:id.
func (h *CarHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	car, err := h.service.Get(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "car", car)
}

// Ratings handles GET /api/cars/:id/ratings.
func (h *CarHandler) Ratings(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	ratings, err := h.ratings.ListByCar(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "ratings", ratings)
}
