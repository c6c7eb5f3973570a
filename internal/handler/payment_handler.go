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

// PaymentServiceInterface defines the interface for payment logic.
type PaymentServiceInterface interface {
	Record(ctx context.Context, ident auth.Identity, req *model.CreatePaymentRequest) (*model.Payment, error)
	ListByRental(ctx context.Context, ident auth.Identity, rentalID int64) (*model.RentalPaymentsResponse, error)
}

// PaymentHandler handles HTTP requests for offline payment declarations.
type PaymentHandler struct {
	service   PaymentServiceInterface
	validator *validator.Validate
	audit     *audit.Recorder
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc PaymentServiceInterface, v *validator.Validate, rec *audit.Recorder) *PaymentHandler {
	return &PaymentHandler{service: svc, validator: v, audit: rec}
}

// Record handles POST /api/payments.
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	var req model.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	payment, err := h.service.Record(c.Context(), ident, &req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(c.Context(), &model.EventLog{
		EventType:   "payment_recorded",
		Category:    model.EventCategoryPayment,
		Description: "payment declared",
		UserID:      &ident.UserID,
		UserEmail:   &ident.Email,
		Metadata: map[string]any{
			"payment_id":   payment.ID,
			"rental_id":    payment.RentalID,
			"payment_type": payment.PaymentType,
			"amount":       payment.Amount,
		},
		IPAddress: ipOf(c),
	})
	log.Info().
		Int64("payment_id", payment.ID).
		Int64("rental_id", payment.RentalID).
		Float64("amount", payment.Amount).
		Msg("payment recorded")
	return ok(c, fiber.StatusCreated, "payment recorded", payment)
}

// ListByRental handles GET /api/rentals/:id/payments.
func (h *PaymentHandler) ListByRental(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.service.ListByRental(c.Context(), middleware.Identity(c), id)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "payments", resp)
}
