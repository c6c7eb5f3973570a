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

// AdminRentalInterface is the admin slice of the rental lifecycle.
type AdminRentalInterface interface {
	List(ctx context.Context, status string) ([]model.RentalView, error)
	ReleaseKey(ctx context.Context, rentalID int64) (*model.Rental, error)
	Statistics(ctx context.Context) (*model.RentalStatistics, error)
}

// AdminPaymentInterface is the admin slice of payment reconciliation.
type AdminPaymentInterface interface {
	Confirm(ctx context.Context, admin auth.Identity, paymentID int64) (*model.ConfirmPaymentResponse, error)
	ListPending(ctx context.Context) ([]model.Payment, error)
	Statistics(ctx context.Context) (*model.PaymentStatistics, error)
}

// AdminFleetInterface is the admin slice of fleet management.
type AdminFleetInterface interface {
	List(ctx context.Context) ([]model.Car, error)
	Create(ctx context.Context, req *model.CreateCarRequest) (*model.Car, error)
	Update(ctx context.Context, id int64, req *model.UpdateCarRequest) (*model.Car, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (total, rented int, err error)
}

// AdminUserInterface is the admin slice of account management.
type AdminUserInterface interface {
	List(ctx context.Context) ([]model.User, error)
	SetActive(ctx context.Context, userID int64, active bool) error
	Count(ctx context.Context) (int, error)
}

// AdminPromoInterface is the admin slice of promo management.
type AdminPromoInterface interface {
	Create(ctx context.Context, req *model.CreatePromoRequest) (*model.Promo, error)
	Update(ctx context.Context, id int64, req *model.UpdatePromoRequest) (*model.Promo, error)
	List(ctx context.Context) ([]model.Promo, error)
}

// EventLogListerInterface lists audit trail entries.
type EventLogListerInterface interface {
	List(ctx context.Context, category string, limit int) ([]model.EventLog, error)
}

// Dashboard is the admin overview: fleet, rentals and money at a glance.
type Dashboard struct {
	TotalUsers int                      `json:"total_users"`
	TotalCars  int                      `json:"total_cars"`
	CarsRented int                      `json:"cars_rented"`
	Rentals    *model.RentalStatistics  `json:"rentals"`
	Payments   *model.PaymentStatistics `json:"payments"`
}

// AdminHandler handles the admin console HTTP surface.
type AdminHandler struct {
	rentals   AdminRentalInterface
	payments  AdminPaymentInterface
	fleet     AdminFleetInterface
	users     AdminUserInterface
	promos    AdminPromoInterface
	logs      EventLogListerInterface
	validator *validator.Validate
	audit     *audit.Recorder
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(rentals AdminRentalInterface, payments AdminPaymentInterface, fleet AdminFleetInterface, users AdminUserInterface, promos AdminPromoInterface, logs EventLogListerInterface, v *validator.Validate, rec *audit.Recorder) *AdminHandler {
	return &AdminHandler{
		rentals:   rentals,
		payments:  payments,
		fleet:     fleet,
		users:     users,
		promos:    promos,
		logs:      logs,
		validator: v,
		audit:     rec,
	}
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	rentalStats, err := h.rentals.Statistics(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	paymentStats, err := h.payments.Statistics(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	totalUsers, err := h.users.Count(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	totalCars, rented, err := h.fleet.Count(c.Context())
	if err != nil {
		return serviceError(c, err)
	}

	return ok(c, fiber.StatusOK, "dashboard", Dashboard{
		TotalUsers: totalUsers,
		TotalCars:  totalCars,
		CarsRented: rented,
		Rentals:    rentalStats,
		Payments:   paymentStats,
	})
}

// ListRentals handles GET /api/admin/rentals?status=active.
func (h *AdminHandler) ListRentals(c *fiber.Ctx) error {
	rentals, err := h.rentals.List(c.Context(), c.Query("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "rentals", rentals)
}

// ReleaseKey handles POST /api/admin/rentals/:id/release-key.
func (h *AdminHandler) ReleaseKey(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	rental, err := h.rentals.ReleaseKey(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(c.Context(), &model.EventLog{
		EventType:   "key_released",
		Category:    model.EventCategoryAdmin,
		Description: "rental key released",
		UserID:      &ident.UserID,
		UserEmail:   &ident.Email,
		Metadata:    map[string]any{"rental_id": id},
		IPAddress:   ipOf(c),
	})
	log.Info().Int64("rental_id", id).Int64("admin_id", ident.UserID).Msg("key released")
	return ok(c, fiber.StatusOK, "key released", rental)
}

// PendingPayments handles GET /api/admin/payments/pending.
func (h *AdminHandler) PendingPayments(c *fiber.Ctx) error {
	payments, err := h.payments.ListPending(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "pending payments", payments)
}

// ConfirmPayment handles POST /api/admin/payments/:id/confirm.
func (h *AdminHandler) ConfirmPayment(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.payments.Confirm(c.Context(), ident, id)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(c.Context(), &model.EventLog{
		EventType:   "payment_confirmed",
		Category:    model.EventCategoryPayment,
		Description: "payment receipt confirmed",
		UserID:      &ident.UserID,
		UserEmail:   &ident.Email,
		Metadata: map[string]any{
			"payment_id": id,
			"total_paid": resp.TotalPaid,
			"total_due":  resp.TotalDue,
		},
		IPAddress: ipOf(c),
	})
	log.Info().
		Int64("payment_id", id).
		Float64("total_paid", resp.TotalPaid).
		Bool("fully_paid", resp.IsFullyPaid).
		Msg("payment confirmed")
	return ok(c, fiber.StatusOK, "payment confirmed", resp)
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "users", users)
}

// SetUserActive handles PUT /api/admin/users/:id/active.
func (h *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	ident := middleware.Identity(c)
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var req struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	if err := h.users.SetActive(c.Context(), id, *req.IsActive); err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(c.Context(), &model.EventLog{
		EventType:   "user_active_changed",
		Category:    model.EventCategoryAdmin,
		Description: "account active flag changed",
		UserID:      &ident.UserID,
		UserEmail:   &ident.Email,
		Metadata:    map[string]any{"target_user_id": id, "is_active": *req.IsActive},
		IPAddress:   ipOf(c),
	})
	return ok(c, fiber.StatusOK, "user updated", nil)
}

// ListCars handles GET /api/admin/cars.
func (h *AdminHandler) ListCars(c *fiber.Ctx) error {
	cars, err := h.fleet.List(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "cars", cars)
}

// CreateCar handles POST /api/admin/cars.
func (h *AdminHandler) CreateCar(c *fiber.Ctx) error {
	var req model.CreateCarRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	car, err := h.fleet.Create(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	log.Info().Int64("car_id", car.ID).Str("plate", car.PlateNumber).Msg("car added")
	return ok(c, fiber.StatusCreated, "car created", car)
}

// UpdateCar handles PUT /api/admin/cars/:id.
func (h *AdminHandler) UpdateCar(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var req model.UpdateCarRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	car, err := h.fleet.Update(c.Context(), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "car updated", car)
}

// DeleteCar handles DELETE /api/admin/cars/:id.
func (h *AdminHandler) DeleteCar(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.fleet.Delete(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "car deleted", nil)
}

// ListPromos handles GET /api/admin/promos.
func (h *AdminHandler) ListPromos(c *fiber.Ctx) error {
	promos, err := h.promos.List(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "promos", promos)
}

// CreatePromo handles POST /api/admin/promos.
func (h *AdminHandler) CreatePromo(c *fiber.Ctx) error {
	var req model.CreatePromoRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	promo, err := h.promos.Create(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	log.Info().Int64("promo_id", promo.ID).Str("code", promo.Code).Msg("promo created")
	return ok(c, fiber.StatusCreated, "promo created", promo)
}

// UpdatePromo handles PUT /api/admin/promos/:id.
func (h *AdminHandler) UpdatePromo(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var req model.UpdatePromoRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	promo, err := h.promos.Update(c.Context(), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "promo updated", promo)
}

// ListLogs handles GET /api/admin/logs?category=rental&limit=50.
func (h *AdminHandler) ListLogs(c *fiber.Ctx) error {
	entries, err := h.logs.List(c.Context(), c.Query("category"), c.QueryInt("limit", 100))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "logs", entries)
}
