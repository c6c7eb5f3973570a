package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Thalanas110/CarRentalAPI/internal/audit"
	"github.com/Thalanas110/CarRentalAPI/internal/middleware"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// UserServiceInterface defines the interface for account business logic.
type UserServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	Profile(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error)
}

// AuthHandler handles HTTP requests for registration, login and profile.
type AuthHandler struct {
	service   UserServiceInterface
	validator *validator.Validate
	audit     *audit.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc UserServiceInterface, v *validator.Validate, rec *audit.Recorder) *AuthHandler {
	return &AuthHandler{service: svc, validator: v, audit: rec}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	resp, err := h.service.Register(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(c.Context(), &model.EventLog{
		EventType:   "user_registered",
		Category:    model.EventCategoryAuth,
		Description: "new account registered",
		UserID:      &resp.User.ID,
		UserEmail:   &resp.User.Email,
		IPAddress:   ipOf(c),
	})
	log.Info().Int64("user_id", resp.User.ID).Msg("user registered")
	return ok(c, fiber.StatusCreated, "registered", resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	resp, err := h.service.Login(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}

	h.audit.Record(c.Context(), &model.EventLog{
		EventType:   "user_login",
		Category:    model.EventCategoryAuth,
		Description: "user logged in",
		UserID:      &resp.User.ID,
		UserEmail:   &resp.User.Email,
		IPAddress:   ipOf(c),
	})
	return ok(c, fiber.StatusOK, "logged in", resp)
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	user, err := h.service.Profile(c.Context(), ident.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "profile", user)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	ident := middleware.Identity(c)

	var req model.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return failValidation(c, err)
	}

	user, err := h.service.UpdateProfile(c.Context(), ident.UserID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, fiber.StatusOK, "profile updated", user)
}

func ipOf(c *fiber.Ctx) *string {
	ip := c.IP()
	if ip == "" {
		return nil
	}
	return &ip
}
