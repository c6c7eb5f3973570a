package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Thalanas110/CarRentalAPI/internal/service"
	appvalidator "github.com/Thalanas110/CarRentalAPI/internal/validator"
)

// envelope is the uniform response shape: {success, message, data} on
// success, {success, message, errors} on validation failure.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(envelope{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Success: false, Message: message})
}

func failValidation(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(envelope{
		Success: false,
		Message: "validation failed",
		Errors:  appvalidator.Errors(err),
	})
}

// serviceError maps domain sentinels onto the HTTP taxonomy. Anything
// unrecognized is logged and reported as a 500 without leaking internals.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCarNotFound),
		errors.Is(err, service.ErrRentalNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrRatingNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrCarUnavailable),
		errors.Is(err, service.ErrCarHasRentals),
		errors.Is(err, service.ErrPlateExists),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrPromoCodeExists),
		errors.Is(err, service.ErrKeyAlreadyReleased),
		errors.Is(err, service.ErrPaymentAlreadyConfirmed),
		errors.Is(err, service.ErrRatingExists):
		return fail(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrInsufficientPoints):
		return fail(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRentalCancelled),
		errors.Is(err, service.ErrRentalNotCompleted),
		service.PromoValidationError(err):
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled service error")
	return fail(c, fiber.StatusInternalServerError, "internal server error")
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return int64(id), nil
}
