package service

import "errors"

// Domain rule violations detected by the services. Handlers translate these
// into the HTTP taxonomy: not-found 404, conflicts 409, ownership/points 403,
// illegal transitions 400.
var (
	// ErrInvalidRequest is returned when request data is nil or incomplete.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCarNotFound is returned when a referenced car does not exist.
	ErrCarNotFound = errors.New("car not found")

	// ErrCarUnavailable is returned when the car is not bookable (admin flag
	// off or already rented).
	ErrCarUnavailable = errors.New("car is not available for rental")

	// ErrCarHasRentals blocks deleting a car that still backs live rentals.
	ErrCarHasRentals = errors.New("car has active rentals")

	// ErrPlateExists is returned for a duplicate plate number.
	ErrPlateExists = errors.New("plate number already registered")

	// ErrInsufficientPoints is returned when the renter's balance is below
	// the car's points gate.
	ErrInsufficientPoints = errors.New("insufficient loyalty points for this car")

	// ErrRentalNotFound is returned when a referenced rental does not exist.
	ErrRentalNotFound = errors.New("rental not found")

	// ErrNotOwner is returned when a caller touches a rental, payment or
	// rating that belongs to someone else.
	ErrNotOwner = errors.New("resource belongs to another user")

	// ErrInvalidTransition is returned for a lifecycle action that the
	// rental's current status does not allow.
	ErrInvalidTransition = errors.New("rental status does not allow this action")

	// ErrKeyAlreadyReleased is returned on a second key release.
	ErrKeyAlreadyReleased = errors.New("key already released")

	// ErrPaymentNotFound is returned when a referenced payment does not exist.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrPaymentAlreadyConfirmed is returned on a second confirmation of the
	// same payment.
	ErrPaymentAlreadyConfirmed = errors.New("payment already confirmed")

	// ErrRentalCancelled is returned when recording a payment against a
	// cancelled rental.
	ErrRentalCancelled = errors.New("cannot pay for a cancelled rental")

	// ErrRatingExists is returned on a second rating for the same rental.
	ErrRatingExists = errors.New("rental already rated")

	// ErrRatingNotFound is returned when a referenced rating does not exist.
	ErrRatingNotFound = errors.New("rating not found")

	// ErrRentalNotCompleted is returned when rating a rental that has not
	// completed.
	ErrRentalNotCompleted = errors.New("only completed rentals can be rated")

	// ErrEmailExists is returned for a duplicate registration email.
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned for a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when a referenced user does not exist or
	// has been deactivated.
	ErrUserNotFound = errors.New("user not found")

	// ErrPromoNotFound is returned for an unknown or inactive promo code.
	ErrPromoNotFound = errors.New("invalid promo code")

	// ErrPromoCodeExists is returned for a duplicate promo code.
	ErrPromoCodeExists = errors.New("promo code already exists")

	// ErrPromoNotStarted is returned before the promo's valid-from instant.
	ErrPromoNotStarted = errors.New("promo code is not yet valid")

	// ErrPromoExpired is returned after the promo's valid-until instant.
	ErrPromoExpired = errors.New("promo code has expired")

	// ErrPromoUsageLimit is returned when the usage cap has been reached.
	ErrPromoUsageLimit = errors.New("promo code usage limit reached")

	// ErrPromoMinPoints is returned when the renter lacks the promo's
	// required points.
	ErrPromoMinPoints = errors.New("not enough points to use this promo")

	// ErrPromoMinHours is returned when the rental is shorter than the
	// promo's minimum duration.
	ErrPromoMinHours = errors.New("rental shorter than promo minimum hours")

	// ErrPromoCategory is returned when the car category is outside the
	// promo's applicable set.
	ErrPromoCategory = errors.New("promo code not applicable for this car category")
)

// PromoValidationError reports whether err is one of the promo eligibility
// failures, which the REST surface maps to 400 rather than 404/409.
func PromoValidationError(err error) bool {
	for _, e := range []error{
		ErrPromoNotFound, ErrPromoNotStarted, ErrPromoExpired,
		ErrPromoUsageLimit, ErrPromoMinPoints, ErrPromoMinHours, ErrPromoCategory,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
