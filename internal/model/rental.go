package model

import "time"

// Rental statuses. Forward-moving except for cancellation, which is only
// reachable from pending and confirmed.
const (
	RentalPending   = "pending"
	RentalConfirmed = "confirmed"
	RentalActive    = "active"
	RentalCompleted = "completed"
	RentalCancelled = "cancelled"
)

// Rental modes.
const (
	RentalSelfDrive  = "self_drive"
	RentalChauffeured = "chauffeured"
)

// Rental is one booking of one car by one user.
//
// Before return: TotalPrice = BasePrice + ChauffeurFee - DiscountAmount.
// After return:  TotalPrice = BasePrice + ChauffeurFee + OvertimeFee - DiscountAmount.
type Rental struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	CarID           int64      `json:"car_id"`
	RentalType      string     `json:"rental_type"`
	StartTime       time.Time  `json:"start_time"`
	ExpectedEndTime time.Time  `json:"expected_end_time"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`
	DurationHours   int        `json:"duration_hours"`
	BasePrice       float64    `json:"base_price"`
	ChauffeurFee    float64    `json:"chauffeur_fee"`
	DiscountAmount  float64    `json:"discount_amount"`
	OvertimeFee     float64    `json:"overtime_fee"`
	TotalPrice      float64    `json:"total_price"`
	PromoID         *int64     `json:"promo_id,omitempty"`
	KeyReleased     bool       `json:"key_released"`
	KeyReleasedAt   *time.Time `json:"key_released_at,omitempty"`
	KeyReturned     bool       `json:"key_returned"`
	KeyReturnedAt   *time.Time `json:"key_returned_at,omitempty"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RentalView is a rental with its live overtime projection. For an active
// rental the projection fields show the running cost; nothing is persisted
// until the car is returned.
type RentalView struct {
	Rental
	OvertimeHours   int     `json:"overtime_hours"`
	CurrentOvertime float64 `json:"current_overtime"`
	CurrentTotal    float64 `json:"current_total"`
}

// CreateRentalRequest is the DTO for POST /api/rentals.
type CreateRentalRequest struct {
	CarID         int64   `json:"car_id" validate:"required,gt=0"`
	RentalType    string  `json:"rental_type" validate:"required,oneof=self_drive chauffeured"`
	StartTime     string  `json:"start_time" validate:"required"`
	DurationHours int     `json:"duration_hours" validate:"required,gte=1,lte=720"`
	PromoCode     *string `json:"promo_code,omitempty" validate:"omitempty,notblank,max=64"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// RentalPricing is the pricing breakdown echoed back on creation.
type RentalPricing struct {
	BasePrice    float64 `json:"base_price"`
	ChauffeurFee float64 `json:"chauffeur_fee"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

// CreateRentalResponse is the payload for a successful booking.
type CreateRentalResponse struct {
	RentalID        int64         `json:"rental_id"`
	Car             *Car          `json:"car"`
	RentalType      string        `json:"rental_type"`
	StartTime       time.Time     `json:"start_time"`
	ExpectedEndTime time.Time     `json:"expected_end_time"`
	DurationHours   int           `json:"duration_hours"`
	Pricing         RentalPricing `json:"pricing"`
	Status          string        `json:"status"`
}

// ReturnRentalResponse is the payload for a finalized return.
type ReturnRentalResponse struct {
	RentalID     int64   `json:"rental_id"`
	OvertimeFee  float64 `json:"overtime_fee"`
	TotalPrice   float64 `json:"total_price"`
	Status       string  `json:"status"`
	PointsEarned int     `json:"points_earned"`
}

// RentalStatistics is the admin dashboard aggregate for rentals.
type RentalStatistics struct {
	TotalRentals      int     `json:"total_rentals"`
	ActiveRentals     int     `json:"active_rentals"`
	CompletedRentals  int     `json:"completed_rentals"`
	TotalRevenue      float64 `json:"total_revenue"`
	OvertimeCollected float64 `json:"overtime_collected"`
	OverdueRentals    int     `json:"overdue_rentals"`
}
