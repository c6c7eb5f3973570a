package model

import "time"

// Rating is post-rental feedback. At most one per rental, enforced by a
// unique constraint on rental_id.
type Rating struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	RentalID      int64     `json:"rental_id"`
	CarID         int64     `json:"car_id"`
	CarRating     int       `json:"car_rating"`
	ServiceRating int       `json:"service_rating"`
	Comment       *string   `json:"comment,omitempty"`
	IsApproved    bool      `json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateRatingRequest is the DTO for POST /api/ratings.
type CreateRatingRequest struct {
	RentalID      int64   `json:"rental_id" validate:"required,gt=0"`
	CarRating     int     `json:"car_rating" validate:"required,gte=1,lte=5"`
	ServiceRating int     `json:"service_rating" validate:"required,gte=1,lte=5"`
	Comment       *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// UpdateRatingRequest is the DTO for PUT /api/ratings/:id.
type UpdateRatingRequest struct {
	CarRating     *int    `json:"car_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	ServiceRating *int    `json:"service_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Comment       *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// CarRatingAverages is the aggregate shown on car detail pages.
type CarRatingAverages struct {
	AvgCarRating     float64 `json:"avg_car_rating"`
	AvgServiceRating float64 `json:"avg_service_rating"`
	TotalRatings     int     `json:"total_ratings"`
}
