package model

import "time"

// Car categories. Premium cars sit behind the highest points gate.
const (
	CategoryEconomy  = "economy"
	CategoryStandard = "standard"
	CategoryLuxury   = "luxury"
	CategoryPremium  = "premium"
)

// Car is a rentable vehicle. IsAvailable is the administrative flag;
// IsRented is flipped by the rental lifecycle only.
type Car struct {
	ID             int64     `json:"id"`
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	Year           int       `json:"year"`
	PlateNumber    string    `json:"plate_number"`
	Category       string    `json:"category"`
	PricePerHour   float64   `json:"price_per_hour"`
	ChauffeurFee   float64   `json:"chauffeur_fee"`
	RequiredPoints int       `json:"required_points"`
	Description    *string   `json:"description,omitempty"`
	Seats          int       `json:"seats"`
	Transmission   string    `json:"transmission"`
	FuelType       string    `json:"fuel_type"`
	ImageURL       *string   `json:"image_url,omitempty"`
	IsAvailable    bool      `json:"is_available"`
	IsRented       bool      `json:"is_rented"`
	CreatedAt      time.Time `json:"created_at"`
}

// Bookable reports whether the car can back a new rental.
func (c *Car) Bookable() bool {
	return c.IsAvailable && !c.IsRented
}

// CreateCarRequest is the admin DTO for POST /api/admin/cars.
type CreateCarRequest struct {
	Make           string  `json:"make" validate:"required,notblank,max=64"`
	Model          string  `json:"model" validate:"required,notblank,max=64"`
	Year           int     `json:"year" validate:"required,gte=1980,lte=2100"`
	PlateNumber    string  `json:"plate_number" validate:"required,notblank,max=32"`
	Category       string  `json:"category" validate:"omitempty,oneof=economy standard luxury premium"`
	PricePerHour   float64 `json:"price_per_hour" validate:"required,gt=0"`
	ChauffeurFee   float64 `json:"chauffeur_fee" validate:"gte=0"`
	RequiredPoints int     `json:"required_points" validate:"gte=0"`
	Description    *string `json:"description,omitempty"`
	Seats          int     `json:"seats" validate:"omitempty,gte=1,lte=20"`
	Transmission   string  `json:"transmission" validate:"omitempty,oneof=automatic manual"`
	FuelType       string  `json:"fuel_type" validate:"omitempty,max=16"`
	ImageURL       *string `json:"image_url,omitempty"`
}

// UpdateCarRequest is the admin DTO for PUT /api/admin/cars/:id.
// Nil fields are left unchanged. IsRented is deliberately absent: only the
// rental lifecycle mutates it.
type UpdateCarRequest struct {
	Make           *string  `json:"make,omitempty" validate:"omitempty,notblank,max=64"`
	Model          *string  `json:"model,omitempty" validate:"omitempty,notblank,max=64"`
	Year           *int     `json:"year,omitempty" validate:"omitempty,gte=1980,lte=2100"`
	PlateNumber    *string  `json:"plate_number,omitempty" validate:"omitempty,notblank,max=32"`
	Category       *string  `json:"category,omitempty" validate:"omitempty,oneof=economy standard luxury premium"`
	PricePerHour   *float64 `json:"price_per_hour,omitempty" validate:"omitempty,gt=0"`
	ChauffeurFee   *float64 `json:"chauffeur_fee,omitempty" validate:"omitempty,gte=0"`
	RequiredPoints *int     `json:"required_points,omitempty" validate:"omitempty,gte=0"`
	Description    *string  `json:"description,omitempty"`
	Seats          *int     `json:"seats,omitempty" validate:"omitempty,gte=1,lte=20"`
	Transmission   *string  `json:"transmission,omitempty" validate:"omitempty,oneof=automatic manual"`
	FuelType       *string  `json:"fuel_type,omitempty" validate:"omitempty,max=16"`
	ImageURL       *string  `json:"image_url,omitempty"`
	IsAvailable    *bool    `json:"is_available,omitempty"`
}

// CarWithRating is a car joined with its rating aggregates.
type CarWithRating struct {
	Car
	AvgCarRating float64 `json:"avg_car_rating"`
	TotalRatings int     `json:"total_ratings"`
}

// CatalogResponse is the points-gated catalog split for GET /api/cars.
type CatalogResponse struct {
	Available  []Car `json:"available"`
	Locked     []Car `json:"locked"`
	UserPoints int   `json:"user_points"`
}
