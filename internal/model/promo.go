package model

import "time"

// Promo discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Promo is a discount code. Codes are stored uppercase and matched
// case-insensitively. An empty ApplicableCategories means all categories.
type Promo struct {
	ID                   int64     `json:"id"`
	Code                 string    `json:"code"`
	Name                 string    `json:"name"`
	Description          *string   `json:"description,omitempty"`
	DiscountType         string    `json:"discount_type"`
	DiscountValue        float64   `json:"discount_value"`
	MaxDiscount          *float64  `json:"max_discount,omitempty"`
	MinRentalHours       int       `json:"min_rental_hours"`
	MinPointsRequired    int       `json:"min_points_required"`
	ValidFrom            time.Time `json:"valid_from"`
	ValidUntil           time.Time `json:"valid_until"`
	UsageLimit           *int      `json:"usage_limit,omitempty"`
	UsageCount           int       `json:"usage_count"`
	ApplicableCategories []string  `json:"applicable_categories"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
}

// CreatePromoRequest is the admin DTO for POST /api/admin/promos.
type CreatePromoRequest struct {
	Code                 string   `json:"code" validate:"required,notblank,max=64"`
	Name                 string   `json:"name" validate:"required,notblank,max=255"`
	Description          *string  `json:"description,omitempty"`
	DiscountType         string   `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue        float64  `json:"discount_value" validate:"required,gt=0"`
	MaxDiscount          *float64 `json:"max_discount,omitempty" validate:"omitempty,gt=0"`
	MinRentalHours       int      `json:"min_rental_hours" validate:"omitempty,gte=1"`
	MinPointsRequired    int      `json:"min_points_required" validate:"gte=0"`
	ValidFrom            string   `json:"valid_from" validate:"required"`
	ValidUntil           string   `json:"valid_until" validate:"required"`
	UsageLimit           *int     `json:"usage_limit,omitempty" validate:"omitempty,gte=1"`
	ApplicableCategories []string `json:"applicable_categories,omitempty" validate:"omitempty,dive,oneof=economy standard luxury premium"`
}

// UpdatePromoRequest is the admin DTO for PUT /api/admin/promos/:id.
// Nil fields are left unchanged. UsageCount is never writable.
type UpdatePromoRequest struct {
	Name                 *string  `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
	Description          *string  `json:"description,omitempty"`
	DiscountType         *string  `json:"discount_type,omitempty" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue        *float64 `json:"discount_value,omitempty" validate:"omitempty,gt=0"`
	MaxDiscount          *float64 `json:"max_discount,omitempty" validate:"omitempty,gt=0"`
	MinRentalHours       *int     `json:"min_rental_hours,omitempty" validate:"omitempty,gte=1"`
	MinPointsRequired    *int     `json:"min_points_required,omitempty" validate:"omitempty,gte=0"`
	ValidFrom            *string  `json:"valid_from,omitempty"`
	ValidUntil           *string  `json:"valid_until,omitempty"`
	UsageLimit           *int     `json:"usage_limit,omitempty" validate:"omitempty,gte=1"`
	ApplicableCategories []string `json:"applicable_categories,omitempty" validate:"omitempty,dive,oneof=economy standard luxury premium"`
	IsActive             *bool    `json:"is_active,omitempty"`
}

// ValidatePromoRequest is the DTO for the preview-only POST /api/promos/validate.
// Validation previews never touch the usage counter.
type ValidatePromoRequest struct {
	Code        string  `json:"code" validate:"required,notblank,max=64"`
	RentalHours int     `json:"rental_hours" validate:"omitempty,gte=1"`
	CarCategory string  `json:"car_category" validate:"omitempty,oneof=economy standard luxury premium"`
	BasePrice   float64 `json:"base_price" validate:"omitempty,gt=0"`
}

// ValidatePromoResponse is the preview result.
type ValidatePromoResponse struct {
	Valid             bool    `json:"valid"`
	Promo             *Promo  `json:"promo,omitempty"`
	EstimatedDiscount float64 `json:"estimated_discount"`
}

// EligiblePromosResponse lists promos the caller can currently redeem.
type EligiblePromosResponse struct {
	UserPoints int     `json:"user_points"`
	Promos     []Promo `json:"promos"`
}
