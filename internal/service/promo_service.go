package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
	"github.com/Thalanas110/CarRentalAPI/internal/pricing"
)

// PromoRepositoryInterface defines the interface for promo data access.
type PromoRepositoryInterface interface {
	Insert(ctx context.Context, promo *model.Promo) error
	GetByCode(ctx context.Context, code string) (*model.Promo, error)
	GetByID(ctx context.Context, id int64) (*model.Promo, error)
	ListActive(ctx context.Context) ([]model.Promo, error)
	List(ctx context.Context) ([]model.Promo, error)
	Update(ctx context.Context, promo *model.Promo) error
}

// EvaluatePromo runs the eligibility chain against a promo as of now.
// Checks run in a fixed order so a code failing several rules always
// reports the same one: existence, window, usage cap, points, duration,
// category. A nil or inactive promo counts as unknown.
func EvaluatePromo(promo *model.Promo, userPoints, rentalHours int, carCategory string, now time.Time) error {
	if promo == nil || !promo.IsActive {
		return ErrPromoNotFound
	}
	if now.Before(promo.ValidFrom) {
		return ErrPromoNotStarted
	}
	if now.After(promo.ValidUntil) {
		return ErrPromoExpired
	}
	if promo.UsageLimit != nil && promo.UsageCount >= *promo.UsageLimit {
		return ErrPromoUsageLimit
	}
	if userPoints < promo.MinPointsRequired {
		return ErrPromoMinPoints
	}
	if rentalHours < promo.MinRentalHours {
		return ErrPromoMinHours
	}
	if len(promo.ApplicableCategories) > 0 && !slices.Contains(promo.ApplicableCategories, carCategory) {
		return ErrPromoCategory
	}
	return nil
}

// PromoService provides business logic for promo codes.
type PromoService struct {
	promoRepo PromoRepositoryInterface
	now       func() time.Time
}

// NewPromoService creates a new PromoService.
func NewPromoService(promoRepo PromoRepositoryInterface) *PromoService {
	return &PromoService{promoRepo: promoRepo, now: time.Now}
}

// NewPromoServiceWithClock creates a PromoService with a custom clock.
// Primarily used for testing.
func NewPromoServiceWithClock(promoRepo PromoRepositoryInterface, now func() time.Time) *PromoService {
	return &PromoService{promoRepo: promoRepo, now: now}
}

// Validate previews a promo for the caller without consuming usage.
// The booking flow re-evaluates under a row lock; this result is advisory.
func (s *PromoService) Validate(ctx context.Context, ident auth.Identity, req *model.ValidatePromoRequest) (*model.ValidatePromoResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	promo, err := s.promoRepo.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("get promo: %w", err)
	}

	// An omitted duration skips the minimum-hours rule; booking re-checks it.
	hours := req.RentalHours
	if hours == 0 && promo != nil {
		hours = promo.MinRentalHours
	}
	if err := EvaluatePromo(promo, ident.Points, hours, req.CarCategory, s.now()); err != nil {
		return nil, err
	}

	resp := &model.ValidatePromoResponse{Valid: true, Promo: promo}
	if req.BasePrice > 0 {
		resp.EstimatedDiscount = pricing.Discount(promo.DiscountType, promo.DiscountValue, promo.MaxDiscount, req.BasePrice)
	}
	return resp, nil
}

// Eligible lists the active promos the caller can currently redeem given
// their points balance. Duration and category rules are left to booking
// time since no rental exists yet.
func (s *PromoService) Eligible(ctx context.Context, ident auth.Identity) (*model.EligiblePromosResponse, error) {
	promos, err := s.promoRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active promos: %w", err)
	}

	eligible := []model.Promo{}
	for _, p := range promos {
		if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
			continue
		}
		if ident.Points < p.MinPointsRequired {
			continue
		}
		eligible = append(eligible, p)
	}
	return &model.EligiblePromosResponse{UserPoints: ident.Points, Promos: eligible}, nil
}

// Create creates a new promo from the admin request.
// Returns ErrPromoCodeExists on a duplicate code.
func (s *PromoService) Create(ctx context.Context, req *model.CreatePromoRequest) (*model.Promo, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	validFrom, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: valid_from must be RFC 3339", ErrInvalidRequest)
	}
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: valid_until must be RFC 3339", ErrInvalidRequest)
	}
	if !validUntil.After(validFrom) {
		return nil, fmt.Errorf("%w: valid_until must be after valid_from", ErrInvalidRequest)
	}

	promo := &model.Promo{
		Code:                 strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:                 req.Name,
		Description:          req.Description,
		DiscountType:         req.DiscountType,
		DiscountValue:        req.DiscountValue,
		MaxDiscount:          req.MaxDiscount,
		MinRentalHours:       req.MinRentalHours,
		MinPointsRequired:    req.MinPointsRequired,
		ValidFrom:            validFrom,
		ValidUntil:           validUntil,
		UsageLimit:           req.UsageLimit,
		ApplicableCategories: req.ApplicableCategories,
	}
	if promo.DiscountType == "" {
		promo.DiscountType = model.DiscountPercentage
	}
	if promo.MinRentalHours < 1 {
		promo.MinRentalHours = 1
	}
	if promo.ApplicableCategories == nil {
		promo.ApplicableCategories = []string{}
	}

	if err := s.promoRepo.Insert(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Update applies a partial update to a promo. Nil fields keep their value;
// the usage counter is never writable.
func (s *PromoService) Update(ctx context.Context, id int64, req *model.UpdatePromoRequest) (*model.Promo, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	promo, err := s.promoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		promo.Name = *req.Name
	}
	if req.Description != nil {
		promo.Description = req.Description
	}
	if req.DiscountType != nil {
		promo.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		promo.DiscountValue = *req.DiscountValue
	}
	if req.MaxDiscount != nil {
		promo.MaxDiscount = req.MaxDiscount
	}
	if req.MinRentalHours != nil {
		promo.MinRentalHours = *req.MinRentalHours
	}
	if req.MinPointsRequired != nil {
		promo.MinPointsRequired = *req.MinPointsRequired
	}
	if req.ValidFrom != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: valid_from must be RFC 3339", ErrInvalidRequest)
		}
		promo.ValidFrom = t
	}
	if req.ValidUntil != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: valid_until must be RFC 3339", ErrInvalidRequest)
		}
		promo.ValidUntil = t
	}
	if !promo.ValidUntil.After(promo.ValidFrom) {
		return nil, fmt.Errorf("%w: valid_until must be after valid_from", ErrInvalidRequest)
	}
	if req.UsageLimit != nil {
		promo.UsageLimit = req.UsageLimit
	}
	if req.ApplicableCategories != nil {
		promo.ApplicableCategories = req.ApplicableCategories
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}

	if err := s.promoRepo.Update(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// ListActive retrieves the publicly visible promos.
func (s *PromoService) ListActive(ctx context.Context) ([]model.Promo, error) {
	return s.promoRepo.ListActive(ctx)
}

// List retrieves every promo for the admin console.
func (s *PromoService) List(ctx context.Context) ([]model.Promo, error) {
	return s.promoRepo.List(ctx)
}
