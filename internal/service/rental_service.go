package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
	"github.com/Thalanas110/CarRentalAPI/internal/pricing"
	"github.com/Thalanas110/CarRentalAPI/pkg/database"
)

// RentalRepositoryInterface defines the interface for rental data access.
type RentalRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, rental *model.Rental) error
	GetByID(ctx context.Context, id int64) (*model.Rental, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Rental, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Rental, error)
	List(ctx context.Context, status string) ([]model.Rental, error)
	UpdateStatus(ctx context.Context, tx database.TxQuerier, id int64, status string) error
	ReleaseKey(ctx context.Context, tx database.TxQuerier, id int64, at time.Time) error
	FinalizeReturn(ctx context.Context, tx database.TxQuerier, id int64, at time.Time, overtimeFee, totalPrice float64) error
	Statistics(ctx context.Context, now time.Time) (*model.RentalStatistics, error)
}

// CarLockerInterface is the slice of fleet data access the rental
// lifecycle needs.
type CarLockerInterface interface {
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Car, error)
	SetRented(ctx context.Context, tx database.TxQuerier, id int64, rented bool) error
}

// UserLockerInterface is the slice of user data access the rental
// lifecycle needs for points reads and awards.
type UserLockerInterface interface {
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error)
	AddPoints(ctx context.Context, tx database.TxQuerier, id int64, delta int) error
}

// PromoLockerInterface is the slice of promo data access the booking
// transaction needs.
type PromoLockerInterface interface {
	GetForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Promo, error)
	IncrementUsage(ctx context.Context, tx database.TxQuerier, id int64) error
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RentalService provides business logic for the rental lifecycle:
// booking, key release, return, and cancellation. Every transition runs
// in a transaction that re-reads the rental under a row lock before
// acting, so concurrent transitions serialize instead of racing.
type RentalService struct {
	pool       TxBeginner
	rentalRepo RentalRepositoryInterface
	carRepo    CarLockerInterface
	userRepo   UserLockerInterface
	promoRepo  PromoLockerInterface
	now        func() time.Time
}

// NewRentalService creates a new RentalService with the given pool and
// repositories.
func NewRentalService(pool *pgxpool.Pool, rentalRepo RentalRepositoryInterface, carRepo CarLockerInterface, userRepo UserLockerInterface, promoRepo PromoLockerInterface) *RentalService {
	return &RentalService{
		pool:       pool,
		rentalRepo: rentalRepo,
		carRepo:    carRepo,
		userRepo:   userRepo,
		promoRepo:  promoRepo,
		now:        time.Now,
	}
}

// NewRentalServiceWithTxBeginner creates a RentalService with a custom
// TxBeginner and clock. Primarily used for testing.
func NewRentalServiceWithTxBeginner(pool TxBeginner, rentalRepo RentalRepositoryInterface, carRepo CarLockerInterface, userRepo UserLockerInterface, promoRepo PromoLockerInterface, now func() time.Time) *RentalService {
	return &RentalService{
		pool:       pool,
		rentalRepo: rentalRepo,
		carRepo:    carRepo,
		userRepo:   userRepo,
		promoRepo:  promoRepo,
		now:        now,
	}
}

// Create books a car for the caller.
// The car row is locked first; the loser of two concurrent bookings sees
// is_rented already set and gets ErrCarUnavailable. The points gate is
// checked against the live balance, not the token snapshot. A promo code
// is re-evaluated under its own row lock and its usage consumed in the
// same transaction, so the cap cannot be oversubscribed.
func (s *RentalService) Create(ctx context.Context, ident auth.Identity, req *model.CreateRentalRequest) (*model.CreateRentalResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time must be RFC 3339", ErrInvalidRequest)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	car, err := s.carRepo.GetForUpdate(ctx, tx, req.CarID)
	if err != nil {
		return nil, err
	}
	if !car.Bookable() {
		return nil, ErrCarUnavailable
	}

	user, err := s.userRepo.GetForUpdate(ctx, tx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if user.Points < car.RequiredPoints {
		return nil, ErrInsufficientPoints
	}

	basePrice := car.PricePerHour * float64(req.DurationHours)
	chauffeurFee := 0.0
	if req.RentalType == model.RentalChauffeured {
		chauffeurFee = car.ChauffeurFee * float64(req.DurationHours)
	}

	var discount float64
	var promoID *int64
	if req.PromoCode != nil {
		promo, err := s.promoRepo.GetForUpdate(ctx, tx, *req.PromoCode)
		if err != nil {
			return nil, err
		}
		if err := EvaluatePromo(promo, user.Points, req.DurationHours, car.Category, s.now()); err != nil {
			return nil, err
		}
		discount = pricing.Discount(promo.DiscountType, promo.DiscountValue, promo.MaxDiscount, basePrice+chauffeurFee)
		if err := s.promoRepo.IncrementUsage(ctx, tx, promo.ID); err != nil {
			return nil, err
		}
		promoID = &promo.ID
	}

	quote := pricing.NewQuote(car.PricePerHour, car.ChauffeurFee, req.DurationHours, req.RentalType, discount)

	rental := &model.Rental{
		UserID:          ident.UserID,
		CarID:           car.ID,
		RentalType:      req.RentalType,
		StartTime:       startTime,
		ExpectedEndTime: startTime.Add(time.Duration(req.DurationHours) * time.Hour),
		DurationHours:   req.DurationHours,
		BasePrice:       quote.BasePrice,
		ChauffeurFee:    quote.ChauffeurFee,
		DiscountAmount:  quote.Discount,
		TotalPrice:      quote.Total,
		PromoID:         promoID,
		Status:          model.RentalPending,
		Notes:           req.Notes,
	}
	if err := s.rentalRepo.Insert(ctx, tx, rental); err != nil {
		return nil, err
	}
	if err := s.carRepo.SetRented(ctx, tx, car.ID, true); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &model.CreateRentalResponse{
		RentalID:        rental.ID,
		Car:             car,
		RentalType:      rental.RentalType,
		StartTime:       rental.StartTime,
		ExpectedEndTime: rental.ExpectedEndTime,
		DurationHours:   rental.DurationHours,
		Pricing: model.RentalPricing{
			BasePrice:    quote.BasePrice,
			ChauffeurFee: quote.ChauffeurFee,
			Discount:     quote.Discount,
			Total:        quote.Total,
		},
		Status: rental.Status,
	}, nil
}

// ReleaseKey hands the key over and activates the rental.
// Returns ErrKeyAlreadyReleased on a repeat release and
// ErrInvalidTransition when the rental is not pending or confirmed.
func (s *RentalService) ReleaseKey(ctx context.Context, rentalID int64) (*model.Rental, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rental, err := s.rentalRepo.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.KeyReleased {
		return nil, ErrKeyAlreadyReleased
	}
	if rental.Status != model.RentalPending && rental.Status != model.RentalConfirmed {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	if err := s.rentalRepo.ReleaseKey(ctx, tx, rentalID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	rental.KeyReleased = true
	rental.KeyReleasedAt = &now
	rental.Status = model.RentalActive
	return rental, nil
}

// Return finalizes an active rental: overtime is settled at the flat
// hourly rate for every started hour past the expected end, the car is
// freed, and the renter earns their loyalty points.
func (s *RentalService) Return(ctx context.Context, ident auth.Identity, rentalID int64) (*model.ReturnRentalResponse, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rental, err := s.rentalRepo.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != ident.UserID && !ident.IsAdmin() {
		return nil, ErrNotOwner
	}
	if rental.Status != model.RentalActive {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	overtimeFee := pricing.OvertimeFee(pricing.OvertimeHours(rental.ExpectedEndTime, now))
	totalPrice := rental.BasePrice + rental.ChauffeurFee + overtimeFee - rental.DiscountAmount

	if err := s.rentalRepo.FinalizeReturn(ctx, tx, rentalID, now, overtimeFee, totalPrice); err != nil {
		return nil, err
	}
	if err := s.carRepo.SetRented(ctx, tx, rental.CarID, false); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetForUpdate(ctx, tx, rental.UserID); err != nil {
		return nil, err
	}
	if err := s.userRepo.AddPoints(ctx, tx, rental.UserID, pricing.PointsPerRental); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &model.ReturnRentalResponse{
		RentalID:     rentalID,
		OvertimeFee:  overtimeFee,
		TotalPrice:   totalPrice,
		Status:       model.RentalCompleted,
		PointsEarned: pricing.PointsPerRental,
	}, nil
}

// Cancel aborts a rental that has not started. Only pending and confirmed
// rentals can be cancelled; the car goes back to the fleet. Consumed promo
// usage is not refunded.
func (s *RentalService) Cancel(ctx context.Context, ident auth.Identity, rentalID int64) (*model.Rental, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rental, err := s.rentalRepo.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != ident.UserID && !ident.IsAdmin() {
		return nil, ErrNotOwner
	}
	if rental.Status != model.RentalPending && rental.Status != model.RentalConfirmed {
		return nil, ErrInvalidTransition
	}

	if err := s.rentalRepo.UpdateStatus(ctx, tx, rentalID, model.RentalCancelled); err != nil {
		return nil, err
	}
	if err := s.carRepo.SetRented(ctx, tx, rental.CarID, false); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	rental.Status = model.RentalCancelled
	return rental, nil
}

// Get retrieves one rental with its live overtime projection. Callers see
// only their own rentals; admins see all.
func (s *RentalService) Get(ctx context.Context, ident auth.Identity, rentalID int64) (*model.RentalView, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != ident.UserID && !ident.IsAdmin() {
		return nil, ErrNotOwner
	}
	view := s.project(rental)
	return &view, nil
}

// ListMine retrieves the caller's rentals with live projections.
func (s *RentalService) ListMine(ctx context.Context, ident auth.Identity) ([]model.RentalView, error) {
	rentals, err := s.rentalRepo.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	return s.projectAll(rentals), nil
}

// List retrieves all rentals for the admin console, optionally filtered
// by status.
func (s *RentalService) List(ctx context.Context, status string) ([]model.RentalView, error) {
	rentals, err := s.rentalRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.projectAll(rentals), nil
}

// Statistics aggregates rental figures for the admin dashboard.
func (s *RentalService) Statistics(ctx context.Context) (*model.RentalStatistics, error) {
	return s.rentalRepo.Statistics(ctx, s.now())
}

func (s *RentalService) project(rental *model.Rental) model.RentalView {
	p := pricing.Project(rental, s.now())
	return model.RentalView{
		Rental:          *rental,
		OvertimeHours:   p.OvertimeHours,
		CurrentOvertime: p.CurrentOvertime,
		CurrentTotal:    p.CurrentTotal,
	}
}

func (s *RentalService) projectAll(rentals []model.Rental) []model.RentalView {
	views := make([]model.RentalView, 0, len(rentals))
	for i := range rentals {
		views = append(views, s.project(&rentals[i]))
	}
	return views
}

// TotalDue reports what a rental currently owes: the live projected total
// for an active rental, the stored total otherwise.
func (s *RentalService) TotalDue(rental *model.Rental) float64 {
	return pricing.Project(rental, s.now()).CurrentTotal
}

