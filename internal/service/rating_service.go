package service

import (
	"context"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// RatingRepositoryInterface defines the interface for rating data access.
type RatingRepositoryInterface interface {
	Insert(ctx context.Context, rating *model.Rating) error
	GetByID(ctx context.Context, id int64) (*model.Rating, error)
	ListByCar(ctx context.Context, carID int64) ([]model.Rating, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Rating, error)
	Update(ctx context.Context, rating *model.Rating) error
	Delete(ctx context.Context, id int64) error
	AveragesByCar(ctx context.Context, carID int64) (*model.CarRatingAverages, error)
}

// RentalReaderInterface is the slice of rental data access the rating
// rules need.
type RentalReaderInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Rental, error)
}

// RatingService provides business logic for post-rental feedback. A
// rating requires a completed rental owned by the caller, and each
// rental is rated at most once.
type RatingService struct {
	ratingRepo RatingRepositoryInterface
	rentalRepo RentalReaderInterface
}

// NewRatingService creates a new RatingService.
func NewRatingService(ratingRepo RatingRepositoryInterface, rentalRepo RentalReaderInterface) *RatingService {
	return &RatingService{ratingRepo: ratingRepo, rentalRepo: rentalRepo}
}

// Create rates a completed rental.
// Returns ErrRentalNotCompleted before return, ErrNotOwner for someone
// else's rental, and ErrRatingExists on a repeat.
func (s *RatingService) Create(ctx context.Context, ident auth.Identity, req *model.CreateRatingRequest) (*model.Rating, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	rental, err := s.rentalRepo.GetByID(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != ident.UserID {
		return nil, ErrNotOwner
	}
	if rental.Status != model.RentalCompleted {
		return nil, ErrRentalNotCompleted
	}

	rating := &model.Rating{
		UserID:        ident.UserID,
		RentalID:      rental.ID,
		CarID:         rental.CarID,
		CarRating:     req.CarRating,
		ServiceRating: req.ServiceRating,
		Comment:       req.Comment,
	}
	if err := s.ratingRepo.Insert(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// Update edits the caller's rating. Admins may edit any rating.
func (s *RatingService) Update(ctx context.Context, ident auth.Identity, ratingID int64, req *model.UpdateRatingRequest) (*model.Rating, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if rating.UserID != ident.UserID && !ident.IsAdmin() {
		return nil, ErrNotOwner
	}

	if req.CarRating != nil {
		rating.CarRating = *req.CarRating
	}
	if req.ServiceRating != nil {
		rating.ServiceRating = *req.ServiceRating
	}
	if req.Comment != nil {
		rating.Comment = req.Comment
	}

	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// Delete removes the caller's rating. Admins may remove any rating.
func (s *RatingService) Delete(ctx context.Context, ident auth.Identity, ratingID int64) error {
	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating.UserID != ident.UserID && !ident.IsAdmin() {
		return ErrNotOwner
	}
	return s.ratingRepo.Delete(ctx, ratingID)
}

// ListByCar retrieves the approved ratings shown on a car's detail page.
func (s *RatingService) ListByCar(ctx context.Context, carID int64) ([]model.Rating, error) {
	return s.ratingRepo.ListByCar(ctx, carID)
}

// ListMine retrieves the caller's own ratings.
func (s *RatingService) ListMine(ctx context.Context, ident auth.Identity) ([]model.Rating, error) {
	return s.ratingRepo.ListByUser(ctx, ident.UserID)
}

// AveragesByCar retrieves a car's rating aggregates.
func (s *RatingService) AveragesByCar(ctx context.Context, carID int64) (*model.CarRatingAverages, error) {
	return s.ratingRepo.AveragesByCar(ctx, carID)
}
