package service

import (
	"context"
	"fmt"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

// CarRepositoryInterface defines the interface for fleet data access.
type CarRepositoryInterface interface {
	Insert(ctx context.Context, car *model.Car) error
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	List(ctx context.Context) ([]model.Car, error)
	ListAvailable(ctx context.Context) ([]model.Car, error)
	Update(ctx context.Context, car *model.Car) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (total, rented int, err error)
}

// RentalCounterInterface is the slice of rental data access the fleet
// service needs for its delete guard.
type RentalCounterInterface interface {
	CountLiveByCar(ctx context.Context, carID int64) (int, error)
}

// RatingAveragerInterface is the slice of rating data access used to
// decorate car detail responses.
type RatingAveragerInterface interface {
	AveragesByCar(ctx context.Context, carID int64) (*model.CarRatingAverages, error)
}

// CarService provides business logic for the fleet and the points-gated
// catalog.
type CarService struct {
	carRepo    CarRepositoryInterface
	rentalRepo RentalCounterInterface
	ratingRepo RatingAveragerInterface
}

// NewCarService creates a new CarService.
func NewCarService(carRepo CarRepositoryInterface, rentalRepo RentalCounterInterface, ratingRepo RatingAveragerInterface) *CarService {
	return &CarService{carRepo: carRepo, rentalRepo: rentalRepo, ratingRepo: ratingRepo}
}

// Catalog splits the available fleet by the caller's points balance: cars
// whose gate the caller clears, and cars still locked behind more points.
// Anonymous callers browse with a zero balance.
func (s *CarService) Catalog(ctx context.Context, ident auth.Identity) (*model.CatalogResponse, error) {
	cars, err := s.carRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available cars: %w", err)
	}

	resp := &model.CatalogResponse{
		Available:  []model.Car{},
		Locked:     []model.Car{},
		UserPoints: ident.Points,
	}
	for _, c := range cars {
		if c.RequiredPoints <= ident.Points {
			resp.Available = append(resp.Available, c)
		} else {
			resp.Locked = append(resp.Locked, c)
		}
	}
	return resp, nil
}

// Get retrieves one car with its rating aggregates.
// Returns ErrCarNotFound if the car doesn't exist.
func (s *CarService) Get(ctx context.Context, id int64) (*model.CarWithRating, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	avg, err := s.ratingRepo.AveragesByCar(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("rating averages: %w", err)
	}
	return &model.CarWithRating{
		Car:          *car,
		AvgCarRating: avg.AvgCarRating,
		TotalRatings: avg.TotalRatings,
	}, nil
}

// List retrieves the whole fleet for the admin console, rented cars
// included.
func (s *CarService) List(ctx context.Context) ([]model.Car, error) {
	return s.carRepo.List(ctx)
}

// Create adds a car to the fleet.
// Returns ErrPlateExists on a duplicate plate number.
func (s *CarService) Create(ctx context.Context, req *model.CreateCarRequest) (*model.Car, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	car := &model.Car{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		PlateNumber:    req.PlateNumber,
		Category:       req.Category,
		PricePerHour:   req.PricePerHour,
		ChauffeurFee:   req.ChauffeurFee,
		RequiredPoints: req.RequiredPoints,
		Description:    req.Description,
		Seats:          req.Seats,
		Transmission:   req.Transmission,
		FuelType:       req.FuelType,
		ImageURL:       req.ImageURL,
	}
	if car.Category == "" {
		car.Category = model.CategoryStandard
	}
	if car.Seats == 0 {
		car.Seats = 5
	}
	if car.Transmission == "" {
		car.Transmission = "automatic"
	}
	if car.FuelType == "" {
		car.FuelType = "gasoline"
	}

	if err := s.carRepo.Insert(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

// Update applies a partial update to a car. Nil fields keep their value;
// is_rented is owned by the rental lifecycle and cannot be set here.
func (s *CarService) Update(ctx context.Context, id int64, req *model.UpdateCarRequest) (*model.Car, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Make != nil {
		car.Make = *req.Make
	}
	if req.Model != nil {
		car.Model = *req.Model
	}
	if req.Year != nil {
		car.Year = *req.Year
	}
	if req.PlateNumber != nil {
		car.PlateNumber = *req.PlateNumber
	}
	if req.Category != nil {
		car.Category = *req.Category
	}
	if req.PricePerHour != nil {
		car.PricePerHour = *req.PricePerHour
	}
	if req.ChauffeurFee != nil {
		car.ChauffeurFee = *req.ChauffeurFee
	}
	if req.RequiredPoints != nil {
		car.RequiredPoints = *req.RequiredPoints
	}
	if req.Description != nil {
		car.Description = req.Description
	}
	if req.Seats != nil {
		car.Seats = *req.Seats
	}
	if req.Transmission != nil {
		car.Transmission = *req.Transmission
	}
	if req.FuelType != nil {
		car.FuelType = *req.FuelType
	}
	if req.ImageURL != nil {
		car.ImageURL = req.ImageURL
	}
	if req.IsAvailable != nil {
		car.IsAvailable = *req.IsAvailable
	}

	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

// Delete removes a car from the fleet.
// Returns ErrCarHasRentals while any rental still holds the car.
func (s *CarService) Delete(ctx context.Context, id int64) error {
	if _, err := s.carRepo.GetByID(ctx, id); err != nil {
		return err
	}

	live, err := s.rentalRepo.CountLiveByCar(ctx, id)
	if err != nil {
		return fmt.Errorf("count live rentals: %w", err)
	}
	if live > 0 {
		return ErrCarHasRentals
	}
	return s.carRepo.Delete(ctx, id)
}

// Count returns fleet totals for the admin dashboard.
func (s *CarService) Count(ctx context.Context) (total, rented int, err error) {
	return s.carRepo.Count(ctx)
}
