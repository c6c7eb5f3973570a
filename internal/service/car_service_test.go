package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
)

func TestCarService_Catalog_SplitsByPoints(t *testing.T) {
	cars := &mockCarRepository{
		listAvailableFn: func(ctx context.Context) ([]model.Car, error) {
			return []model.Car{
				{ID: 1, RequiredPoints: 0, IsAvailable: true},
				{ID: 2, RequiredPoints: 30, IsAvailable: true},
				{ID: 3, RequiredPoints: 100, IsAvailable: true},
			}, nil
		},
	}

	svc := NewCarService(cars, &mockRentalRepository{}, &mockRatingRepository{})
	resp, err := svc.Catalog(context.Background(), auth.Identity{UserID: 7, Points: 30})

	require.NoError(t, err)
	require.Len(t, resp.Available, 2)
	require.Len(t, resp.Locked, 1)
	assert.Equal(t, int64(3), resp.Locked[0].ID)
	assert.Equal(t, 30, resp.UserPoints)
}

func TestCarService_Catalog_Anonymous(t *testing.T) {
	cars := &mockCarRepository{
		listAvailableFn: func(ctx context.Context) ([]model.Car, error) {
			return []model.Car{
				{ID: 1, RequiredPoints: 0, IsAvailable: true},
				{ID: 2, RequiredPoints: 10, IsAvailable: true},
			}, nil
		},
	}

	svc := NewCarService(cars, &mockRentalRepository{}, &mockRatingRepository{})
	resp, err := svc.Catalog(context.Background(), auth.Identity{})

	require.NoError(t, err)
	require.Len(t, resp.Available, 1)
	require.Len(t, resp.Locked, 1)
	assert.Equal(t, 0, resp.UserPoints)
}

func TestCarService_Get_WithRatings(t *testing.T) {
	cars := &mockCarRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Car, error) {
			car := bookableCar()
			return car, nil
		},
	}
	ratings := &mockRatingRepository{
		averagesByCarFn: func(ctx context.Context, carID int64) (*model.CarRatingAverages, error) {
			return &model.CarRatingAverages{AvgCarRating: 4.5, TotalRatings: 12}, nil
		},
	}

	svc := NewCarService(cars, &mockRentalRepository{}, ratings)
	car, err := svc.Get(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 4.5, car.AvgCarRating)
	assert.Equal(t, 12, car.TotalRatings)
}

func TestCarService_Delete_BlockedByLiveRentals(t *testing.T) {
	cars := &mockCarRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Car, error) {
			return bookableCar(), nil
		},
	}
	rentals := &mockRentalRepository{
		countLiveByCarFn: func(ctx context.Context, carID int64) (int, error) {
			return 1, nil
		},
	}

	svc := NewCarService(cars, rentals, &mockRatingRepository{})
	err := svc.Delete(context.Background(), 3)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCarHasRentals))
}

func TestCarService_Delete_Success(t *testing.T) {
	deleted := false
	cars := &mockCarRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Car, error) {
			return bookableCar(), nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}

	svc := NewCarService(cars, &mockRentalRepository{}, &mockRatingRepository{})
	err := svc.Delete(context.Background(), 3)

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestCarService_Create_Defaults(t *testing.T) {
	var inserted *model.Car
	cars := &mockCarRepository{
		insertFn: func(ctx context.Context, car *model.Car) error {
			car.ID = 1
			inserted = car
			return nil
		},
	}

	svc := NewCarService(cars, &mockRentalRepository{}, &mockRatingRepository{})
	_, err := svc.Create(context.Background(), &model.CreateCarRequest{
		Make:         "Toyota",
		Model:        "Vios",
		Year:         2023,
		PlateNumber:  "ABC-1234",
		PricePerHour: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, model.CategoryStandard, inserted.Category)
	assert.Equal(t, 5, inserted.Seats)
	assert.Equal(t, "automatic", inserted.Transmission)
}

func TestCarService_Update_CannotTouchIsRented(t *testing.T) {
	car := bookableCar()
	car.IsRented = true
	var saved *model.Car
	cars := &mockCarRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Car, error) {
			return car, nil
		},
		updateFn: func(ctx context.Context, c *model.Car) error {
			saved = c
			return nil
		},
	}

	svc := NewCarService(cars, &mockRentalRepository{}, &mockRatingRepository{})
	_, err := svc.Update(context.Background(), 3, &model.UpdateCarRequest{
		PricePerHour: floatPtr(600),
		IsAvailable:  boolPtr(false),
	})

	require.NoError(t, err)
	assert.Equal(t, 600.0, saved.PricePerHour)
	assert.False(t, saved.IsAvailable)
	assert.True(t, saved.IsRented, "rental flag stays with the lifecycle")
}
