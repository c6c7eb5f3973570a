package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Thalanas110/CarRentalAPI/internal/model"
	"github.com/Thalanas110/CarRentalAPI/internal/service"
	"github.com/Thalanas110/CarRentalAPI/pkg/database"
)

const carColumns = `id, make, model, year, plate_number, category, price_per_hour,
	chauffeur_fee, required_points, description, seats, transmission, fuel_type,
	image_url, is_available, is_rented, created_at`

// CarRepository provides data access for the fleet using pgx.
type CarRepository struct {
	pool database.TxQuerier
}

// NewCarRepository creates a new CarRepository with the given pool.
func NewCarRepository(pool *pgxpool.Pool) *CarRepository {
	return &CarRepository{pool: pool}
}

// NewCarRepositoryWithPool creates a new CarRepository with a custom pool
// interface. This is primarily used for testing.
func NewCarRepositoryWithPool(pool database.TxQuerier) *CarRepository {
	return &CarRepository{pool: pool}
}

func scanCar(row pgx.Row) (*model.Car, error) {
	var c model.Car
	err := row.Scan(
		&c.ID, &c.Make, &c.Model, &c.Year, &c.PlateNumber, &c.Category,
		&c.PricePerHour, &c.ChauffeurFee, &c.RequiredPoints, &c.Description,
		&c.Seats, &c.Transmission, &c.FuelType, &c.ImageURL,
		&c.IsAvailable, &c.IsRented, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert inserts a new car and fills in the generated fields.
// Returns service.ErrPlateExists on a duplicate plate number.
func (r *CarRepository) Insert(ctx context.Context, car *model.Car) error {
	query := `INSERT INTO cars (make, model, year, plate_number, category,
			price_per_hour, chauffeur_fee, required_points, description, seats,
			transmission, fuel_type, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, is_available, is_rented, created_at`

	err := r.pool.QueryRow(ctx, query,
		car.Make, car.Model, car.Year, car.PlateNumber, car.Category,
		car.PricePerHour, car.ChauffeurFee, car.RequiredPoints, car.Description,
		car.Seats, car.Transmission, car.FuelType, car.ImageURL,
	).Scan(&car.ID, &car.IsAvailable, &car.IsRented, &car.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return service.ErrPlateExists
		}
		return fmt.Errorf("insert car: %w", err)
	}
	return nil
}

// GetByID retrieves a car by ID.
// Returns service.ErrCarNotFound if the car doesn't exist.
func (r *CarRepository) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	car, err := scanCar(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCarNotFound
		}
		return nil, fmt.Errorf("get car %d: %w", id, err)
	}
	return car, nil
}

// GetForUpdate retrieves a car with a row lock (SELECT FOR UPDATE).
// This is the serialization point for booking: two concurrent rentals of the
// same car queue here and the loser sees is_rented already set.
func (r *CarRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 FOR UPDATE`

	car, err := scanCar(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCarNotFound
		}
		return nil, fmt.Errorf("get car %d for update: %w", id, err)
	}
	return car, nil
}

// List retrieves the whole fleet, available or not.
func (r *CarRepository) List(ctx context.Context) ([]model.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars ORDER BY created_at DESC`
	return r.queryCars(ctx, query)
}

// ListAvailable retrieves cars whose administrative flag allows rental,
// ordered by points gate so the catalog renders cheapest-to-unlock first.
func (r *CarRepository) ListAvailable(ctx context.Context) ([]model.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars
		WHERE is_available = TRUE
		ORDER BY required_points, price_per_hour`
	return r.queryCars(ctx, query)
}

func (r *CarRepository) queryCars(ctx context.Context, query string, args ...any) ([]model.Car, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cars: %w", err)
	}
	defer rows.Close()

	cars := []model.Car{}
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(
			&c.ID, &c.Make, &c.Model, &c.Year, &c.PlateNumber, &c.Category,
			&c.PricePerHour, &c.ChauffeurFee, &c.RequiredPoints, &c.Description,
			&c.Seats, &c.Transmission, &c.FuelType, &c.ImageURL,
			&c.IsAvailable, &c.IsRented, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan car row: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate car rows: %w", err)
	}
	return cars, nil
}

// Update persists every mutable column of a car except is_rented, which only
// the rental lifecycle touches.
// Returns service.ErrPlateExists on a duplicate plate number.
func (r *CarRepository) Update(ctx context.Context, car *model.Car) error {
	query := `UPDATE cars
		SET make = $2, model = $3, year = $4, plate_number = $5, category = $6,
			price_per_hour = $7, chauffeur_fee = $8, required_points = $9,
			description = $10, seats = $11, transmission = $12, fuel_type = $13,
			image_url = $14, is_available = $15
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		car.ID, car.Make, car.Model, car.Year, car.PlateNumber, car.Category,
		car.PricePerHour, car.ChauffeurFee, car.RequiredPoints, car.Description,
		car.Seats, car.Transmission, car.FuelType, car.ImageURL, car.IsAvailable,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return service.ErrPlateExists
		}
		return fmt.Errorf("update car %d: %w", car.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCarNotFound
	}
	return nil
}

// SetRented flips the is_rented flag.
// Must be called within a transaction after locking the row.
func (r *CarRepository) SetRented(ctx context.Context, tx database.TxQuerier, id int64, rented bool) error {
	query := `UPDATE cars SET is_rented = $2 WHERE id = $1`

	_, err := tx.Exec(ctx, query, id, rented)
	if err != nil {
		return fmt.Errorf("set car %d rented=%t: %w", id, rented, err)
	}
	return nil
}

// Delete removes a car from the fleet. The service guards against deleting
// cars with live rentals before calling this.
func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete car %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCarNotFound
	}
	return nil
}

// Count returns total fleet size and how many cars are currently out.
func (r *CarRepository) Count(ctx context.Context) (total, rented int, err error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_rented) FROM cars`
	if err := r.pool.QueryRow(ctx, query).Scan(&total, &rented); err != nil {
		return 0, 0, fmt.Errorf("count cars: %w", err)
	}
	return total, rented, nil
}
