package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Thalanas110/CarRentalAPI/internal/model"
	"github.com/Thalanas110/CarRentalAPI/internal/service"
	"github.com/Thalanas110/CarRentalAPI/pkg/database"
)

const rentalColumns = `id, user_id, car_id, rental_type, start_time, expected_end_time,
	actual_end_time, duration_hours, base_price, chauffeur_fee, discount_amount,
	overtime_fee, total_price, promo_id, key_released, key_released_at,
	key_returned, key_returned_at, status, notes, created_at`

// RentalRepository provides data access for rentals using pgx.
type RentalRepository struct {
	pool database.TxQuerier
}

// NewRentalRepository creates a new RentalRepository with the given pool.
func NewRentalRepository(pool *pgxpool.Pool) *RentalRepository {
	return &RentalRepository{pool: pool}
}

// NewRentalRepositoryWithPool creates a new RentalRepository with a custom
// pool interface. This is primarily used for testing.
func NewRentalRepositoryWithPool(pool database.TxQuerier) *RentalRepository {
	return &RentalRepository{pool: pool}
}

func scanRental(row pgx.Row) (*model.Rental, error) {
	var rent model.Rental
	err := row.Scan(
		&rent.ID, &rent.UserID, &rent.CarID, &rent.RentalType, &rent.StartTime,
		&rent.ExpectedEndTime, &rent.ActualEndTime, &rent.DurationHours,
		&rent.BasePrice, &rent.ChauffeurFee, &rent.DiscountAmount,
		&rent.OvertimeFee, &rent.TotalPrice, &rent.PromoID,
		&rent.KeyReleased, &rent.KeyReleasedAt, &rent.KeyReturned, &rent.KeyReturnedAt,
		&rent.Status, &rent.Notes, &rent.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rent, nil
}

// Insert inserts a new rental within a transaction and fills in the
// generated fields.
func (r *RentalRepository) Insert(ctx context.Context, tx database.TxQuerier, rental *model.Rental) error {
	query := `INSERT INTO rentals (user_id, car_id, rental_type, start_time,
			expected_end_time, duration_hours, base_price, chauffeur_fee,
			discount_amount, total_price, promo_id, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		rental.UserID, rental.CarID, rental.RentalType, rental.StartTime,
		rental.ExpectedEndTime, rental.DurationHours, rental.BasePrice,
		rental.ChauffeurFee, rental.DiscountAmount, rental.TotalPrice,
		rental.PromoID, rental.Status, rental.Notes,
	).Scan(&rental.ID, &rental.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}

// GetByID retrieves a rental by ID.
// Returns service.ErrRentalNotFound if the rental doesn't exist.
func (r *RentalRepository) GetByID(ctx context.Context, id int64) (*model.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`

	rental, err := scanRental(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrRentalNotFound
		}
		return nil, fmt.Errorf("get rental %d: %w", id, err)
	}
	return rental, nil
}

// GetForUpdate retrieves a rental with a row lock (SELECT FOR UPDATE).
// Every lifecycle transition re-reads the status under this lock so that
// concurrent transitions serialize instead of racing.
func (r *RentalRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1 FOR UPDATE`

	rental, err := scanRental(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrRentalNotFound
		}
		return nil, fmt.Errorf("get rental %d for update: %w", id, err)
	}
	return rental, nil
}

// ListByUser retrieves a user's rentals, newest first.
func (r *RentalRepository) ListByUser(ctx context.Context, userID int64) ([]model.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryRentals(ctx, query, userID)
}

// List retrieves all rentals, optionally filtered by status.
func (r *RentalRepository) List(ctx context.Context, status string) ([]model.Rental, error) {
	if status != "" {
		query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 ORDER BY created_at DESC`
		return r.queryRentals(ctx, query, status)
	}
	query := `SELECT ` + rentalColumns + ` FROM rentals ORDER BY created_at DESC`
	return r.queryRentals(ctx, query)
}

func (r *RentalRepository) queryRentals(ctx context.Context, query string, args ...any) ([]model.Rental, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rentals: %w", err)
	}
	defer rows.Close()

	rentals := []model.Rental{}
	for rows.Next() {
		var rent model.Rental
		if err := rows.Scan(
			&rent.ID, &rent.UserID, &rent.CarID, &rent.RentalType, &rent.StartTime,
			&rent.ExpectedEndTime, &rent.ActualEndTime, &rent.DurationHours,
			&rent.BasePrice, &rent.ChauffeurFee, &rent.DiscountAmount,
			&rent.OvertimeFee, &rent.TotalPrice, &rent.PromoID,
			&rent.KeyReleased, &rent.KeyReleasedAt, &rent.KeyReturned, &rent.KeyReturnedAt,
			&rent.Status, &rent.Notes, &rent.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rental row: %w", err)
		}
		rentals = append(rentals, rent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rental rows: %w", err)
	}
	return rentals, nil
}

// UpdateStatus sets a rental's status within a transaction.
func (r *RentalRepository) UpdateStatus(ctx context.Context, tx database.TxQuerier, id int64, status string) error {
	query := `UPDATE rentals SET status = $2 WHERE id = $1`

	_, err := tx.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update rental %d status to %s: %w", id, status, err)
	}
	return nil
}

// ReleaseKey marks the key handover and activates the rental.
// Must be called within a transaction after locking the row.
func (r *RentalRepository) ReleaseKey(ctx context.Context, tx database.TxQuerier, id int64, at time.Time) error {
	query := `UPDATE rentals
		SET key_released = TRUE, key_released_at = $2, status = $3
		WHERE id = $1`

	_, err := tx.Exec(ctx, query, id, at, model.RentalActive)
	if err != nil {
		return fmt.Errorf("release key for rental %d: %w", id, err)
	}
	return nil
}

// FinalizeReturn persists the settled state of a returned rental.
// Must be called within a transaction after locking the row.
func (r *RentalRepository) FinalizeReturn(ctx context.Context, tx database.TxQuerier, id int64, at time.Time, overtimeFee, totalPrice float64) error {
	query := `UPDATE rentals
		SET actual_end_time = $2, overtime_fee = $3, total_price = $4,
			key_returned = TRUE, key_returned_at = $2, status = $5
		WHERE id = $1`

	_, err := tx.Exec(ctx, query, id, at, overtimeFee, totalPrice, model.RentalCompleted)
	if err != nil {
		return fmt.Errorf("finalize return for rental %d: %w", id, err)
	}
	return nil
}

// CountLiveByCar counts rentals that still hold the car (pending, confirmed
// or active). Used as the delete guard for cars.
func (r *RentalRepository) CountLiveByCar(ctx context.Context, carID int64) (int, error) {
	query := `SELECT COUNT(*) FROM rentals
		WHERE car_id = $1 AND status IN ($2, $3, $4)`

	var n int
	err := r.pool.QueryRow(ctx, query, carID,
		model.RentalPending, model.RentalConfirmed, model.RentalActive).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count live rentals for car %d: %w", carID, err)
	}
	return n, nil
}

// Statistics aggregates rental counts and revenue for the admin dashboard.
// Revenue only counts completed rentals; pending balances are not revenue yet.
func (r *RentalRepository) Statistics(ctx context.Context, now time.Time) (*model.RentalStatistics, error) {
	query := `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COALESCE(SUM(total_price) FILTER (WHERE status = $2), 0),
			COALESCE(SUM(overtime_fee) FILTER (WHERE status = $2), 0),
			COUNT(*) FILTER (WHERE status = $1 AND expected_end_time < $3)
		FROM rentals`

	var stats model.RentalStatistics
	err := r.pool.QueryRow(ctx, query, model.RentalActive, model.RentalCompleted, now).Scan(
		&stats.TotalRentals, &stats.ActiveRentals, &stats.CompletedRentals,
		&stats.TotalRevenue, &stats.OvertimeCollected, &stats.OverdueRentals,
	)
	if err != nil {
		return nil, fmt.Errorf("rental statistics: %w", err)
	}
	return &stats, nil
}
