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

const ratingColumns = `id, user_id, rental_id, car_id, car_rating, service_rating,
	comment, is_approved, created_at`

// RatingRepository provides data access for ratings using pgx.
type RatingRepository struct {
	pool database.TxQuerier
}

// NewRatingRepository creates a new RatingRepository with the given pool.
func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// NewRatingRepositoryWithPool creates a new RatingRepository with a custom
// pool interface. This is primarily used for testing.
func NewRatingRepositoryWithPool(pool database.TxQuerier) *RatingRepository {
	return &RatingRepository{pool: pool}
}

func scanRating(row pgx.Row) (*model.Rating, error) {
	var rt model.Rating
	err := row.Scan(
		&rt.ID, &rt.UserID, &rt.RentalID, &rt.CarID, &rt.CarRating,
		&rt.ServiceRating, &rt.Comment, &rt.IsApproved, &rt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Insert inserts a new rating and fills in the generated fields.
// Returns service.ErrRatingExists if the rental is already rated; the unique
// constraint on rental_id is the source of truth.
func (r *RatingRepository) Insert(ctx context.Context, rating *model.Rating) error {
	query := `INSERT INTO ratings (user_id, rental_id, car_id, car_rating, service_rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_approved, created_at`

	err := r.pool.QueryRow(ctx, query,
		rating.UserID, rating.RentalID, rating.CarID,
		rating.CarRating, rating.ServiceRating, rating.Comment,
	).Scan(&rating.ID, &rating.IsApproved, &rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return service.ErrRatingExists
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

// GetByID retrieves a rating by ID.
// Returns service.ErrRatingNotFound if the rating doesn't exist.
func (r *RatingRepository) GetByID(ctx context.Context, id int64) (*model.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE id = $1`

	rating, err := scanRating(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrRatingNotFound
		}
		return nil, fmt.Errorf("get rating %d: %w", id, err)
	}
	return rating, nil
}

// GetByRentalID retrieves the rating for a rental.
// Returns nil, nil if the rental has not been rated.
func (r *RatingRepository) GetByRentalID(ctx context.Context, rentalID int64) (*model.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE rental_id = $1`

	rating, err := scanRating(r.pool.QueryRow(ctx, query, rentalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rating for rental %d: %w", rentalID, err)
	}
	return rating, nil
}

// ListByCar retrieves the approved ratings for a car, newest first.
func (r *RatingRepository) ListByCar(ctx context.Context, carID int64) ([]model.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings
		WHERE car_id = $1 AND is_approved = TRUE
		ORDER BY created_at DESC`
	return r.queryRatings(ctx, query, carID)
}

// ListByUser retrieves a user's own ratings, newest first.
func (r *RatingRepository) ListByUser(ctx context.Context, userID int64) ([]model.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryRatings(ctx, query, userID)
}

func (r *RatingRepository) queryRatings(ctx context.Context, query string, args ...any) ([]model.Rating, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	ratings := []model.Rating{}
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(
			&rt.ID, &rt.UserID, &rt.RentalID, &rt.CarID, &rt.CarRating,
			&rt.ServiceRating, &rt.Comment, &rt.IsApproved, &rt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}
	return ratings, nil
}

// Update persists the writable fields of a rating.
func (r *RatingRepository) Update(ctx context.Context, rating *model.Rating) error {
	query := `UPDATE ratings
		SET car_rating = $2, service_rating = $3, comment = $4
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		rating.ID, rating.CarRating, rating.ServiceRating, rating.Comment)
	if err != nil {
		return fmt.Errorf("update rating %d: %w", rating.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrRatingNotFound
	}
	return nil
}

// Delete removes a rating.
func (r *RatingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rating %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrRatingNotFound
	}
	return nil
}

// AveragesByCar computes the rating aggregates for a car's detail page.
// Returns zeroes when the car has no approved ratings.
func (r *RatingRepository) AveragesByCar(ctx context.Context, carID int64) (*model.CarRatingAverages, error) {
	query := `SELECT
			COALESCE(ROUND(AVG(car_rating)::numeric, 2), 0),
			COALESCE(ROUND(AVG(service_rating)::numeric, 2), 0),
			COUNT(*)
		FROM ratings WHERE car_id = $1 AND is_approved = TRUE`

	var avg model.CarRatingAverages
	err := r.pool.QueryRow(ctx, query, carID).Scan(
		&avg.AvgCarRating, &avg.AvgServiceRating, &avg.TotalRatings)
	if err != nil {
		return nil, fmt.Errorf("rating averages for car %d: %w", carID, err)
	}
	return &avg, nil
}
