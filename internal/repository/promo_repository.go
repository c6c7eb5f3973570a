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

const promoColumns = `id, code, name, description, discount_type, discount_value,
	max_discount, min_rental_hours, min_points_required, valid_from, valid_until,
	usage_limit, usage_count, applicable_categories, is_active, created_at`

// PromoRepository provides data access for promo codes using pgx.
// applicable_categories is a JSONB column; pgx's JSON codec maps it to
// []string on both sides.
type PromoRepository struct {
	pool database.TxQuerier
}

// NewPromoRepository creates a new PromoRepository with the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// NewPromoRepositoryWithPool creates a new PromoRepository with a custom pool
// interface. This is primarily used for testing.
func NewPromoRepositoryWithPool(pool database.TxQuerier) *PromoRepository {
	return &PromoRepository{pool: pool}
}

func scanPromo(row pgx.Row) (*model.Promo, error) {
	var p model.Promo
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.DiscountType, &p.DiscountValue,
		&p.MaxDiscount, &p.MinRentalHours, &p.MinPointsRequired,
		&p.ValidFrom, &p.ValidUntil, &p.UsageLimit, &p.UsageCount,
		&p.ApplicableCategories, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert inserts a new promo and fills in the generated fields.
// Returns service.ErrPromoCodeExists on a duplicate code.
func (r *PromoRepository) Insert(ctx context.Context, promo *model.Promo) error {
	query := `INSERT INTO promos (code, name, description, discount_type,
			discount_value, max_discount, min_rental_hours, min_points_required,
			valid_from, valid_until, usage_limit, applicable_categories)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, usage_count, is_active, created_at`

	err := r.pool.QueryRow(ctx, query,
		promo.Code, promo.Name, promo.Description, promo.DiscountType,
		promo.DiscountValue, promo.MaxDiscount, promo.MinRentalHours,
		promo.MinPointsRequired, promo.ValidFrom, promo.ValidUntil,
		promo.UsageLimit, promo.ApplicableCategories,
	).Scan(&promo.ID, &promo.UsageCount, &promo.IsActive, &promo.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return service.ErrPromoCodeExists
		}
		return fmt.Errorf("insert promo: %w", err)
	}
	return nil
}

// GetByCode retrieves a promo by its code, case-insensitively.
// Returns nil, nil if no such code exists (service layer handles this).
func (r *PromoRepository) GetByCode(ctx context.Context, code string) (*model.Promo, error) {
	query := `SELECT ` + promoColumns + ` FROM promos WHERE UPPER(code) = UPPER($1)`

	promo, err := scanPromo(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promo by code %s: %w", code, err)
	}
	return promo, nil
}

// GetByID retrieves a promo by ID.
// Returns service.ErrPromoNotFound if the promo doesn't exist.
func (r *PromoRepository) GetByID(ctx context.Context, id int64) (*model.Promo, error) {
	query := `SELECT ` + promoColumns + ` FROM promos WHERE id = $1`

	promo, err := scanPromo(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPromoNotFound
		}
		return nil, fmt.Errorf("get promo %d: %w", id, err)
	}
	return promo, nil
}

// GetForUpdate retrieves a promo with a row lock (SELECT FOR UPDATE).
// Booking locks the promo row before re-checking the usage cap so that two
// concurrent redemptions of the last slot cannot both pass.
func (r *PromoRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.Promo, error) {
	query := `SELECT ` + promoColumns + ` FROM promos WHERE UPPER(code) = UPPER($1) FOR UPDATE`

	promo, err := scanPromo(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPromoNotFound
		}
		return nil, fmt.Errorf("get promo %s for update: %w", code, err)
	}
	return promo, nil
}

// IncrementUsage bumps the redemption counter by 1.
// Must be called within a transaction after locking the row.
func (r *PromoRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, id int64) error {
	query := `UPDATE promos SET usage_count = usage_count + 1 WHERE id = $1`

	_, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment usage for promo %d: %w", id, err)
	}
	return nil
}

// ListActive retrieves active promos currently inside their validity window.
func (r *PromoRepository) ListActive(ctx context.Context) ([]model.Promo, error) {
	query := `SELECT ` + promoColumns + ` FROM promos
		WHERE is_active = TRUE AND valid_from <= NOW() AND valid_until >= NOW()
		ORDER BY valid_until`
	return r.queryPromos(ctx, query)
}

// List retrieves every promo, newest first.
func (r *PromoRepository) List(ctx context.Context) ([]model.Promo, error) {
	query := `SELECT ` + promoColumns + ` FROM promos ORDER BY created_at DESC`
	return r.queryPromos(ctx, query)
}

func (r *PromoRepository) queryPromos(ctx context.Context, query string, args ...any) ([]model.Promo, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query promos: %w", err)
	}
	defer rows.Close()

	promos := []model.Promo{}
	for rows.Next() {
		var p model.Promo
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.Description, &p.DiscountType, &p.DiscountValue,
			&p.MaxDiscount, &p.MinRentalHours, &p.MinPointsRequired,
			&p.ValidFrom, &p.ValidUntil, &p.UsageLimit, &p.UsageCount,
			&p.ApplicableCategories, &p.IsActive, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan promo row: %w", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promo rows: %w", err)
	}
	return promos, nil
}

// Update persists every mutable column of a promo. usage_count is never
// written here; only IncrementUsage touches it.
func (r *PromoRepository) Update(ctx context.Context, promo *model.Promo) error {
	query := `UPDATE promos
		SET name = $2, description = $3, discount_type = $4, discount_value = $5,
			max_discount = $6, min_rental_hours = $7, min_points_required = $8,
			valid_from = $9, valid_until = $10, usage_limit = $11,
			applicable_categories = $12, is_active = $13
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		promo.ID, promo.Name, promo.Description, promo.DiscountType,
		promo.DiscountValue, promo.MaxDiscount, promo.MinRentalHours,
		promo.MinPointsRequired, promo.ValidFrom, promo.ValidUntil,
		promo.UsageLimit, promo.ApplicableCategories, promo.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update promo %d: %w", promo.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrPromoNotFound
	}
	return nil
}
