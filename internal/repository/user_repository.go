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

const userColumns = `id, email, password, full_name, phone, points, role, is_active, created_at, updated_at`

// UserRepository provides data access for user accounts using pgx.
type UserRepository struct {
	pool database.TxQuerier
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a new UserRepository with a custom pool
// interface. This is primarily used for testing.
func NewUserRepositoryWithPool(pool database.TxQuerier) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
		&u.Points, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert inserts a new user and fills in the generated fields.
// Returns service.ErrEmailExists on a duplicate email.
func (r *UserRepository) Insert(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, password, full_name, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, points, is_active, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.FullName, user.Phone, user.Role,
	).Scan(&user.ID, &user.Points, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return service.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email.
// Returns nil, nil if no account exists (service layer handles this).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID.
// Returns service.ErrUserNotFound if the user doesn't exist.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// GetForUpdate retrieves a user with a row lock (SELECT FOR UPDATE).
// Must be called within a transaction. Used whenever the points balance is
// about to change.
func (r *UserRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	user, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d for update: %w", id, err)
	}
	return user, nil
}

// UpdateProfile persists the mutable profile fields of a user.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	query := `UPDATE users
		SET full_name = $2, phone = $3, password = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, user.ID, user.FullName, user.Phone, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// AddPoints adjusts a user's points balance by delta.
// Must be called within a transaction after locking the row.
func (r *UserRepository) AddPoints(ctx context.Context, tx database.TxQuerier, id int64, delta int) error {
	query := `UPDATE users SET points = points + $2, updated_at = NOW() WHERE id = $1`

	_, err := tx.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("add %d points to user %d: %w", delta, id, err)
	}
	return nil
}

// SetActive flips the account's active flag.
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set user %d active=%t: %w", id, active, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// List retrieves all users ordered by registration time, newest first.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone,
			&u.Points, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

// Count returns the number of registered accounts.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
