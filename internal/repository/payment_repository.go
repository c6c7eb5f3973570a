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

const paymentColumns = `id, rental_id, payment_type, amount, reference_number,
	is_received, received_by, received_at, notes, created_at`

// PaymentRepository provides data access for payments using pgx.
type PaymentRepository struct {
	pool database.TxQuerier
}

// NewPaymentRepository creates a new PaymentRepository with the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// NewPaymentRepositoryWithPool creates a new PaymentRepository with a custom
// pool interface. This is primarily used for testing.
func NewPaymentRepositoryWithPool(pool database.TxQuerier) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID, &p.RentalID, &p.PaymentType, &p.Amount, &p.ReferenceNumber,
		&p.IsReceived, &p.ReceivedBy, &p.ReceivedAt, &p.Notes, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert inserts a new payment and fills in the generated fields.
func (r *PaymentRepository) Insert(ctx context.Context, payment *model.Payment) error {
	query := `INSERT INTO payments (rental_id, payment_type, amount, reference_number, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_received, created_at`

	err := r.pool.QueryRow(ctx, query,
		payment.RentalID, payment.PaymentType, payment.Amount,
		payment.ReferenceNumber, payment.Notes,
	).Scan(&payment.ID, &payment.IsReceived, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by ID.
// Returns service.ErrPaymentNotFound if the payment doesn't exist.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return payment, nil
}

// GetForUpdate retrieves a payment with a row lock (SELECT FOR UPDATE).
// Confirmation serializes here so the received flip stays one-way.
func (r *PaymentRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`

	payment, err := scanPayment(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment %d for update: %w", id, err)
	}
	return payment, nil
}

// ListByRental retrieves all payments against a rental, oldest first.
func (r *PaymentRepository) ListByRental(ctx context.Context, rentalID int64) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE rental_id = $1 ORDER BY created_at`
	return r.queryPayments(ctx, query, rentalID)
}

// ListPending retrieves all unconfirmed payments, oldest first, for the
// admin reconciliation queue.
func (r *PaymentRepository) ListPending(ctx context.Context) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE is_received = FALSE ORDER BY created_at`
	return r.queryPayments(ctx, query)
}

func (r *PaymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(
			&p.ID, &p.RentalID, &p.PaymentType, &p.Amount, &p.ReferenceNumber,
			&p.IsReceived, &p.ReceivedBy, &p.ReceivedAt, &p.Notes, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	return payments, nil
}

// MarkReceived flips a payment to received.
// Must be called within a transaction after locking the row.
func (r *PaymentRepository) MarkReceived(ctx context.Context, tx database.TxQuerier, id, adminID int64, at time.Time) error {
	query := `UPDATE payments
		SET is_received = TRUE, received_by = $2, received_at = $3
		WHERE id = $1`

	_, err := tx.Exec(ctx, query, id, adminID, at)
	if err != nil {
		return fmt.Errorf("mark payment %d received: %w", id, err)
	}
	return nil
}

// SumReceivedByRental totals the confirmed payments against a rental.
// When called within the confirmation transaction it sees the row just
// flipped by MarkReceived.
func (r *PaymentRepository) SumReceivedByRental(ctx context.Context, q database.TxQuerier, rentalID int64) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE rental_id = $1 AND is_received = TRUE`

	var total float64
	if err := q.QueryRow(ctx, query, rentalID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum received payments for rental %d: %w", rentalID, err)
	}
	return total, nil
}

// Statistics aggregates payment totals for the admin dashboard.
func (r *PaymentRepository) Statistics(ctx context.Context) (*model.PaymentStatistics, error) {
	var stats model.PaymentStatistics
	err := r.pool.QueryRow(ctx, `SELECT
			COALESCE(SUM(amount) FILTER (WHERE is_received), 0),
			COALESCE(SUM(amount) FILTER (WHERE NOT is_received), 0)
		FROM payments`).Scan(&stats.TotalReceived, &stats.TotalPending)
	if err != nil {
		return nil, fmt.Errorf("payment statistics: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT payment_type, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments WHERE is_received = TRUE
		GROUP BY payment_type ORDER BY payment_type`)
	if err != nil {
		return nil, fmt.Errorf("payment statistics by type: %w", err)
	}
	defer rows.Close()

	stats.ByType = []model.PaymentTypeTotal{}
	for rows.Next() {
		var t model.PaymentTypeTotal
		if err := rows.Scan(&t.PaymentType, &t.Count, &t.Total); err != nil {
			return nil, fmt.Errorf("scan payment type total: %w", err)
		}
		stats.ByType = append(stats.ByType, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment type totals: %w", err)
	}
	return &stats, nil
}
