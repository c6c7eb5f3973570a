package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Thalanas110/CarRentalAPI/internal/model"
	"github.com/Thalanas110/CarRentalAPI/pkg/database"
)

// EventLogRepository provides data access for the audit trail using pgx.
type EventLogRepository struct {
	pool database.TxQuerier
}

// NewEventLogRepository creates a new EventLogRepository with the given pool.
func NewEventLogRepository(pool *pgxpool.Pool) *EventLogRepository {
	return &EventLogRepository{pool: pool}
}

// NewEventLogRepositoryWithPool creates a new EventLogRepository with a
// custom pool interface. This is primarily used for testing.
func NewEventLogRepositoryWithPool(pool database.TxQuerier) *EventLogRepository {
	return &EventLogRepository{pool: pool}
}

// Insert appends one audit entry. Callers treat failures as non-fatal.
func (r *EventLogRepository) Insert(ctx context.Context, entry *model.EventLog) error {
	query := `INSERT INTO event_logs (event_type, event_category, event_description,
			user_id, user_email, metadata, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		entry.EventType, entry.Category, entry.Description,
		entry.UserID, entry.UserEmail, entry.Metadata, entry.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}
	return nil
}

// List retrieves recent audit entries, newest first, optionally filtered by
// category. limit caps the page size; values outside 1..500 fall back to 100.
func (r *EventLogRepository) List(ctx context.Context, category string, limit int) ([]model.EventLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	query := `SELECT id, event_type, event_category, event_description,
			user_id, user_email, metadata, ip_address, created_at
		FROM event_logs`
	args := []any{}
	if category != "" {
		query += ` WHERE event_category = $1`
		args = append(args, category)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query event logs: %w", err)
	}
	defer rows.Close()

	entries := []model.EventLog{}
	for rows.Next() {
		var e model.EventLog
		if err := rows.Scan(
			&e.ID, &e.EventType, &e.Category, &e.Description,
			&e.UserID, &e.UserEmail, &e.Metadata, &e.IPAddress, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event log rows: %w", err)
	}
	return entries, nil
}
