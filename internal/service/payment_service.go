package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
	"github.com/Thalanas110/CarRentalAPI/internal/pricing"
	"github.com/Thalanas110/CarRentalAPI/pkg/database"
)

// PaymentRepositoryInterface defines the interface for payment data access.
type PaymentRepositoryInterface interface {
	Insert(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Payment, error)
	ListByRental(ctx context.Context, rentalID int64) ([]model.Payment, error)
	ListPending(ctx context.Context) ([]model.Payment, error)
	MarkReceived(ctx context.Context, tx database.TxQuerier, id, adminID int64, at time.Time) error
	SumReceivedByRental(ctx context.Context, q database.TxQuerier, rentalID int64) (float64, error)
	Statistics(ctx context.Context) (*model.PaymentStatistics, error)
}

// RentalLockerInterface is the slice of rental data access that payment
// reconciliation needs.
type RentalLockerInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Rental, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Rental, error)
	UpdateStatus(ctx context.Context, tx database.TxQuerier, id int64, status string) error
}

// PaymentService provides business logic for offline payment recording
// and admin reconciliation. Payments are declarations until an admin
// confirms receipt; confirmation is the only mutation and it is one-way.
type PaymentService struct {
	pool        TxBeginner
	paymentRepo PaymentRepositoryInterface
	rentalRepo  RentalLockerInterface
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService with the given pool and
// repositories.
func NewPaymentService(pool *pgxpool.Pool, paymentRepo PaymentRepositoryInterface, rentalRepo RentalLockerInterface) *PaymentService {
	return &PaymentService{
		pool:        pool,
		paymentRepo: paymentRepo,
		rentalRepo:  rentalRepo,
		now:         time.Now,
	}
}

// NewPaymentServiceWithTxBeginner creates a PaymentService with a custom
// TxBeginner and clock. Primarily used for testing.
func NewPaymentServiceWithTxBeginner(pool TxBeginner, paymentRepo PaymentRepositoryInterface, rentalRepo RentalLockerInterface, now func() time.Time) *PaymentService {
	return &PaymentService{
		pool:        pool,
		paymentRepo: paymentRepo,
		rentalRepo:  rentalRepo,
		now:         now,
	}
}

// Record declares a payment against the caller's rental. The payment
// starts unconfirmed; a missing reference number gets a generated one.
// Returns ErrRentalCancelled when the rental has been cancelled.
func (s *PaymentService) Record(ctx context.Context, ident auth.Identity, req *model.CreatePaymentRequest) (*model.Payment, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	rental, err := s.rentalRepo.GetByID(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != ident.UserID && !ident.IsAdmin() {
		return nil, ErrNotOwner
	}
	if rental.Status == model.RentalCancelled {
		return nil, ErrRentalCancelled
	}

	ref := req.ReferenceNumber
	if ref == nil {
		generated := "PAY-" + strings.ToUpper(uuid.NewString()[:8])
		ref = &generated
	}

	payment := &model.Payment{
		RentalID:        req.RentalID,
		PaymentType:     req.PaymentType,
		Amount:          req.Amount,
		ReferenceNumber: ref,
		Notes:           req.Notes,
	}
	if err := s.paymentRepo.Insert(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Confirm marks a payment as received and reconciles the rental. The
// payment and rental rows are locked so two admins confirming at once
// serialize; the second sees ErrPaymentAlreadyConfirmed. When the
// confirmed total covers what the rental owes and the rental is still
// pending, it advances to confirmed.
func (s *PaymentService) Confirm(ctx context.Context, admin auth.Identity, paymentID int64) (*model.ConfirmPaymentResponse, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	payment, err := s.paymentRepo.GetForUpdate(ctx, tx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.IsReceived {
		return nil, ErrPaymentAlreadyConfirmed
	}

	rental, err := s.rentalRepo.GetForUpdate(ctx, tx, payment.RentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status == model.RentalCancelled {
		return nil, ErrRentalCancelled
	}

	if err := s.paymentRepo.MarkReceived(ctx, tx, paymentID, admin.UserID, s.now()); err != nil {
		return nil, err
	}

	totalPaid, err := s.paymentRepo.SumReceivedByRental(ctx, tx, payment.RentalID)
	if err != nil {
		return nil, err
	}

	totalDue := pricing.Project(rental, s.now()).CurrentTotal
	status := rental.Status
	if totalPaid >= totalDue && rental.Status == model.RentalPending {
		if err := s.rentalRepo.UpdateStatus(ctx, tx, rental.ID, model.RentalConfirmed); err != nil {
			return nil, err
		}
		status = model.RentalConfirmed
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &model.ConfirmPaymentResponse{
		PaymentID:    paymentID,
		IsReceived:   true,
		TotalPaid:    totalPaid,
		TotalDue:     totalDue,
		IsFullyPaid:  totalPaid >= totalDue,
		RentalStatus: status,
	}, nil
}

// ListByRental retrieves a rental's payments with its running balance.
// Callers see only their own rentals; admins see all.
func (s *PaymentService) ListByRental(ctx context.Context, ident auth.Identity, rentalID int64) (*model.RentalPaymentsResponse, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.UserID != ident.UserID && !ident.IsAdmin() {
		return nil, ErrNotOwner
	}

	payments, err := s.paymentRepo.ListByRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	var totalPaid float64
	for _, p := range payments {
		if p.IsReceived {
			totalPaid += p.Amount
		}
	}
	totalDue := pricing.Project(rental, s.now()).CurrentTotal

	balance := totalDue - totalPaid
	if balance < 0 {
		balance = 0
	}
	return &model.RentalPaymentsResponse{
		Payments:  payments,
		TotalPaid: totalPaid,
		TotalDue:  totalDue,
		Balance:   balance,
	}, nil
}

// ListPending retrieves the admin reconciliation queue.
func (s *PaymentService) ListPending(ctx context.Context) ([]model.Payment, error) {
	return s.paymentRepo.ListPending(ctx)
}

// Statistics aggregates payment figures for the admin dashboard.
func (s *PaymentService) Statistics(ctx context.Context) (*model.PaymentStatistics, error) {
	return s.paymentRepo.Statistics(ctx)
}
