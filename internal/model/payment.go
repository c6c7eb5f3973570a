package model

import "time"

// Payment is one recorded payment against a rental. Immutable once created,
// except for the one-way IsReceived flip performed by an admin.
type Payment struct {
	ID              int64      `json:"id"`
	RentalID        int64      `json:"rental_id"`
	PaymentType     string     `json:"payment_type"`
	Amount          float64    `json:"amount"`
	ReferenceNumber *string    `json:"reference_number,omitempty"`
	IsReceived      bool       `json:"is_received"`
	ReceivedBy      *int64     `json:"received_by,omitempty"`
	ReceivedAt      *time.Time `json:"received_at,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreatePaymentRequest is the DTO for POST /api/payments.
type CreatePaymentRequest struct {
	RentalID        int64   `json:"rental_id" validate:"required,gt=0"`
	PaymentType     string  `json:"payment_type" validate:"required,oneof=cash credit_card debit_card gcash maya bank_transfer"`
	Amount          float64 `json:"amount" validate:"required,gte=1"`
	ReferenceNumber *string `json:"reference_number,omitempty" validate:"omitempty,notblank,max=64"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ConfirmPaymentResponse reports the reconciliation result after an admin
// confirms a payment.
type ConfirmPaymentResponse struct {
	PaymentID    int64   `json:"payment_id"`
	IsReceived   bool    `json:"is_received"`
	TotalPaid    float64 `json:"total_paid"`
	TotalDue     float64 `json:"total_due"`
	IsFullyPaid  bool    `json:"is_fully_paid"`
	RentalStatus string  `json:"rental_status"`
}

// RentalPaymentsResponse lists payments for one rental with its balance.
type RentalPaymentsResponse struct {
	Payments  []Payment `json:"payments"`
	TotalPaid float64   `json:"total_paid"`
	TotalDue  float64   `json:"total_due"`
	Balance   float64   `json:"balance"`
}

// PaymentStatistics is the admin dashboard aggregate for payments.
type PaymentStatistics struct {
	TotalReceived float64            `json:"total_received"`
	TotalPending  float64            `json:"total_pending"`
	ByType        []PaymentTypeTotal `json:"by_type"`
}

// PaymentTypeTotal is a per-type rollup of received payments.
type PaymentTypeTotal struct {
	PaymentType string  `json:"payment_type"`
	Count       int     `json:"count"`
	Total       float64 `json:"total"`
}
