package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodUPI          = "upi"
	PaymentMethodCheque       = "cheque"
	PaymentMethodOther        = "other"
)

// Payment is an immutable record of one received amount and its
// interest-first split. PrincipalPaid + InterestPaid always equals Amount.
type Payment struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	PaymentID            string          `json:"paymentId" db:"payment_id"`
	LoanID               string          `json:"loanId" db:"loan_id"`
	Amount               decimal.Decimal `json:"amount" db:"amount"`
	PrincipalPaid        decimal.Decimal `json:"principalPaid" db:"principal_paid"`
	InterestPaid         decimal.Decimal `json:"interestPaid" db:"interest_paid"`
	PaymentDate          time.Time       `json:"paymentDate" db:"payment_date"`
	PaymentMethod        string          `json:"paymentMethod" db:"payment_method"`
	Status               string          `json:"status" db:"status"`
	TransactionReference string          `json:"transactionReference,omitempty" db:"transaction_reference"`
	Notes                string          `json:"notes,omitempty" db:"notes"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time       `json:"updatedAt" db:"updated_at"`
}

// DTOs for requests and responses

type CreatePaymentRequest struct {
	LoanID               string          `json:"loanId" validate:"required"`
	Amount               decimal.Decimal `json:"amount" validate:"required,gt=0"`
	PaymentDate          string          `json:"paymentDate" validate:"required,datetime=2006-01-02"`
	PaymentMethod        string          `json:"paymentMethod" validate:"required,oneof=cash bank_transfer upi cheque other"`
	TransactionReference string          `json:"transactionReference" validate:"max=100"`
	Notes                string          `json:"notes" validate:"max=500"`
}

// UpdatePaymentRequest covers administrative corrections only; the amount and
// its split are immutable once allocated.
type UpdatePaymentRequest struct {
	PaymentMethod        string `json:"paymentMethod" validate:"omitempty,oneof=cash bank_transfer upi cheque other"`
	TransactionReference string `json:"transactionReference" validate:"omitempty,max=100"`
	Notes                string `json:"notes" validate:"omitempty,max=500"`
}

// PaymentFilter narrows List results
type PaymentFilter struct {
	LoanID string
	Status string
	Method string
}
