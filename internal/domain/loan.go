package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive    = "active"
	LoanStatusClosed    = "closed"
	LoanStatusDefaulted = "defaulted"
)

const (
	InterestTypeDaily   = "daily"
	InterestTypeMonthly = "monthly"
)

// Loan represents a disbursed loan. PrincipalAmount is immutable after
// disbursement; OutstandingPrincipal moves with each allocated payment.
// AnchorDate is the accrual anchor: the disbursement date, or the date of the
// last payment that reduced principal.
type Loan struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	LoanID               string          `json:"loanId" db:"loan_id"`
	CustomerID           string          `json:"customerId" db:"customer_id"`
	PrincipalAmount      decimal.Decimal `json:"principalAmount" db:"principal_amount"`
	InterestType         string          `json:"interestType" db:"interest_type"`
	InterestRate         decimal.Decimal `json:"interestRate" db:"interest_rate"`
	DisbursementDate     time.Time       `json:"disbursementDate" db:"disbursement_date"`
	DueDate              time.Time       `json:"dueDate" db:"due_date"`
	OutstandingPrincipal decimal.Decimal `json:"outstandingPrincipal" db:"outstanding_principal"`
	AnchorDate           time.Time       `json:"anchorDate" db:"anchor_date"`
	Status               string          `json:"status" db:"status"`
	Notes                string          `json:"notes,omitempty" db:"notes"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time       `json:"updatedAt" db:"updated_at"`

	// Derived via CalculateAsOf, never stored
	CurrentInterest  decimal.Decimal `json:"currentInterest" db:"-"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding" db:"-"`
}

// IsActive reports whether the loan can still accept payments.
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	CustomerID       string          `json:"customerId" validate:"required"`
	PrincipalAmount  decimal.Decimal `json:"principalAmount" validate:"required,gt=0"`
	InterestType     string          `json:"interestType" validate:"required,oneof=daily monthly"`
	InterestRate     decimal.Decimal `json:"interestRate" validate:"required,gt=0"`
	DisbursementDate string          `json:"disbursementDate" validate:"required,datetime=2006-01-02"`
	DueDate          string          `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Notes            string          `json:"notes" validate:"max=500"`
}

type UpdateLoanRequest struct {
	DueDate string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Notes   string `json:"notes" validate:"omitempty,max=500"`
}

type CalculateRequest struct {
	AsOfDate string `json:"asOfDate" validate:"required,datetime=2006-01-02"`
}

// CalculationResult is the payment-preview projection of a loan as of a date.
type CalculationResult struct {
	LoanID               string          `json:"loanId"`
	AsOfDate             string          `json:"asOfDate"`
	OutstandingPrincipal decimal.Decimal `json:"outstandingPrincipal"`
	CalculatedInterest   decimal.Decimal `json:"calculatedInterest"`
	TotalOutstanding     decimal.Decimal `json:"totalOutstanding"`
}

// LoanFilter narrows List results
type LoanFilter struct {
	CustomerID   string
	Status       string
	InterestType string
}
