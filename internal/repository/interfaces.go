package repository

import (
	"context"

	"github.com/kpraveenraj/lending-engine/internal/domain"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByCustomerID retrieves a customer with derived loan counts
	GetByCustomerID(ctx context.Context, customerID string) (*domain.Customer, error)

	// List retrieves customers matching the filter, with derived loan counts
	List(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, error)

	// Update updates a customer's mutable fields
	Update(ctx context.Context, customer *domain.Customer) error

	// Delete removes a customer
	Delete(ctx context.Context, customerID string) error
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanID retrieves a loan by its loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// List retrieves loans matching the filter
	List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error)

	// Update updates a loan's mutable fields and balances
	Update(ctx context.Context, loan *domain.Loan) error

	// ApplyPayment runs allocate inside one transaction holding a row lock on
	// the loan, so concurrent payments against the same loan serialize instead
	// of double-allocating. Mutations allocate makes to the loan and the
	// payment it returns are committed atomically; any error rolls everything
	// back, leaving the prior balance intact.
	ApplyPayment(ctx context.Context, loanID string, allocate func(loan *domain.Loan) (*domain.Payment, error)) (*domain.Payment, error)

	// ReversePayment deletes a payment inside one transaction holding a row
	// lock on its loan. compensate receives the locked loan, the payment being
	// reversed, and the loan's remaining payments ordered by payment date, and
	// mutates the loan to undo the payment's effect.
	ReversePayment(ctx context.Context, paymentID string, compensate func(loan *domain.Loan, payment *domain.Payment, remaining []*domain.Payment) error) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// GetByPaymentID retrieves a payment by its payment ID
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// GetByLoanID retrieves all payments for a loan ordered by payment date
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error)

	// List retrieves payments matching the filter ordered by payment date
	List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error)

	// Update updates a payment's administrative fields
	Update(ctx context.Context, payment *domain.Payment) error
}
