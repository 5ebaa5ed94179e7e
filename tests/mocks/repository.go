package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kpraveenraj/lending-engine/internal/domain"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

// ApplyPayment runs the allocate callback against the loan configured via
// Return, mirroring the real repository's locked read-modify-write.
func (m *MockLoanRepository) ApplyPayment(ctx context.Context, loanID string, allocate func(loan *domain.Loan) (*domain.Payment, error)) (*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	loan := args.Get(0).(*domain.Loan)
	payment, err := allocate(loan)
	if err != nil {
		return nil, err
	}
	return payment, args.Error(1)
}

// ReversePayment runs the compensate callback against the loan, payment and
// remaining payments configured via Return.
func (m *MockLoanRepository) ReversePayment(ctx context.Context, paymentID string, compensate func(loan *domain.Loan, payment *domain.Payment, remaining []*domain.Payment) error) error {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return args.Error(3)
	}

	loan := args.Get(0).(*domain.Loan)
	payment := args.Get(1).(*domain.Payment)
	remaining, _ := args.Get(2).([]*domain.Payment)

	if err := compensate(loan, payment, remaining); err != nil {
		return err
	}
	return args.Error(3)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// NoopInvalidator satisfies the stats invalidation hook in tests that do not
// assert on cache behavior.
type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(ctx context.Context) {}
