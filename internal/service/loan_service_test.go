package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
	"github.com/kpraveenraj/lending-engine/tests/mocks"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeCustomer(customerID string) *domain.Customer {
	return &domain.Customer{
		CustomerID: customerID,
		Name:       "Ravi Kumar",
		Phone:      "9876543210",
		Status:     domain.CustomerStatusActive,
	}
}

func activeDailyLoan(loanID string) *domain.Loan {
	disbursed := date(2024, 1, 1)
	return &domain.Loan{
		LoanID:               loanID,
		CustomerID:           "CUST-1",
		PrincipalAmount:      decimal.NewFromInt(10000),
		OutstandingPrincipal: decimal.NewFromInt(10000),
		InterestType:         domain.InterestTypeDaily,
		InterestRate:         decimal.NewFromFloat(0.1),
		DisbursementDate:     disbursed,
		DueDate:              date(2024, 7, 1),
		AnchorDate:           disbursed,
		Status:               domain.LoanStatusActive,
	}
}

func newLoanService(loans *mocks.MockLoanRepository, customers *mocks.MockCustomerRepository) *LoanService {
	return NewLoanService(loans, customers, mocks.NoopInvalidator{})
}

func TestLoanService_Create(t *testing.T) {
	tests := []struct {
		name          string
		request       *domain.CreateLoanRequest
		setupMocks    func(*mocks.MockLoanRepository, *mocks.MockCustomerRepository)
		expectedError error
	}{
		{
			name: "success",
			request: &domain.CreateLoanRequest{
				CustomerID:       "CUST-1",
				PrincipalAmount:  decimal.NewFromInt(10000),
				InterestType:     domain.InterestTypeDaily,
				InterestRate:     decimal.NewFromFloat(0.1),
				DisbursementDate: "2024-01-01",
				DueDate:          "2024-07-01",
			},
			setupMocks: func(loans *mocks.MockLoanRepository, customers *mocks.MockCustomerRepository) {
				customers.On("GetByCustomerID", mock.Anything, "CUST-1").Return(activeCustomer("CUST-1"), nil)
				loans.On("Create", mock.Anything, mock.MatchedBy(func(loan *domain.Loan) bool {
					return loan.CustomerID == "CUST-1" &&
						loan.Status == domain.LoanStatusActive &&
						loan.OutstandingPrincipal.Equal(loan.PrincipalAmount) &&
						loan.AnchorDate.Equal(loan.DisbursementDate)
				})).Return(nil)
			},
		},
		{
			name: "customer not found",
			request: &domain.CreateLoanRequest{
				CustomerID:       "CUST-404",
				PrincipalAmount:  decimal.NewFromInt(10000),
				InterestType:     domain.InterestTypeDaily,
				InterestRate:     decimal.NewFromFloat(0.1),
				DisbursementDate: "2024-01-01",
				DueDate:          "2024-07-01",
			},
			setupMocks: func(loans *mocks.MockLoanRepository, customers *mocks.MockCustomerRepository) {
				customers.On("GetByCustomerID", mock.Anything, "CUST-404").Return(nil, sql.ErrNoRows)
			},
			expectedError: customError.ErrCustomerNotFound,
		},
		{
			name: "inactive customer rejected",
			request: &domain.CreateLoanRequest{
				CustomerID:       "CUST-2",
				PrincipalAmount:  decimal.NewFromInt(10000),
				InterestType:     domain.InterestTypeMonthly,
				InterestRate:     decimal.NewFromInt(2),
				DisbursementDate: "2024-01-01",
				DueDate:          "2024-07-01",
			},
			setupMocks: func(loans *mocks.MockLoanRepository, customers *mocks.MockCustomerRepository) {
				inactive := activeCustomer("CUST-2")
				inactive.Status = domain.CustomerStatusInactive
				customers.On("GetByCustomerID", mock.Anything, "CUST-2").Return(inactive, nil)
			},
			expectedError: customError.ErrCustomerInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLoans := &mocks.MockLoanRepository{}
			mockCustomers := &mocks.MockCustomerRepository{}
			tt.setupMocks(mockLoans, mockCustomers)

			svc := newLoanService(mockLoans, mockCustomers)
			loan, err := svc.Create(context.Background(), tt.request)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, loan.LoanID)
			}

			mockLoans.AssertExpectations(t)
			mockCustomers.AssertExpectations(t)
		})
	}
}

func TestLoanService_Create_DueDateBeforeDisbursement(t *testing.T) {
	mockLoans := &mocks.MockLoanRepository{}
	mockCustomers := &mocks.MockCustomerRepository{}
	mockCustomers.On("GetByCustomerID", mock.Anything, "CUST-1").Return(activeCustomer("CUST-1"), nil)

	svc := newLoanService(mockLoans, mockCustomers)
	_, err := svc.Create(context.Background(), &domain.CreateLoanRequest{
		CustomerID:       "CUST-1",
		PrincipalAmount:  decimal.NewFromInt(10000),
		InterestType:     domain.InterestTypeDaily,
		InterestRate:     decimal.NewFromFloat(0.1),
		DisbursementDate: "2024-07-01",
		DueDate:          "2024-01-01",
	})

	require.Error(t, err)
	var businessErr *customError.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeValidation, businessErr.Code)
}

func TestLoanService_CalculateAsOf(t *testing.T) {
	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("GetByLoanID", mock.Anything, "LN-1").Return(activeDailyLoan("LN-1"), nil)

	svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})

	result, err := svc.CalculateAsOf(context.Background(), "LN-1", date(2024, 1, 11))
	require.NoError(t, err)

	assert.True(t, result.OutstandingPrincipal.Equal(decimal.NewFromInt(10000)))
	assert.True(t, result.CalculatedInterest.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.TotalOutstanding.Equal(decimal.NewFromInt(10100)))
}

func TestLoanService_ApplyPayment(t *testing.T) {
	loan := activeDailyLoan("LN-1")

	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("ApplyPayment", mock.Anything, "LN-1").Return(loan, nil)

	svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})

	payment, err := svc.ApplyPayment(context.Background(), &domain.CreatePaymentRequest{
		LoanID:        "LN-1",
		Amount:        decimal.NewFromInt(150),
		PaymentDate:   "2024-01-11",
		PaymentMethod: domain.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.True(t, payment.InterestPaid.Equal(decimal.NewFromInt(100)))
	assert.True(t, payment.PrincipalPaid.Equal(decimal.NewFromInt(50)))
	assert.True(t, payment.Amount.Equal(payment.InterestPaid.Add(payment.PrincipalPaid)))
	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)

	// loan mutated through the locked callback
	assert.True(t, loan.OutstandingPrincipal.Equal(decimal.NewFromInt(9950)))
	assert.Equal(t, date(2024, 1, 11), loan.AnchorDate)
}

func TestLoanService_ApplyPayment_FullRepaymentCloses(t *testing.T) {
	loan := activeDailyLoan("LN-1")

	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("ApplyPayment", mock.Anything, "LN-1").Return(loan, nil)

	svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})

	payment, err := svc.ApplyPayment(context.Background(), &domain.CreatePaymentRequest{
		LoanID:        "LN-1",
		Amount:        decimal.NewFromInt(10100),
		PaymentDate:   "2024-01-11",
		PaymentMethod: domain.PaymentMethodUPI,
	})
	require.NoError(t, err)

	assert.True(t, payment.PrincipalPaid.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, domain.LoanStatusClosed, loan.Status)
	assert.True(t, loan.OutstandingPrincipal.IsZero())
}

func TestLoanService_ApplyPayment_OverpaymentRejected(t *testing.T) {
	loan := activeDailyLoan("LN-1")

	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("ApplyPayment", mock.Anything, "LN-1").Return(loan, nil)

	svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})

	_, err := svc.ApplyPayment(context.Background(), &domain.CreatePaymentRequest{
		LoanID:        "LN-1",
		Amount:        decimal.NewFromInt(10101),
		PaymentDate:   "2024-01-11",
		PaymentMethod: domain.PaymentMethodCash,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrOverpayment)
	assert.True(t, loan.OutstandingPrincipal.Equal(decimal.NewFromInt(10000)), "rejected payment must not mutate the loan")
	assert.Equal(t, domain.LoanStatusActive, loan.Status)
}

func TestLoanService_ApplyPayment_LoanNotFound(t *testing.T) {
	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("ApplyPayment", mock.Anything, "LN-404").Return(nil, sql.ErrNoRows)

	svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})

	_, err := svc.ApplyPayment(context.Background(), &domain.CreatePaymentRequest{
		LoanID:        "LN-404",
		Amount:        decimal.NewFromInt(100),
		PaymentDate:   "2024-01-11",
		PaymentMethod: domain.PaymentMethodCash,
	})

	assert.ErrorIs(t, err, customError.ErrLoanNotFound)
}

func TestLoanService_Transitions(t *testing.T) {
	t.Run("close forgives and terminates", func(t *testing.T) {
		loan := activeDailyLoan("LN-1")
		mockLoans := &mocks.MockLoanRepository{}
		mockLoans.On("GetByLoanID", mock.Anything, "LN-1").Return(loan, nil)
		mockLoans.On("Update", mock.Anything, loan).Return(nil)

		svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})
		closed, err := svc.Close(context.Background(), "LN-1")
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusClosed, closed.Status)
	})

	t.Run("default transition", func(t *testing.T) {
		loan := activeDailyLoan("LN-1")
		mockLoans := &mocks.MockLoanRepository{}
		mockLoans.On("GetByLoanID", mock.Anything, "LN-1").Return(loan, nil)
		mockLoans.On("Update", mock.Anything, loan).Return(nil)

		svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})
		defaulted, err := svc.MarkDefaulted(context.Background(), "LN-1")
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusDefaulted, defaulted.Status)
	})

	t.Run("terminal loans reject further transitions", func(t *testing.T) {
		loan := activeDailyLoan("LN-1")
		loan.Status = domain.LoanStatusClosed
		mockLoans := &mocks.MockLoanRepository{}
		mockLoans.On("GetByLoanID", mock.Anything, "LN-1").Return(loan, nil)

		svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})
		_, err := svc.MarkDefaulted(context.Background(), "LN-1")
		assert.ErrorIs(t, err, customError.ErrLoanNotActive)
	})
}

func TestLoanService_SweepOverdue(t *testing.T) {
	overdue := activeDailyLoan("LN-1")
	overdue.DueDate = date(2024, 1, 31)

	withinGrace := activeDailyLoan("LN-2")
	withinGrace.DueDate = date(2024, 5, 1)

	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("List", mock.Anything, domain.LoanFilter{Status: domain.LoanStatusActive}).
		Return([]*domain.Loan{overdue, withinGrace}, nil)
	mockLoans.On("GetByLoanID", mock.Anything, "LN-1").Return(overdue, nil)
	mockLoans.On("Update", mock.Anything, overdue).Return(nil)

	svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})

	// 2024-06-01 with 90 grace days: LN-1 is 122 days past due, LN-2 is 31
	defaulted, err := svc.SweepOverdue(context.Background(), date(2024, 6, 1), 90)
	require.NoError(t, err)

	assert.Equal(t, []string{"LN-1"}, defaulted)
	assert.Equal(t, domain.LoanStatusDefaulted, overdue.Status)
	assert.Equal(t, domain.LoanStatusActive, withinGrace.Status)
	mockLoans.AssertExpectations(t)
}

func TestLoanService_Get_DecoratesDerivedFields(t *testing.T) {
	loan := activeDailyLoan("LN-1")

	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("GetByLoanID", mock.Anything, "LN-1").Return(loan, nil)

	svc := newLoanService(mockLoans, &mocks.MockCustomerRepository{})

	got, err := svc.Get(context.Background(), "LN-1", date(2024, 1, 11))
	require.NoError(t, err)

	assert.True(t, got.CurrentInterest.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.TotalOutstanding.Equal(decimal.NewFromInt(10100)))
}
