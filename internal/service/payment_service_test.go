package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
	"github.com/kpraveenraj/lending-engine/tests/mocks"
)

func newPaymentService(payments *mocks.MockPaymentRepository, loans *mocks.MockLoanRepository) *PaymentService {
	return NewPaymentService(payments, loans, mocks.NoopInvalidator{})
}

func completedPayment(paymentID, loanID string, principal, interest int64) *domain.Payment {
	return &domain.Payment{
		PaymentID:     paymentID,
		LoanID:        loanID,
		Amount:        decimal.NewFromInt(principal + interest),
		PrincipalPaid: decimal.NewFromInt(principal),
		InterestPaid:  decimal.NewFromInt(interest),
		PaymentDate:   date(2024, 1, 11),
		PaymentMethod: domain.PaymentMethodCash,
		Status:        domain.PaymentStatusCompleted,
	}
}

func TestPaymentService_Get_NotFound(t *testing.T) {
	mockPayments := &mocks.MockPaymentRepository{}
	mockPayments.On("GetByPaymentID", mock.Anything, "PAY-404").Return(nil, sql.ErrNoRows)

	svc := newPaymentService(mockPayments, &mocks.MockLoanRepository{})

	_, err := svc.Get(context.Background(), "PAY-404")
	assert.ErrorIs(t, err, customError.ErrPaymentNotFound)
}

func TestPaymentService_Update_AdministrativeFieldsOnly(t *testing.T) {
	payment := completedPayment("PAY-1", "LN-1", 50, 100)

	mockPayments := &mocks.MockPaymentRepository{}
	mockPayments.On("GetByPaymentID", mock.Anything, "PAY-1").Return(payment, nil)
	mockPayments.On("Update", mock.Anything, payment).Return(nil)

	svc := newPaymentService(mockPayments, &mocks.MockLoanRepository{})

	updated, err := svc.Update(context.Background(), "PAY-1", &domain.UpdatePaymentRequest{
		PaymentMethod:        domain.PaymentMethodUPI,
		TransactionReference: "UPI-12345",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentMethodUPI, updated.PaymentMethod)
	assert.Equal(t, "UPI-12345", updated.TransactionReference)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(150)), "amount is immutable")
}

func TestPaymentService_Delete_CompensatesLoan(t *testing.T) {
	loan := activeDailyLoan("LN-1")
	loan.OutstandingPrincipal = decimal.NewFromInt(9950)
	loan.AnchorDate = date(2024, 1, 11)
	payment := completedPayment("PAY-1", "LN-1", 50, 100)

	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("ReversePayment", mock.Anything, "PAY-1").Return(loan, payment, []*domain.Payment{}, nil)

	svc := newPaymentService(&mocks.MockPaymentRepository{}, mockLoans)

	require.NoError(t, svc.Delete(context.Background(), "PAY-1"))

	assert.True(t, loan.OutstandingPrincipal.Equal(decimal.NewFromInt(10000)), "principal portion restored")
	assert.Equal(t, date(2024, 1, 1), loan.AnchorDate, "anchor falls back to disbursement with no remaining payments")
}

func TestPaymentService_Delete_ReopensClosedLoan(t *testing.T) {
	loan := activeDailyLoan("LN-1")
	loan.Status = domain.LoanStatusClosed
	loan.OutstandingPrincipal = decimal.Zero
	loan.AnchorDate = date(2024, 2, 1)

	payment := completedPayment("PAY-2", "LN-1", 10000, 100)
	payment.PaymentDate = date(2024, 2, 1)

	earlier := completedPayment("PAY-1", "LN-1", 500, 30)
	earlier.PaymentDate = date(2024, 1, 15)

	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("ReversePayment", mock.Anything, "PAY-2").Return(loan, payment, []*domain.Payment{earlier}, nil)

	svc := newPaymentService(&mocks.MockPaymentRepository{}, mockLoans)

	require.NoError(t, svc.Delete(context.Background(), "PAY-2"))

	assert.Equal(t, domain.LoanStatusActive, loan.Status)
	assert.True(t, loan.OutstandingPrincipal.Equal(decimal.NewFromInt(10000)), "restored principal clamps at the original amount")
	assert.Equal(t, date(2024, 1, 15), loan.AnchorDate, "anchor re-derived from the latest remaining principal-reducing payment")
}

func TestPaymentService_Delete_NotFound(t *testing.T) {
	mockLoans := &mocks.MockLoanRepository{}
	mockLoans.On("ReversePayment", mock.Anything, "PAY-404").Return(nil, nil, nil, sql.ErrNoRows)

	svc := newPaymentService(&mocks.MockPaymentRepository{}, mockLoans)

	err := svc.Delete(context.Background(), "PAY-404")
	assert.ErrorIs(t, err, customError.ErrPaymentNotFound)
}
