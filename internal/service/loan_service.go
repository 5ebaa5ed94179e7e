package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	"github.com/kpraveenraj/lending-engine/internal/engine"
	"github.com/kpraveenraj/lending-engine/internal/repository"
	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
	"github.com/kpraveenraj/lending-engine/pkg/money"
)

type LoanService struct {
	loans     repository.LoanRepository
	customers repository.CustomerRepository
	stats     StatsInvalidator
}

func NewLoanService(
	loans repository.LoanRepository,
	customers repository.CustomerRepository,
	stats StatsInvalidator,
) *LoanService {
	return &LoanService{
		loans:     loans,
		customers: customers,
		stats:     stats,
	}
}

// Create disburses a new loan to an active customer. The accrual anchor
// starts at the disbursement date and the full principal is outstanding.
func (s *LoanService) Create(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	customer, err := s.customers.GetByCustomerID(ctx, request.CustomerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCustomerNotFound(request.CustomerID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if customer.Status != domain.CustomerStatusActive {
		return nil, customError.WrapCustomerInactive(request.CustomerID)
	}

	disbursementDate, err := money.ParseDate(request.DisbursementDate)
	if err != nil {
		return nil, customError.WrapValidationError(err)
	}

	dueDate, err := money.ParseDate(request.DueDate)
	if err != nil {
		return nil, customError.WrapValidationError(err)
	}

	if dueDate.Before(disbursementDate) {
		return nil, customError.WrapValidationError(fmt.Errorf("due date %s precedes disbursement date %s", request.DueDate, request.DisbursementDate))
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:                   uuid.New(),
		LoanID:               newRefID("LN"),
		CustomerID:           request.CustomerID,
		PrincipalAmount:      request.PrincipalAmount,
		InterestType:         request.InterestType,
		InterestRate:         request.InterestRate,
		DisbursementDate:     disbursementDate,
		DueDate:              dueDate,
		OutstandingPrincipal: request.PrincipalAmount,
		AnchorDate:           disbursementDate,
		Status:               domain.LoanStatusActive,
		Notes:                request.Notes,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.stats.Invalidate(ctx)

	log.WithFields(log.Fields{
		"loan_id":     loan.LoanID,
		"customer_id": loan.CustomerID,
		"principal":   loan.PrincipalAmount.String(),
		"type":        loan.InterestType,
	}).Info("loan disbursed")

	return s.decorate(loan, time.Now()), nil
}

// Get returns a loan with its derived balances as of asOf
func (s *LoanService) Get(ctx context.Context, loanID string, asOf time.Time) (*domain.Loan, error) {
	loan, err := s.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return s.decorate(loan, asOf), nil
}

// List returns loans matching the filter, each with derived balances as of asOf
func (s *LoanService) List(ctx context.Context, filter domain.LoanFilter, asOf time.Time) ([]*domain.Loan, error) {
	loans, err := s.loans.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	for _, loan := range loans {
		s.decorate(loan, asOf)
	}

	return loans, nil
}

// CalculateAsOf is the payment preview: a pure read of the loan's balances
// as of a date, using the same accrual formula a payment against that date
// will use.
func (s *LoanService) CalculateAsOf(ctx context.Context, loanID string, asOf time.Time) (*domain.CalculationResult, error) {
	loan, err := s.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return engine.CalculateAsOf(loan, asOf)
}

// ApplyPayment allocates a payment against a loan under a per-loan row lock.
// The balance update and the payment record commit atomically; on any error
// the loan's prior balance is left intact.
func (s *LoanService) ApplyPayment(ctx context.Context, request *domain.CreatePaymentRequest) (*domain.Payment, error) {
	paymentDate, err := money.ParseDate(request.PaymentDate)
	if err != nil {
		return nil, customError.WrapValidationError(err)
	}

	payment, err := s.loans.ApplyPayment(ctx, request.LoanID, func(loan *domain.Loan) (*domain.Payment, error) {
		allocation, err := engine.Allocate(loan, request.Amount, paymentDate)
		if err != nil {
			return nil, err
		}
		allocation.Apply(loan, paymentDate)

		now := time.Now()
		return &domain.Payment{
			ID:                   uuid.New(),
			PaymentID:            newRefID("PAY"),
			LoanID:               loan.LoanID,
			Amount:               request.Amount,
			PrincipalPaid:        allocation.PrincipalPaid,
			InterestPaid:         allocation.InterestPaid,
			PaymentDate:          paymentDate,
			PaymentMethod:        request.PaymentMethod,
			Status:               domain.PaymentStatusCompleted,
			TransactionReference: request.TransactionReference,
			Notes:                request.Notes,
			CreatedAt:            now,
			UpdatedAt:            now,
		}, nil
	})
	if err != nil {
		var businessErr *customError.BusinessError
		if errors.As(err, &businessErr) {
			return nil, businessErr
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(request.LoanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.stats.Invalidate(ctx)

	log.WithFields(log.Fields{
		"payment_id":     payment.PaymentID,
		"loan_id":        payment.LoanID,
		"amount":         payment.Amount.String(),
		"interest_paid":  payment.InterestPaid.String(),
		"principal_paid": payment.PrincipalPaid.String(),
	}).Info("payment applied")

	return payment, nil
}

// Update changes a loan's mutable fields: due date and notes. Principal,
// rate and type are immutable after disbursement.
func (s *LoanService) Update(ctx context.Context, loanID string, request *domain.UpdateLoanRequest) (*domain.Loan, error) {
	loan, err := s.Get(ctx, loanID, time.Now())
	if err != nil {
		return nil, err
	}

	if request.DueDate != "" {
		dueDate, err := money.ParseDate(request.DueDate)
		if err != nil {
			return nil, customError.WrapValidationError(err)
		}
		if dueDate.Before(money.Truncate(loan.DisbursementDate)) {
			return nil, customError.WrapValidationError(fmt.Errorf("due date %s precedes disbursement date", request.DueDate))
		}
		loan.DueDate = dueDate
	}
	if request.Notes != "" {
		loan.Notes = request.Notes
	}

	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.decorate(loan, time.Now()), nil
}

// Close is the explicit close operation: any remaining balance is forgiven
// and the loan becomes terminal.
func (s *LoanService) Close(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, domain.LoanStatusClosed)
}

// MarkDefaulted records the administrative default transition. The engine
// freezes further accrual; the remaining principal is reported as written
// off in portfolio statistics.
func (s *LoanService) MarkDefaulted(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, domain.LoanStatusDefaulted)
}

// SweepOverdue marks active loans past their due date by more than
// graceDays as defaulted. The threshold is operator policy carried in
// config; the accrual engine itself only honors the resulting status.
// Returns the loan IDs that were transitioned.
func (s *LoanService) SweepOverdue(ctx context.Context, asOf time.Time, graceDays int) ([]string, error) {
	loans, err := s.loans.List(ctx, domain.LoanFilter{Status: domain.LoanStatusActive})
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	var defaulted []string
	for _, loan := range loans {
		if money.DaysBetween(loan.DueDate, asOf) <= graceDays {
			continue
		}

		if _, err := s.MarkDefaulted(ctx, loan.LoanID); err != nil {
			log.WithError(err).WithField("loan_id", loan.LoanID).Error("overdue sweep failed for loan")
			continue
		}
		defaulted = append(defaulted, loan.LoanID)
	}

	return defaulted, nil
}

func (s *LoanService) transition(ctx context.Context, loanID, status string) (*domain.Loan, error) {
	loan, err := s.Get(ctx, loanID, time.Now())
	if err != nil {
		return nil, err
	}

	if !loan.IsActive() {
		return nil, customError.WrapLoanNotActive(loanID, loan.Status)
	}

	loan.Status = status
	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.stats.Invalidate(ctx)

	log.WithFields(log.Fields{
		"loan_id": loanID,
		"status":  status,
	}).Info("loan status transition")

	return s.decorate(loan, time.Now()), nil
}

// decorate fills the loan's derived fields from the single calculation path.
func (s *LoanService) decorate(loan *domain.Loan, asOf time.Time) *domain.Loan {
	result, err := engine.CalculateAsOf(loan, asOf)
	if err != nil {
		// asOf precedes the anchor; show the stored balance with no accrual
		loan.CurrentInterest = decimal.Zero
		loan.TotalOutstanding = loan.OutstandingPrincipal
		return loan
	}

	loan.CurrentInterest = result.CalculatedInterest
	loan.TotalOutstanding = result.TotalOutstanding
	return loan
}
