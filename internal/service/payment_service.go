package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	"github.com/kpraveenraj/lending-engine/internal/repository"
	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
	"github.com/kpraveenraj/lending-engine/pkg/money"
)

type PaymentService struct {
	payments repository.PaymentRepository
	loans    repository.LoanRepository
	stats    StatsInvalidator
}

func NewPaymentService(
	payments repository.PaymentRepository,
	loans repository.LoanRepository,
	stats StatsInvalidator,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		loans:    loans,
		stats:    stats,
	}
}

func (s *PaymentService) Get(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPaymentNotFound(paymentID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return payment, nil
}

func (s *PaymentService) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	payments, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// Update covers administrative corrections to a payment's descriptive
// fields. The amount and its split are immutable once allocated.
func (s *PaymentService) Update(ctx context.Context, paymentID string, request *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	payment, err := s.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if request.PaymentMethod != "" {
		payment.PaymentMethod = request.PaymentMethod
	}
	if request.TransactionReference != "" {
		payment.TransactionReference = request.TransactionReference
	}
	if request.Notes != "" {
		payment.Notes = request.Notes
	}

	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payment, nil
}

// Delete is the explicit compensating operation for a misapplied payment:
// the principal portion is restored to the loan, a loan the payment had
// closed becomes active again, and the accrual anchor is re-derived from the
// remaining payments. Runs under the same per-loan lock as ApplyPayment.
func (s *PaymentService) Delete(ctx context.Context, paymentID string) error {
	err := s.loans.ReversePayment(ctx, paymentID, func(loan *domain.Loan, payment *domain.Payment, remaining []*domain.Payment) error {
		loan.OutstandingPrincipal = loan.OutstandingPrincipal.Add(payment.PrincipalPaid)

		if loan.OutstandingPrincipal.GreaterThan(loan.PrincipalAmount) {
			loan.OutstandingPrincipal = loan.PrincipalAmount
		}

		if loan.Status == domain.LoanStatusClosed {
			loan.Status = domain.LoanStatusActive
		}

		// anchor falls back to the latest remaining principal-reducing
		// payment, or disbursement if none remain
		anchor := money.Truncate(loan.DisbursementDate)
		for _, p := range remaining {
			if p.PrincipalPaid.GreaterThan(decimal.Zero) && money.Truncate(p.PaymentDate).After(anchor) {
				anchor = money.Truncate(p.PaymentDate)
			}
		}
		loan.AnchorDate = anchor

		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapPaymentNotFound(paymentID)
		}
		return customError.WrapDatabaseError(err)
	}

	s.stats.Invalidate(ctx)

	log.WithField("payment_id", paymentID).Info("payment reversed")

	return nil
}
