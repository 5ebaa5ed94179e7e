// Package engine holds the pure accrual and allocation math. Nothing here
// performs I/O; callers own transactions and locking.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
	"github.com/kpraveenraj/lending-engine/pkg/money"
)

// AccruedInterest returns the unpaid interest owed on a loan as of a date.
//
// Interest accrues on the outstanding principal since the loan's accrual
// anchor (disbursement date, or the last principal-reducing payment). Daily
// loans accrue rate% per elapsed day; monthly loans accrue rate% per
// completed calendar month, with a partial month contributing nothing until
// it completes. No proration and no compounding.
//
// Closed and defaulted loans accrue nothing further.
func AccruedInterest(loan *domain.Loan, asOf time.Time) (decimal.Decimal, error) {
	asOf = money.Truncate(asOf)

	if asOf.Before(money.Truncate(loan.DisbursementDate)) {
		return decimal.Zero, customError.WrapInvalidDate(loan.LoanID, money.FormatDate(asOf))
	}

	if !loan.IsActive() {
		return decimal.Zero, nil
	}

	anchor := money.Truncate(loan.AnchorDate)
	if asOf.Before(anchor) {
		return decimal.Zero, customError.WrapInvalidDate(loan.LoanID, money.FormatDate(asOf))
	}

	var periods int
	switch loan.InterestType {
	case domain.InterestTypeMonthly:
		periods = money.MonthsBetween(anchor, asOf)
	default:
		periods = money.DaysBetween(anchor, asOf)
	}

	return money.SimpleInterest(loan.OutstandingPrincipal, loan.InterestRate, periods), nil
}

// CalculateAsOf is the side-effect-free payment preview. Every consumer of a
// loan's derived balances goes through here so the preview and the eventual
// allocation never diverge for the same date.
func CalculateAsOf(loan *domain.Loan, asOf time.Time) (*domain.CalculationResult, error) {
	interest, err := AccruedInterest(loan, asOf)
	if err != nil {
		return nil, err
	}

	return &domain.CalculationResult{
		LoanID:               loan.LoanID,
		AsOfDate:             money.FormatDate(money.Truncate(asOf)),
		OutstandingPrincipal: loan.OutstandingPrincipal,
		CalculatedInterest:   interest,
		TotalOutstanding:     loan.OutstandingPrincipal.Add(interest),
	}, nil
}
