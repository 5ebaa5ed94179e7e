package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
	"github.com/kpraveenraj/lending-engine/pkg/money"
)

// Allocation is the interest-first split of one payment.
type Allocation struct {
	InterestPaid  decimal.Decimal
	PrincipalPaid decimal.Decimal
	ClosesLoan    bool
}

// Allocate splits a payment amount against a loan's balances as of a date:
// owed interest is settled first, the remainder reduces principal. Amounts
// beyond the total outstanding are rejected rather than held as credit.
// Allocate does not mutate the loan; see Apply.
func Allocate(loan *domain.Loan, amount decimal.Decimal, asOf time.Time) (*Allocation, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidPaymentAmount(amount.String())
	}

	if !loan.IsActive() {
		return nil, customError.WrapLoanNotActive(loan.LoanID, loan.Status)
	}

	dueInterest, err := AccruedInterest(loan, asOf)
	if err != nil {
		return nil, err
	}

	totalOutstanding := loan.OutstandingPrincipal.Add(dueInterest)
	if amount.GreaterThan(totalOutstanding) {
		return nil, customError.WrapOverpayment(amount.String(), totalOutstanding.String())
	}

	interestPaid := decimal.Min(amount, dueInterest)
	principalPaid := decimal.Min(amount.Sub(interestPaid), loan.OutstandingPrincipal)

	return &Allocation{
		InterestPaid:  interestPaid,
		PrincipalPaid: principalPaid,
		ClosesLoan: loan.OutstandingPrincipal.Sub(principalPaid).IsZero() &&
			dueInterest.Sub(interestPaid).IsZero(),
	}, nil
}

// Apply mutates the loan with an allocation computed for asOf: principal is
// reduced, a principal-reducing payment moves the accrual anchor, and full
// repayment closes the loan. An interest-only payment leaves the anchor
// untouched.
func (a *Allocation) Apply(loan *domain.Loan, asOf time.Time) {
	loan.OutstandingPrincipal = loan.OutstandingPrincipal.Sub(a.PrincipalPaid)

	if a.PrincipalPaid.GreaterThan(decimal.Zero) {
		loan.AnchorDate = money.Truncate(asOf)
	}

	if a.ClosesLoan {
		loan.Status = domain.LoanStatusClosed
	}
}
