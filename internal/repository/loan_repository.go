package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kpraveenraj/lending-engine/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `
	id, loan_id, customer_id, principal_amount, interest_type, interest_rate,
	disbursement_date, due_date, outstanding_principal, anchor_date, status, notes,
	created_at, updated_at
`

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.LoanID,
		loan.CustomerID,
		loan.PrincipalAmount,
		loan.InterestType,
		loan.InterestRate,
		loan.DisbursementDate,
		loan.DueDate,
		loan.OutstandingPrincipal,
		loan.AnchorDate,
		loan.Status,
		loan.Notes,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`

	var loan domain.Loan
	if err := r.db.GetContext(ctx, &loan, query, loanID); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE ($1 = '' OR customer_id = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR interest_type = $3)
		ORDER BY created_at DESC
	`

	loans := []*domain.Loan{}
	if err := r.db.SelectContext(ctx, &loans, query, filter.CustomerID, filter.Status, filter.InterestType); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	return updateLoan(ctx, r.db, loan)
}

func (r *loanRepository) ApplyPayment(ctx context.Context, loanID string, allocate func(loan *domain.Loan) (*domain.Payment, error)) (*domain.Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	loan, err := lockLoan(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}

	payment, err := allocate(loan)
	if err != nil {
		return nil, err
	}

	if err := insertPayment(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err := updateLoan(ctx, tx, loan); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return payment, nil
}

func (r *loanRepository) ReversePayment(ctx context.Context, paymentID string, compensate func(loan *domain.Loan, payment *domain.Payment, remaining []*domain.Payment) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var payment domain.Payment
	if err := tx.GetContext(ctx, &payment,
		`SELECT `+paymentColumns+` FROM payments WHERE payment_id = $1`, paymentID); err != nil {
		return err
	}

	loan, err := lockLoan(ctx, tx, payment.LoanID)
	if err != nil {
		return err
	}

	remaining := []*domain.Payment{}
	if err := tx.SelectContext(ctx, &remaining,
		`SELECT `+paymentColumns+` FROM payments WHERE loan_id = $1 AND payment_id != $2 ORDER BY payment_date, created_at`,
		payment.LoanID, paymentID); err != nil {
		return err
	}

	if err := compensate(loan, &payment, remaining); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE payment_id = $1`, paymentID); err != nil {
		return err
	}

	if err := updateLoan(ctx, tx, loan); err != nil {
		return err
	}

	return tx.Commit()
}

// lockLoan reads a loan under FOR UPDATE so concurrent payment operations on
// the same loan serialize.
func lockLoan(ctx context.Context, tx *sqlx.Tx, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1 FOR UPDATE`

	var loan domain.Loan
	if err := tx.GetContext(ctx, &loan, query, loanID); err != nil {
		return nil, err
	}

	return &loan, nil
}

func updateLoan(ctx context.Context, e sqlx.ExecerContext, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET due_date = $2, outstanding_principal = $3, anchor_date = $4, status = $5, notes = $6, updated_at = $7
		WHERE loan_id = $1
	`

	_, err := e.ExecContext(ctx, query,
		loan.LoanID,
		loan.DueDate,
		loan.OutstandingPrincipal,
		loan.AnchorDate,
		loan.Status,
		loan.Notes,
		time.Now(),
	)

	return err
}
