package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kpraveenraj/lending-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
	id, payment_id, loan_id, amount, principal_paid, interest_paid, payment_date,
	payment_method, status, transaction_reference, notes, created_at, updated_at
`

func (r *paymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, paymentID); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE loan_id = $1 ORDER BY payment_date, created_at`

	payments := []*domain.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, loanID); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE ($1 = '' OR loan_id = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR payment_method = $3)
		ORDER BY payment_date DESC, created_at DESC
	`

	payments := []*domain.Payment{}
	if err := r.db.SelectContext(ctx, &payments, query, filter.LoanID, filter.Status, filter.Method); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET payment_method = $2, transaction_reference = $3, notes = $4, updated_at = $5
		WHERE payment_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.PaymentID,
		payment.PaymentMethod,
		payment.TransactionReference,
		payment.Notes,
		time.Now(),
	)

	return err
}

// insertPayment writes a payment row inside an existing transaction; used by
// the loan repository's ApplyPayment so the split and the balance update
// commit together.
func insertPayment(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		payment.PaymentID,
		payment.LoanID,
		payment.Amount,
		payment.PrincipalPaid,
		payment.InterestPaid,
		payment.PaymentDate,
		payment.PaymentMethod,
		payment.Status,
		payment.TransactionReference,
		payment.Notes,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	return err
}
