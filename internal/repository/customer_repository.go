package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kpraveenraj/lending-engine/internal/domain"
)

type customerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// customerColumns selects customer rows with loan counts derived from the
// loans table, so ActiveLoans and TotalLoans are never stored stale.
const customerColumns = `
	c.id, c.customer_id, c.name, c.phone, c.email, c.aadhar_number, c.pan_number,
	c.address, c.status, c.created_at, c.updated_at,
	COUNT(l.id) FILTER (WHERE l.status = 'active') AS active_loans,
	COUNT(l.id) AS total_loans
`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, customer_id, name, phone, email, aadhar_number, pan_number, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.CustomerID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.AadharNumber,
		customer.PANNumber,
		customer.Address,
		customer.Status,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	return err
}

func (r *customerRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers c
		LEFT JOIN loans l ON l.customer_id = c.customer_id
		WHERE c.customer_id = $1
		GROUP BY c.id
	`

	var customer domain.Customer
	if err := r.db.GetContext(ctx, &customer, query, customerID); err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers c
		LEFT JOIN loans l ON l.customer_id = c.customer_id
		WHERE ($1 = '' OR c.status = $1)
		  AND ($2 = '' OR c.name ILIKE '%' || $2 || '%' OR c.phone LIKE '%' || $2 || '%')
		GROUP BY c.id
		ORDER BY c.created_at DESC
	`

	customers := []*domain.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query, filter.Status, filter.Search); err != nil {
		return nil, err
	}

	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, aadhar_number = $5, pan_number = $6, address = $7, status = $8, updated_at = $9
		WHERE customer_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.CustomerID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.AadharNumber,
		customer.PANNumber,
		customer.Address,
		customer.Status,
		time.Now(),
	)

	return err
}

func (r *customerRepository) Delete(ctx context.Context, customerID string) error {
	query := `DELETE FROM customers WHERE customer_id = $1`

	_, err := r.db.ExecContext(ctx, query, customerID)
	return err
}
