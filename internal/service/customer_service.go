package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	"github.com/kpraveenraj/lending-engine/internal/repository"
	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
)

// StatsInvalidator drops cached portfolio statistics after a mutation.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

type CustomerService struct {
	customers repository.CustomerRepository
	stats     StatsInvalidator
}

func NewCustomerService(customers repository.CustomerRepository, stats StatsInvalidator) *CustomerService {
	return &CustomerService{
		customers: customers,
		stats:     stats,
	}
}

// Create onboards a new customer
func (s *CustomerService) Create(ctx context.Context, request *domain.CreateCustomerRequest) (*domain.Customer, error) {
	now := time.Now()
	customer := &domain.Customer{
		ID:           uuid.New(),
		CustomerID:   newRefID("CUST"),
		Name:         request.Name,
		Phone:        request.Phone,
		Email:        request.Email,
		AadharNumber: request.AadharNumber,
		PANNumber:    request.PANNumber,
		Address:      request.Address,
		Status:       domain.CustomerStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.stats.Invalidate(ctx)

	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customers.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapCustomerNotFound(customerID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, filter domain.CustomerFilter) ([]*domain.Customer, error) {
	customers, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return customers, nil
}

// Update applies the non-empty fields of the request
func (s *CustomerService) Update(ctx context.Context, customerID string, request *domain.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if request.Name != "" {
		customer.Name = request.Name
	}
	if request.Phone != "" {
		customer.Phone = request.Phone
	}
	if request.Email != "" {
		customer.Email = request.Email
	}
	if request.AadharNumber != "" {
		customer.AadharNumber = request.AadharNumber
	}
	if request.PANNumber != "" {
		customer.PANNumber = request.PANNumber
	}
	if request.Address != "" {
		customer.Address = request.Address
	}
	if request.Status != "" {
		customer.Status = request.Status
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.stats.Invalidate(ctx)

	return customer, nil
}

// Delete removes a customer. A customer with active loans cannot be deleted.
func (s *CustomerService) Delete(ctx context.Context, customerID string) error {
	customer, err := s.Get(ctx, customerID)
	if err != nil {
		return err
	}

	if customer.ActiveLoans > 0 {
		return customError.WrapCustomerHasActiveLoans(customerID, customer.ActiveLoans)
	}

	if err := s.customers.Delete(ctx, customerID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.stats.Invalidate(ctx)

	return nil
}
