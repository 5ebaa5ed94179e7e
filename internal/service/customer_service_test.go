package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	customError "github.com/kpraveenraj/lending-engine/pkg/errors"
	"github.com/kpraveenraj/lending-engine/tests/mocks"
)

func newCustomerService(customers *mocks.MockCustomerRepository) *CustomerService {
	return NewCustomerService(customers, mocks.NoopInvalidator{})
}

func TestCustomerService_Create(t *testing.T) {
	mockCustomers := &mocks.MockCustomerRepository{}
	mockCustomers.On("Create", mock.Anything, mock.MatchedBy(func(customer *domain.Customer) bool {
		return customer.Name == "Ravi Kumar" && customer.Status == domain.CustomerStatusActive
	})).Return(nil)

	svc := newCustomerService(mockCustomers)

	customer, err := svc.Create(context.Background(), &domain.CreateCustomerRequest{
		Name:  "Ravi Kumar",
		Phone: "9876543210",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, customer.CustomerID)
	assert.Equal(t, domain.CustomerStatusActive, customer.Status)
	mockCustomers.AssertExpectations(t)
}

func TestCustomerService_Get_NotFound(t *testing.T) {
	mockCustomers := &mocks.MockCustomerRepository{}
	mockCustomers.On("GetByCustomerID", mock.Anything, "CUST-404").Return(nil, sql.ErrNoRows)

	svc := newCustomerService(mockCustomers)

	_, err := svc.Get(context.Background(), "CUST-404")
	assert.ErrorIs(t, err, customError.ErrCustomerNotFound)
}

func TestCustomerService_Delete(t *testing.T) {
	t.Run("blocked while active loans exist", func(t *testing.T) {
		customer := activeCustomer("CUST-1")
		customer.ActiveLoans = 2

		mockCustomers := &mocks.MockCustomerRepository{}
		mockCustomers.On("GetByCustomerID", mock.Anything, "CUST-1").Return(customer, nil)

		svc := newCustomerService(mockCustomers)

		err := svc.Delete(context.Background(), "CUST-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, customError.ErrCustomerHasActiveLoans)
		mockCustomers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("allowed once loans are settled", func(t *testing.T) {
		customer := activeCustomer("CUST-1")
		customer.TotalLoans = 3

		mockCustomers := &mocks.MockCustomerRepository{}
		mockCustomers.On("GetByCustomerID", mock.Anything, "CUST-1").Return(customer, nil)
		mockCustomers.On("Delete", mock.Anything, "CUST-1").Return(nil)

		svc := newCustomerService(mockCustomers)

		require.NoError(t, svc.Delete(context.Background(), "CUST-1"))
		mockCustomers.AssertExpectations(t)
	})
}

func TestCustomerService_Update_PartialFields(t *testing.T) {
	customer := activeCustomer("CUST-1")
	customer.Address = "12 MG Road"

	mockCustomers := &mocks.MockCustomerRepository{}
	mockCustomers.On("GetByCustomerID", mock.Anything, "CUST-1").Return(customer, nil)
	mockCustomers.On("Update", mock.Anything, customer).Return(nil)

	svc := newCustomerService(mockCustomers)

	updated, err := svc.Update(context.Background(), "CUST-1", &domain.UpdateCustomerRequest{
		Phone: "9123456780",
	})
	require.NoError(t, err)

	assert.Equal(t, "9123456780", updated.Phone)
	assert.Equal(t, "Ravi Kumar", updated.Name, "unset fields stay untouched")
	assert.Equal(t, "12 MG Road", updated.Address)
}
