package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrLoanNotFound           = errors.New("loan not found")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrInvalidDate            = errors.New("date precedes the loan accrual anchor")
	ErrInvalidPaymentAmount   = errors.New("payment amount must be positive")
	ErrLoanNotActive          = errors.New("loan is not active")
	ErrOverpayment            = errors.New("payment exceeds total outstanding")
	ErrCustomerHasActiveLoans = errors.New("customer has active loans")
	ErrCustomerInactive       = errors.New("customer is inactive")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeCustomerNotFound       = "CUSTOMER_NOT_FOUND"
	ErrCodeLoanNotFound           = "LOAN_NOT_FOUND"
	ErrCodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	ErrCodeInvalidDate            = "INVALID_DATE"
	ErrCodeInvalidPaymentAmount   = "INVALID_PAYMENT_AMOUNT"
	ErrCodeLoanNotActive          = "LOAN_NOT_ACTIVE"
	ErrCodeOverpayment            = "OVERPAYMENT"
	ErrCodeCustomerHasActiveLoans = "CUSTOMER_HAS_ACTIVE_LOANS"
	ErrCodeCustomerInactive       = "CUSTOMER_INACTIVE"
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapCustomerNotFound(customerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerNotFound,
		fmt.Sprintf("Customer with ID %s not found", customerID),
		ErrCustomerNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapInvalidDate(loanID, asOf string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDate,
		fmt.Sprintf("Date %s precedes the accrual anchor of loan %s", asOf, loanID),
		ErrInvalidDate,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapLoanNotActive(loanID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotActive,
		fmt.Sprintf("Loan %s is %s and cannot accept payments", loanID, status),
		ErrLoanNotActive,
	)
}

func WrapOverpayment(amount, totalOutstanding string) *BusinessError {
	return NewBusinessError(
		ErrCodeOverpayment,
		fmt.Sprintf("Payment of %s exceeds total outstanding %s", amount, totalOutstanding),
		ErrOverpayment,
	)
}

func WrapCustomerHasActiveLoans(customerID string, activeLoans int) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerHasActiveLoans,
		fmt.Sprintf("Customer %s has %d active loan(s) and cannot be deleted", customerID, activeLoans),
		ErrCustomerHasActiveLoans,
	)
}

func WrapCustomerInactive(customerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerInactive,
		fmt.Sprintf("Customer %s is inactive and cannot take new loans", customerID),
		ErrCustomerInactive,
	)
}

func WrapValidationError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		"request validation failed",
		err,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
