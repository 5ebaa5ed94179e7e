package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

// Customer represents a borrower
type Customer struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CustomerID   string    `json:"customerId" db:"customer_id"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone" db:"phone"`
	Email        string    `json:"email,omitempty" db:"email"`
	AadharNumber string    `json:"aadharNumber,omitempty" db:"aadhar_number"`
	PANNumber    string    `json:"panNumber,omitempty" db:"pan_number"`
	Address      string    `json:"address,omitempty" db:"address"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Derived from owned loans, recomputed on read
	ActiveLoans int `json:"activeLoans" db:"active_loans"`
	TotalLoans  int `json:"totalLoans" db:"total_loans"`
}

// DTOs for requests and responses

type CreateCustomerRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" validate:"required,indian_phone"`
	Email        string `json:"email" validate:"omitempty,email"`
	AadharNumber string `json:"aadharNumber" validate:"omitempty,aadhar"`
	PANNumber    string `json:"panNumber" validate:"omitempty,pan"`
	Address      string `json:"address" validate:"max=500"`
}

type UpdateCustomerRequest struct {
	Name         string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone        string `json:"phone" validate:"omitempty,indian_phone"`
	Email        string `json:"email" validate:"omitempty,email"`
	AadharNumber string `json:"aadharNumber" validate:"omitempty,aadhar"`
	PANNumber    string `json:"panNumber" validate:"omitempty,pan"`
	Address      string `json:"address" validate:"omitempty,max=500"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CustomerFilter narrows List results
type CustomerFilter struct {
	Status string
	Search string
}
