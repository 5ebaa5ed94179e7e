package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	"github.com/kpraveenraj/lending-engine/internal/service"
	"github.com/kpraveenraj/lending-engine/pkg/response"
)

type PaymentHandler struct {
	payments  *service.PaymentService
	loans     *service.LoanService
	validator *validator.Validate
}

func NewPaymentHandler(payments *service.PaymentService, loans *service.LoanService) *PaymentHandler {
	return &PaymentHandler{
		payments:  payments,
		loans:     loans,
		validator: newValidator(),
	}
}

// Create applies a payment against its loan and returns the stored record
// with the computed interest/principal split.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreatePaymentRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.loans.ApplyPayment(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, payment)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["paymentId"]

	payment, err := h.payments.Get(r.Context(), paymentID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payment)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.PaymentFilter{
		LoanID: r.URL.Query().Get("loanId"),
		Status: r.URL.Query().Get("status"),
		Method: r.URL.Query().Get("paymentMethod"),
	}

	payments, err := h.payments.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payments)
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["paymentId"]

	var request domain.UpdatePaymentRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.payments.Update(r.Context(), paymentID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payment)
}

// Delete reverses a payment: the compensating operation for a misapplied
// entry.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	paymentID := mux.Vars(r)["paymentId"]

	if err := h.payments.Delete(r.Context(), paymentID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"paymentId": paymentID, "deleted": "true"})
}
