package handler

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	"github.com/kpraveenraj/lending-engine/internal/service"
	"github.com/kpraveenraj/lending-engine/pkg/money"
	"github.com/kpraveenraj/lending-engine/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.service.Create(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, loan)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	loan, err := h.service.Get(r.Context(), loanID, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.LoanFilter{
		CustomerID:   r.URL.Query().Get("customerId"),
		Status:       r.URL.Query().Get("status"),
		InterestType: r.URL.Query().Get("interestType"),
	}

	loans, err := h.service.List(r.Context(), filter, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var request domain.UpdateLoanRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}

	loan, err := h.service.Update(r.Context(), loanID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loan)
}

// Calculate is the payment preview: balances of the loan as of a date,
// computed with the same formula a payment on that date will use.
func (h *LoanHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	var request domain.CalculateRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}

	asOf, err := money.ParseDate(request.AsOfDate)
	if err != nil {
		response.BadRequest(w, "invalid asOfDate", err)
		return
	}

	result, err := h.service.CalculateAsOf(r.Context(), loanID, asOf)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LoanHandler) Close(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	loan, err := h.service.Close(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loan)
}

func (h *LoanHandler) MarkDefaulted(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	loan, err := h.service.MarkDefaulted(r.Context(), loanID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, loan)
}
