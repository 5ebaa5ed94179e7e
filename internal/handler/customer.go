package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/kpraveenraj/lending-engine/internal/domain"
	"github.com/kpraveenraj/lending-engine/internal/service"
	"github.com/kpraveenraj/lending-engine/pkg/response"
)

type CustomerHandler struct {
	service   *service.CustomerService
	validator *validator.Validate
}

func NewCustomerHandler(service *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateCustomerRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}

	customer, err := h.service.Create(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, customer)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	customer, err := h.service.Get(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, customer)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.CustomerFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}

	customers, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, customers)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	var request domain.UpdateCustomerRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}

	customer, err := h.service.Update(r.Context(), customerID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	if err := h.service.Delete(r.Context(), customerID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"customerId": customerID, "deleted": "true"})
}
