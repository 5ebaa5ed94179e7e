package handler

import (
	"net/http"
	"time"

	"github.com/kpraveenraj/lending-engine/internal/service"
	"github.com/kpraveenraj/lending-engine/pkg/response"
)

// StatsHandler serves the three overview endpoints. Each is a projection of
// the same portfolio aggregate, so the dashboard never sees numbers derived
// from two different formulas.
type StatsHandler struct {
	service *service.StatsService
}

func NewStatsHandler(service *service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) LoansOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Overview(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, stats.Loans)
}

func (h *StatsHandler) CustomersOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Overview(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, stats.Customers)
}

func (h *StatsHandler) PaymentsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Overview(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, stats.Payments)
}
