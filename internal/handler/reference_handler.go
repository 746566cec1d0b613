package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/service"
	"aozu-ops-hub/pkg/response"
)

// ReferenceHandler serves read-only operating procedures and the refund
// calculator.
type ReferenceHandler struct {
	sop        *service.SOPService
	calculator *service.CalculatorService
}

func NewReferenceHandler(sop *service.SOPService, calculator *service.CalculatorService) *ReferenceHandler {
	return &ReferenceHandler{sop: sop, calculator: calculator}
}

func (h *ReferenceHandler) ListSOP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	response.Success(w, h.sop.List(q.Get("platform"), q.Get("q")))
}

func (h *ReferenceHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.calculator.Platforms())
}

func (h *ReferenceHandler) PolicyTable(w http.ResponseWriter, r *http.Request) {
	policy, err := h.calculator.PolicyTable(mux.Vars(r)["platform"])
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, policy)
}

func (h *ReferenceHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req domain.RefundRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.calculator.Calculate(req.Platform, *req.DaysBefore)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, result)
}
