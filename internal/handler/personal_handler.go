package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/service"
	"aozu-ops-hub/pkg/response"
)

// PersonalHandler serves the signed-in-or-not personal slices: the daily
// checklist, free-form notes and the house-rule checkmarks.
type PersonalHandler struct {
	checklist *service.ChecklistService
	notes     *service.NotesService
	rules     *service.RulesService
}

func NewPersonalHandler(checklist *service.ChecklistService, notes *service.NotesService, rules *service.RulesService) *PersonalHandler {
	return &PersonalHandler{checklist: checklist, notes: notes, rules: rules}
}

func (h *PersonalHandler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.checklist.Get())
}

func (h *PersonalHandler) ReplaceChecklist(w http.ResponseWriter, r *http.Request) {
	var items map[string]bool
	if !decode(w, r, &items) {
		return
	}
	if err := h.checklist.Replace(items); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, h.checklist.Get())
}

func (h *PersonalHandler) SetChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req domain.SetCheckedRequest
	if !decode(w, r, &req) {
		return
	}
	items, err := h.checklist.Set(mux.Vars(r)["item"], *req.Checked)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *PersonalHandler) ResetChecklist(w http.ResponseWriter, r *http.Request) {
	if err := h.checklist.Reset(); err != nil {
		writeError(w, err)
		return
	}
	response.Message(w, "チェックリストをリセットしました")
}

func (h *PersonalHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	response.Success(w, domain.NotesRequest{Text: h.notes.Get()})
}

func (h *PersonalHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var req domain.NotesRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.notes.Set(req.Text); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, req)
}

func (h *PersonalHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.rules.List(r.URL.Query().Get("q")))
}

func (h *PersonalHandler) SetRule(w http.ResponseWriter, r *http.Request) {
	var req domain.SetCheckedRequest
	if !decode(w, r, &req) {
		return
	}
	checked, err := h.rules.SetChecked(mux.Vars(r)["id"], *req.Checked)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, checked)
}
