package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/service"
	"aozu-ops-hub/pkg/response"
)

type TemplateHandler struct {
	service *service.TemplateService
}

func NewTemplateHandler(service *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	response.Success(w, h.service.List(domain.TemplateFilter{
		Category: q.Get("category"),
		Platform: q.Get("platform"),
		Query:    q.Get("q"),
	}))
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTemplateRequest
	if !decode(w, r, &req) {
		return
	}
	tpl, err := h.service.Create(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, tpl)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	response.Message(w, "テンプレートを削除しました")
}

func (h *TemplateHandler) Copy(w http.ResponseWriter, r *http.Request) {
	emoji, _ := strconv.ParseBool(r.URL.Query().Get("emoji"))
	out, err := h.service.CopyText(mux.Vars(r)["id"], emoji)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, out)
}
