package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/service"
	"aozu-ops-hub/pkg/response"
)

type LearningHandler struct {
	service *service.LearningLogService
	now     func() time.Time
}

func NewLearningHandler(service *service.LearningLogService) *LearningHandler {
	return &LearningHandler{service: service, now: time.Now}
}

func (h *LearningHandler) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.List(r.URL.Query().Get("q")))
}

func (h *LearningHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLearningEntryRequest
	if !decode(w, r, &req) {
		return
	}
	entry, err := h.service.Create(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, entry)
}

func (h *LearningHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	response.Message(w, "削除しました")
}

func (h *LearningHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.service.Export(h.now())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Download(w, export.Filename, export.Data)
}

func (h *LearningHandler) Insights(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = service.CategoryAll
	}
	response.Success(w, h.service.Insights(category))
}
