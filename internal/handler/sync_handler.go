package handler

import (
	"context"
	"net/http"

	"aozu-ops-hub/internal/domain"
	"aozu-ops-hub/internal/service"
	"aozu-ops-hub/pkg/response"
)

type SyncHandler struct {
	syncService *service.SyncService
}

func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.syncService.Status())
}

func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.syncService.Pull)
}

func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.syncService.Push)
}

func (h *SyncHandler) run(w http.ResponseWriter, r *http.Request, op func(ctx context.Context) (*domain.SyncStatusResponse, error)) {
	status, err := op(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, status)
}
