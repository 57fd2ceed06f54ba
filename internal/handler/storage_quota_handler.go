package handler

import (
	"net/http"

	"teradrive/internal/service"
)

type StorageQuotaHandler struct {
	fileService  *service.FileService
	quotaService *service.StorageQuotaService
}

func NewStorageQuotaHandler(
	fileService *service.FileService,
	quotaService *service.StorageQuotaService,
) *StorageQuotaHandler {
	return &StorageQuotaHandler{
		fileService:  fileService,
		quotaService: quotaService,
	}
}

func (h *StorageQuotaHandler) GetQuotaInfo(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.fileService.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	quotaInfo, err := h.quotaService.GetQuotaInfo(r.Context(), snapshot)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotaInfo)
}
