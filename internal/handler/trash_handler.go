package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"teradrive/internal/service"
)

type TrashHandler struct {
	fileService *service.FileService
}

func NewTrashHandler(fileService *service.FileService) *TrashHandler {
	return &TrashHandler{fileService: fileService}
}

// GetTrashItems возвращает содержимое корзины.
func (h *TrashHandler) GetTrashItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.fileService.ListRecycled(r.Context())
	if err != nil {
		log.Printf("Failed to get trash items: %v", err)
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// RestoreItem возвращает одну запись из корзины.
func (h *TrashHandler) RestoreItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.fileService.Restore(r.Context(), req.ID); err != nil {
		log.Printf("Failed to restore item: %v", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// RestoreAll возвращает из корзины все записи.
func (h *TrashHandler) RestoreAll(w http.ResponseWriter, r *http.Request) {
	if err := h.fileService.RestoreAll(r.Context()); err != nil {
		log.Printf("Failed to restore all items: %v", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeletePermanently окончательно удаляет запись из корзины.
func (h *TrashHandler) DeletePermanently(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.fileService.HardDelete(r.Context(), req.ID); err != nil {
		log.Printf("Failed to delete item permanently: %v", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// EmptyTrash полностью очищает корзину.
func (h *TrashHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	if err := h.fileService.EmptyRecycleBin(r.Context()); err != nil {
		log.Printf("Failed to empty trash: %v", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
