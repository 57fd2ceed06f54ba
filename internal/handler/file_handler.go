package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"teradrive/internal/domain"
	"teradrive/internal/projection"
	"teradrive/internal/service"
)

type FileHandler struct {
	fileService   *service.FileService
	uploadService *service.UploadService
}

func NewFileHandler(
	fileService *service.FileService,
	uploadService *service.UploadService,
) *FileHandler {
	return &FileHandler{
		fileService:   fileService,
		uploadService: uploadService,
	}
}

// ListFiles возвращает активные записи; параметры recent, category и
// search выбирают проекцию над тем же снимком.
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.fileService.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	var files []domain.File
	switch {
	case q.Get("recent") != "":
		files = projection.Recent(snapshot)
	case q.Get("category") != "":
		files = projection.SortByModified(projection.ByCategory(snapshot, domain.Category(q.Get("category"))))
	case q.Get("search") != "":
		files = projection.SortByModified(projection.Search(snapshot, q.Get("search")))
	default:
		files = projection.SortByModified(projection.Active(snapshot))
	}

	respondJSON(w, http.StatusOK, files)
}

// Upload принимает подготовленные файлы и запускает имитацию передачи.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Files []domain.FileUpload `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	taskID, err := h.uploadService.Start(req.Files)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

// CancelUpload прерывает задачу загрузки до завершения.
func (h *FileHandler) CancelUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.uploadService.Cancel(req.TaskID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetUploadProgress отдаёт SSE события о прогрессе загрузок.
func (h *FileHandler) GetUploadProgress(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tasks := h.uploadService.List()
			for _, task := range tasks {
				data, err := json.Marshal(task)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", data)
			}
			if len(tasks) > 0 {
				flusher.Flush()
			}
		}
	}
}

// DeleteFile перемещает запись в корзину.
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.fileService.SoftDelete(r.Context(), id); err != nil {
		log.Printf("Failed to move file %s to trash: %v", id, err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
