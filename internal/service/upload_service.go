package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"teradrive/internal/domain"
)

// Статусы задачи загрузки.
const (
	UploadStatusUploading = "uploading"
	UploadStatusCompleted = "completed"
	UploadStatusCancelled = "cancelled"
	UploadStatusError     = "error"
)

// UploadProgress — снимок состояния задачи для отдачи клиенту.
type UploadProgress struct {
	TaskID     string  `json:"task_id"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
	Files      int     `json:"files"`
}

type uploadTask struct {
	id        string
	uploads   []domain.FileUpload
	progress  float64
	status    string
	err       string
	cancelled bool
}

// UploadService имитирует передачу файла: тикер добавляет по шагу
// прогресса, и только на 100% задача выполняет фактические Create.
// Отмена до 100% не оставляет никаких следов в хранилище — ни
// записей, ни публикаций на шину. Завершённая задача остаётся
// доступной для опроса ещё retention, затем вычищается из карты.
type UploadService struct {
	mu          sync.RWMutex
	tasks       map[string]*uploadTask
	fileService *FileService

	tick      time.Duration
	step      float64
	retention time.Duration
}

func NewUploadService(fileService *FileService) *UploadService {
	return &UploadService{
		tasks:       make(map[string]*uploadTask),
		fileService: fileService,
		tick:        150 * time.Millisecond,
		step:        5,
		retention:   30 * time.Second,
	}
}

// Start проверяет подготовленные файлы и запускает задачу загрузки.
func (s *UploadService) Start(uploads []domain.FileUpload) (string, error) {
	if len(uploads) == 0 {
		return "", fmt.Errorf("%w: no files staged for upload", domain.ErrValidation)
	}
	for _, u := range uploads {
		if u.Name == "" {
			return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
		}
		if u.SizeBytes < 0 {
			return "", fmt.Errorf("%w: size_bytes must be non-negative", domain.ErrValidation)
		}
	}

	task := &uploadTask{
		id:      uuid.NewString(),
		uploads: uploads,
		status:  UploadStatusUploading,
	}

	s.mu.Lock()
	s.tasks[task.id] = task
	s.mu.Unlock()

	go s.run(task)
	return task.id, nil
}

func (s *UploadService) run(task *uploadTask) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		if task.cancelled {
			task.status = UploadStatusCancelled
			s.mu.Unlock()
			s.scheduleCleanup(task.id)
			return
		}

		task.progress += s.step
		if task.progress >= 100 {
			task.progress = 100
			s.mu.Unlock()
			break
		}
		s.mu.Unlock()
	}

	// Только здесь происходит фактическая мутация хранилища
	for _, u := range task.uploads {
		if _, err := s.fileService.Create(context.Background(), u); err != nil {
			s.mu.Lock()
			task.status = UploadStatusError
			task.err = err.Error()
			s.mu.Unlock()
			s.scheduleCleanup(task.id)
			return
		}
	}

	s.mu.Lock()
	task.status = UploadStatusCompleted
	s.mu.Unlock()
	s.scheduleCleanup(task.id)
}

// scheduleCleanup удаляет завершённую задачу из карты по истечении
// retention, чтобы карта и выдача List не росли бесконечно.
func (s *UploadService) scheduleCleanup(taskID string) {
	time.AfterFunc(s.retention, func() {
		s.mu.Lock()
		delete(s.tasks, taskID)
		s.mu.Unlock()
	})
}

// Cancel прерывает задачу до завершения. Завершённую, отменённую или
// достигшую 100% задачу отменить уже нельзя.
func (s *UploadService) Cancel(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: upload task %s", domain.ErrNotFound, taskID)
	}
	if task.status != UploadStatusUploading || task.progress >= 100 {
		return fmt.Errorf("%w: upload task %s is not cancellable", domain.ErrPrecondition, taskID)
	}

	task.cancelled = true
	return nil
}

// Progress возвращает снимок одной задачи.
func (s *UploadService) Progress(taskID string) (*UploadProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: upload task %s", domain.ErrNotFound, taskID)
	}

	snapshot := snapshotTask(task)
	return &snapshot, nil
}

// List возвращает снимки всех известных задач.
func (s *UploadService) List() []UploadProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]UploadProgress, 0, len(s.tasks))
	for _, task := range s.tasks {
		out = append(out, snapshotTask(task))
	}
	return out
}

func snapshotTask(task *uploadTask) UploadProgress {
	return UploadProgress{
		TaskID:     task.id,
		Percentage: task.progress,
		Status:     task.status,
		Error:      task.err,
		Files:      len(task.uploads),
	}
}
