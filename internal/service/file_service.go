package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"teradrive/internal/bus"
	"teradrive/internal/classifier"
	"teradrive/internal/domain"
	"teradrive/internal/projection"
	"teradrive/internal/repository"
)

// FileService — единственный владелец коллекции записей.
//
// Каждая мутация — один ход: прочитать документ целиком, изменить
// копию в памяти, записать целиком. Мьютекс сериализует ходы внутри
// процесса так же, как однопоточный цикл событий сериализовал их в
// исходной системе. Если запись не удалась, изменённая копия просто
// отбрасывается: память и диск не расходятся. Учёт квоты — часть того
// же хода: если запись аккаунта не удалась, документ records
// откатывается и операция возвращает ошибку. Сигнал на шину уходит
// строго после успешной записи, ровно один на операцию — включая
// пакетные формы.
type FileService struct {
	mu           sync.Mutex
	fileRepo     *repository.FileRepository
	quotaService *StorageQuotaService
	changeBus    *bus.Bus
}

func NewFileService(
	fileRepo *repository.FileRepository,
	quotaService *StorageQuotaService,
	changeBus *bus.Bus,
) *FileService {
	return &FileService{
		fileRepo:     fileRepo,
		quotaService: quotaService,
		changeBus:    changeBus,
	}
}

// Snapshot возвращает копию всей коллекции для проекций.
func (s *FileService) Snapshot(ctx context.Context) ([]domain.File, error) {
	return s.fileRepo.Load(ctx)
}

// ListActive возвращает записи вне корзины, по modifiedAt по убыванию.
func (s *FileService) ListActive(ctx context.Context) ([]domain.File, error) {
	records, err := s.fileRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return projection.SortByModified(projection.Active(records)), nil
}

// ListRecycled возвращает содержимое корзины в порядке вставки.
func (s *FileService) ListRecycled(ctx context.Context) ([]domain.File, error) {
	records, err := s.fileRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return projection.Recycled(records), nil
}

// Create добавляет новую запись и списывает квоту.
func (s *FileService) Create(ctx context.Context, upload domain.FileUpload) (*domain.File, error) {
	if upload.SizeBytes < 0 {
		return nil, fmt.Errorf("%w: size_bytes must be non-negative", domain.ErrValidation)
	}
	if upload.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	file, err := s.create(ctx, upload)
	if err != nil {
		return nil, err
	}

	s.changeBus.Publish()
	return file, nil
}

func (s *FileService) create(ctx context.Context, upload domain.FileUpload) (*domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.fileRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	path := upload.Path
	if path == "" {
		path = "/"
	}

	file := domain.File{
		ID:         uuid.NewString(),
		Name:       upload.Name,
		Category:   classifier.Classify(upload.Name, upload.MediaType),
		SizeBytes:  upload.SizeBytes,
		CreatedAt:  now,
		ModifiedAt: now,
		Path:       path,
		PreviewRef: upload.PreviewRef,
	}

	if err := s.fileRepo.Save(ctx, append(records, file)); err != nil {
		return nil, err
	}

	if err := s.quotaService.RecordUpload(ctx, file.SizeBytes); err != nil {
		s.rollback(ctx, records)
		return nil, err
	}

	return &file, nil
}

// rollback возвращает документ "files" к состоянию до мутации, когда
// учёт квоты не удался. Неудачный откат только логируется: операция в
// любом случае уже отклонена.
func (s *FileService) rollback(ctx context.Context, prev []domain.File) {
	if err := s.fileRepo.Save(ctx, prev); err != nil {
		log.Printf("failed to roll back files document: %v", err)
	}
}

// SoftDelete перемещает активную запись в корзину.
func (s *FileService) SoftDelete(ctx context.Context, id string) error {
	if err := s.setRecycled(ctx, id, true); err != nil {
		return err
	}

	s.changeBus.Publish()
	return nil
}

// Restore возвращает запись из корзины.
func (s *FileService) Restore(ctx context.Context, id string) error {
	if err := s.setRecycled(ctx, id, false); err != nil {
		return err
	}

	s.changeBus.Publish()
	return nil
}

func (s *FileService) setRecycled(ctx context.Context, id string, recycled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.fileRepo.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexByID(records, id)
	if idx < 0 {
		return fmt.Errorf("%w: record %s", domain.ErrNotFound, id)
	}
	if records[idx].Recycled == recycled {
		return fmt.Errorf("%w: record %s is already in the requested state", domain.ErrPrecondition, id)
	}

	records[idx].Recycled = recycled
	records[idx].ModifiedAt = time.Now().UTC()

	return s.fileRepo.Save(ctx, records)
}

// HardDelete окончательно удаляет запись из корзины и освобождает
// квоту. Запись обязана быть в корзине: активную сначала нужно
// удалить в корзину, иначе операция отклоняется.
func (s *FileService) HardDelete(ctx context.Context, id string) error {
	if err := s.hardDelete(ctx, id); err != nil {
		return err
	}

	s.changeBus.Publish()
	return nil
}

func (s *FileService) hardDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.fileRepo.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexByID(records, id)
	if idx < 0 {
		return fmt.Errorf("%w: record %s is absent", domain.ErrPrecondition, id)
	}
	if !records[idx].Recycled {
		return fmt.Errorf("%w: record %s must be recycled before permanent deletion", domain.ErrPrecondition, id)
	}

	removedBytes := records[idx].SizeBytes
	kept := make([]domain.File, 0, len(records)-1)
	kept = append(kept, records[:idx]...)
	kept = append(kept, records[idx+1:]...)

	if err := s.fileRepo.Save(ctx, kept); err != nil {
		return err
	}

	if err := s.quotaService.RecordHardDelete(ctx, removedBytes); err != nil {
		s.rollback(ctx, records)
		return err
	}

	return nil
}

// RestoreAll возвращает из корзины все записи одной записью документа
// и одной публикацией на шину.
func (s *FileService) RestoreAll(ctx context.Context) error {
	if err := s.restoreAll(ctx); err != nil {
		return err
	}

	s.changeBus.Publish()
	return nil
}

func (s *FileService) restoreAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.fileRepo.Load(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range records {
		if records[i].Recycled {
			records[i].Recycled = false
			records[i].ModifiedAt = now
		}
	}

	return s.fileRepo.Save(ctx, records)
}

// EmptyRecycleBin окончательно удаляет всё содержимое корзины одной
// записью документа и одной публикацией на шину.
func (s *FileService) EmptyRecycleBin(ctx context.Context) error {
	if err := s.emptyRecycleBin(ctx); err != nil {
		return err
	}

	s.changeBus.Publish()
	return nil
}

func (s *FileService) emptyRecycleBin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.fileRepo.Load(ctx)
	if err != nil {
		return err
	}

	var removedBytes int64
	kept := make([]domain.File, 0, len(records))
	for _, f := range records {
		if f.Recycled {
			removedBytes += f.SizeBytes
			continue
		}
		kept = append(kept, f)
	}

	if err := s.fileRepo.Save(ctx, kept); err != nil {
		return err
	}

	if removedBytes > 0 {
		if err := s.quotaService.RecordHardDelete(ctx, removedBytes); err != nil {
			s.rollback(ctx, records)
			return err
		}
	}

	return nil
}

func indexByID(records []domain.File, id string) int {
	for i, f := range records {
		if f.ID == id {
			return i
		}
	}
	return -1
}
