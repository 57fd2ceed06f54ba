package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"teradrive/internal/bus"
	"teradrive/internal/domain"
	"teradrive/internal/repository"
	"teradrive/internal/storage"
)

// flakyBlob оборачивает настоящее хранилище и по флагу начинает
// отклонять записи — все или только одного ключа. Нужен для проверки
// отката неудачных мутаций.
type flakyBlob struct {
	inner    storage.Blob
	failSets atomic.Bool
	failKey  atomic.Value // string: отклонять записи только этого ключа
}

func (b *flakyBlob) Get(ctx context.Context, key string) ([]byte, error) {
	return b.inner.Get(ctx, key)
}

func (b *flakyBlob) Set(ctx context.Context, key string, value []byte) error {
	if b.failSets.Load() {
		return errors.New("disk full")
	}
	if failKey, _ := b.failKey.Load().(string); failKey != "" && failKey == key {
		return errors.New("disk full")
	}
	return b.inner.Set(ctx, key, value)
}

func (b *flakyBlob) Delete(ctx context.Context, key string) error {
	return b.inner.Delete(ctx, key)
}

// fixture собирает сервисы поверх файлового хранилища во временной
// директории, с аккаунтом на 15 GB.
type fixture struct {
	blob         *flakyBlob
	fileService  *FileService
	quotaService *StorageQuotaService
	userRepo     *repository.UserRepository
	bus          *bus.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	inner, err := storage.NewFileBlob(t.TempDir())
	if err != nil {
		t.Fatalf("Ошибка создания FileBlob: %v", err)
	}
	blob := &flakyBlob{inner: inner}

	fileRepo := repository.NewFileRepository(blob)
	userRepo := repository.NewUserRepository(blob)
	changeBus := bus.New()
	quotaService := NewStorageQuotaService(userRepo)
	fileService := NewFileService(fileRepo, quotaService, changeBus)

	user := &domain.User{
		Name:  "Demo User",
		Email: "demo@teradrive.local",
		Storage: domain.Storage{
			UsedBytes:  0,
			TotalBytes: defaultQuotaBytes,
		},
	}
	if err := userRepo.SaveUser(context.Background(), user); err != nil {
		t.Fatalf("Ошибка сохранения аккаунта: %v", err)
	}

	return &fixture{
		blob:         blob,
		fileService:  fileService,
		quotaService: quotaService,
		userRepo:     userRepo,
		bus:          changeBus,
	}
}

// countPublishes подписывает счётчик на шину изменений.
func (f *fixture) countPublishes() *int {
	count := new(int)
	f.bus.Subscribe(func() { *count++ })
	return count
}

func (f *fixture) mustCreate(t *testing.T, name string, size int64) *domain.File {
	t.Helper()
	file, err := f.fileService.Create(context.Background(), domain.FileUpload{
		Name:      name,
		SizeBytes: size,
	})
	if err != nil {
		t.Fatalf("Ошибка создания записи %q: %v", name, err)
	}
	return file
}

func (f *fixture) usedBytes(t *testing.T) int64 {
	t.Helper()
	user, err := f.userRepo.LoadUser(context.Background())
	if err != nil {
		t.Fatalf("Ошибка чтения аккаунта: %v", err)
	}
	return user.Storage.UsedBytes
}
