package seed

import (
	"context"
	"testing"

	"teradrive/internal/domain"
	"teradrive/internal/repository"
	"teradrive/internal/service"
	"teradrive/internal/storage"
)

func newSeedFixture(t *testing.T) (*repository.FileRepository, *repository.UserRepository, *service.StorageQuotaService) {
	t.Helper()
	blob, err := storage.NewFileBlob(t.TempDir())
	if err != nil {
		t.Fatalf("Ошибка создания FileBlob: %v", err)
	}
	fileRepo := repository.NewFileRepository(blob)
	userRepo := repository.NewUserRepository(blob)
	return fileRepo, userRepo, service.NewStorageQuotaService(userRepo)
}

// TestApplySeedsFreshStore проверяет посев в пустое хранилище:
// демо-записи, демо-аккаунт и согласованная квота.
func TestApplySeedsFreshStore(t *testing.T) {
	fileRepo, userRepo, quotaService := newSeedFixture(t)
	ctx := context.Background()

	if err := Apply(ctx, fileRepo, userRepo, quotaService); err != nil {
		t.Fatalf("Ошибка посева: %v", err)
	}

	files, err := fileRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Ошибка чтения коллекции: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("посев не создал ни одной записи")
	}
	for _, f := range files {
		if f.Recycled {
			t.Errorf("демо-запись %s оказалась в корзине", f.ID)
		}
	}

	user, err := userRepo.LoadUser(ctx)
	if err != nil {
		t.Fatalf("Ошибка чтения аккаунта: %v", err)
	}
	if want := quotaService.Used(files); user.Storage.UsedBytes != want {
		t.Errorf("used = %d, ожидалось %d по содержимому коллекции", user.Storage.UsedBytes, want)
	}
}

// TestApplySkipsSeededStore проверяет, что повторный посев ничего не
// меняет.
func TestApplySkipsSeededStore(t *testing.T) {
	fileRepo, userRepo, quotaService := newSeedFixture(t)
	ctx := context.Background()

	if err := Apply(ctx, fileRepo, userRepo, quotaService); err != nil {
		t.Fatalf("Ошибка первого посева: %v", err)
	}
	first, _ := fileRepo.Load(ctx)

	if err := Apply(ctx, fileRepo, userRepo, quotaService); err != nil {
		t.Fatalf("Ошибка повторного посева: %v", err)
	}
	second, _ := fileRepo.Load(ctx)

	if len(first) != len(second) {
		t.Errorf("повторный посев изменил коллекцию: %d -> %d", len(first), len(second))
	}
}

// TestApplySkipsNonEmptyStore проверяет, что пользовательские данные
// не затираются демо-набором.
func TestApplySkipsNonEmptyStore(t *testing.T) {
	fileRepo, userRepo, quotaService := newSeedFixture(t)
	ctx := context.Background()

	existing := []domain.File{{ID: "mine", Name: "mine.txt", Category: domain.CategoryDocument, SizeBytes: 1}}
	if err := fileRepo.Save(ctx, existing); err != nil {
		t.Fatalf("Ошибка сохранения: %v", err)
	}

	if err := Apply(ctx, fileRepo, userRepo, quotaService); err != nil {
		t.Fatalf("Ошибка посева: %v", err)
	}

	files, _ := fileRepo.Load(ctx)
	if len(files) != 1 || files[0].ID != "mine" {
		t.Errorf("посев затёр пользовательские данные: %v", files)
	}
}
