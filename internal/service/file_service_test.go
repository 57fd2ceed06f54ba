package service

import (
	"context"
	"errors"
	"testing"

	"teradrive/internal/domain"
)

// TestCreate проверяет создание записи: попадание в активный список,
// классификацию, списание квоты и одну публикацию на шину.
func TestCreate(t *testing.T) {
	f := newFixture(t)
	published := f.countPublishes()
	ctx := context.Background()

	file, err := f.fileService.Create(ctx, domain.FileUpload{
		Name:      "report.pdf",
		MediaType: "application/pdf",
		SizeBytes: 1000,
	})
	if err != nil {
		t.Fatalf("Ошибка создания: %v", err)
	}

	if file.ID == "" {
		t.Error("запись создана без идентификатора")
	}
	if file.Category != domain.CategoryDocument {
		t.Errorf("category = %s, ожидалась document", file.Category)
	}
	if file.Path != "/" {
		t.Errorf("path = %q, ожидался корень по умолчанию", file.Path)
	}
	if file.Recycled {
		t.Error("новая запись сразу оказалась в корзине")
	}

	active, err := f.fileService.ListActive(ctx)
	if err != nil {
		t.Fatalf("Ошибка чтения активных: %v", err)
	}
	if len(active) != 1 || active[0].ID != file.ID {
		t.Errorf("активный список: %v, ожидалась одна запись %s", active, file.ID)
	}

	if got := f.usedBytes(t); got != 1000 {
		t.Errorf("used = %d, ожидалось 1000", got)
	}
	if *published != 1 {
		t.Errorf("публикаций = %d, ожидалась 1", *published)
	}
}

// TestCreateGeneratesUniqueIDs проверяет уникальность идентификаторов.
func TestCreateGeneratesUniqueIDs(t *testing.T) {
	f := newFixture(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		file := f.mustCreate(t, "a.txt", 1)
		if seen[file.ID] {
			t.Fatalf("идентификатор %s выдан повторно", file.ID)
		}
		seen[file.ID] = true
	}
}

// TestCreateValidation проверяет отклонение некорректной загрузки:
// коллекция и квота не меняются, публикации нет.
func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	published := f.countPublishes()
	ctx := context.Background()

	cases := []domain.FileUpload{
		{Name: "", SizeBytes: 10},
		{Name: "x.txt", SizeBytes: -1},
	}

	for _, upload := range cases {
		_, err := f.fileService.Create(ctx, upload)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Create(%+v): err = %v, ожидалась ErrValidation", upload, err)
		}
	}

	snapshot, err := f.fileService.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Ошибка чтения снимка: %v", err)
	}
	if len(snapshot) != 0 {
		t.Errorf("в коллекции %d записей после отклонённых загрузок", len(snapshot))
	}
	if got := f.usedBytes(t); got != 0 {
		t.Errorf("used = %d после отклонённых загрузок", got)
	}
	if *published != 0 {
		t.Errorf("публикаций = %d, отклонение не должно публиковать", *published)
	}
}

// TestSoftDeleteAndRestore проверяет перемещение в корзину и обратно;
// квота при этом не меняется.
func TestSoftDeleteAndRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.mustCreate(t, "photo.jpg", 500)

	if err := f.fileService.SoftDelete(ctx, file.ID); err != nil {
		t.Fatalf("Ошибка удаления в корзину: %v", err)
	}

	active, _ := f.fileService.ListActive(ctx)
	recycled, _ := f.fileService.ListRecycled(ctx)
	if len(active) != 0 {
		t.Errorf("запись осталась в активном списке")
	}
	if len(recycled) != 1 || recycled[0].ID != file.ID {
		t.Errorf("корзина: %v, ожидалась запись %s", recycled, file.ID)
	}
	if got := f.usedBytes(t); got != 500 {
		t.Errorf("used = %d, корзина должна продолжать занимать место", got)
	}

	if err := f.fileService.Restore(ctx, file.ID); err != nil {
		t.Fatalf("Ошибка восстановления: %v", err)
	}

	active, _ = f.fileService.ListActive(ctx)
	recycled, _ = f.fileService.ListRecycled(ctx)
	if len(active) != 1 {
		t.Errorf("запись не вернулась в активный список")
	}
	if len(recycled) != 0 {
		t.Errorf("запись осталась в корзине после восстановления")
	}
	if got := f.usedBytes(t); got != 500 {
		t.Errorf("used = %d, восстановление не должно менять квоту", got)
	}
}

// TestHardDeleteFreesQuota проверяет, что окончательное удаление
// освобождает ровно размер записи.
func TestHardDeleteFreesQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.mustCreate(t, "clip.mp4", 1000)
	f.mustCreate(t, "keep.txt", 300)

	if err := f.fileService.SoftDelete(ctx, file.ID); err != nil {
		t.Fatalf("Ошибка удаления в корзину: %v", err)
	}
	if err := f.fileService.HardDelete(ctx, file.ID); err != nil {
		t.Fatalf("Ошибка окончательного удаления: %v", err)
	}

	snapshot, _ := f.fileService.Snapshot(ctx)
	if len(snapshot) != 1 {
		t.Errorf("в коллекции %d записей, ожидалась 1", len(snapshot))
	}
	if got := f.usedBytes(t); got != 300 {
		t.Errorf("used = %d, ожидалось 300", got)
	}
}

// TestLifecycleErrors проверяет таксономию ошибок жизненного цикла.
func TestLifecycleErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.mustCreate(t, "a.txt", 10)

	// Неизвестный идентификатор
	if err := f.fileService.SoftDelete(ctx, "no-such-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SoftDelete(неизвестный): err = %v, ожидалась ErrNotFound", err)
	}
	if err := f.fileService.Restore(ctx, "no-such-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Restore(неизвестный): err = %v, ожидалась ErrNotFound", err)
	}

	// Повторное удаление активной записи в том же состоянии
	if err := f.fileService.Restore(ctx, file.ID); !errors.Is(err, domain.ErrPrecondition) {
		t.Errorf("Restore(активная): err = %v, ожидалась ErrPrecondition", err)
	}

	// Окончательное удаление активной записи запрещено
	if err := f.fileService.HardDelete(ctx, file.ID); !errors.Is(err, domain.ErrPrecondition) {
		t.Errorf("HardDelete(активная): err = %v, ожидалась ErrPrecondition", err)
	}

	// Окончательное удаление отсутствующей записи тоже нарушает
	// предусловие
	if err := f.fileService.HardDelete(ctx, "no-such-id"); !errors.Is(err, domain.ErrPrecondition) {
		t.Errorf("HardDelete(неизвестный): err = %v, ожидалась ErrPrecondition", err)
	}

	if err := f.fileService.SoftDelete(ctx, file.ID); err != nil {
		t.Fatalf("Ошибка удаления в корзину: %v", err)
	}
	if err := f.fileService.SoftDelete(ctx, file.ID); !errors.Is(err, domain.ErrPrecondition) {
		t.Errorf("SoftDelete(повторный): err = %v, ожидалась ErrPrecondition", err)
	}
}

// TestRestoreAll проверяет массовое восстановление: одна запись
// документа, одна публикация.
func TestRestoreAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.mustCreate(t, "a.txt", 10)
	b := f.mustCreate(t, "b.txt", 20)
	f.mustCreate(t, "c.txt", 30)
	f.fileService.SoftDelete(ctx, a.ID)
	f.fileService.SoftDelete(ctx, b.ID)

	published := f.countPublishes()

	if err := f.fileService.RestoreAll(ctx); err != nil {
		t.Fatalf("Ошибка массового восстановления: %v", err)
	}

	active, _ := f.fileService.ListActive(ctx)
	recycled, _ := f.fileService.ListRecycled(ctx)
	if len(active) != 3 || len(recycled) != 0 {
		t.Errorf("active = %d, recycled = %d; ожидалось 3 и 0", len(active), len(recycled))
	}
	if *published != 1 {
		t.Errorf("публикаций = %d, ожидалась ровно 1 на пакетную операцию", *published)
	}
}

// TestEmptyRecycleBin проверяет очистку корзины: активные записи
// нетронуты, квота освобождена, одна публикация.
func TestEmptyRecycleBin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.mustCreate(t, "a.txt", 100)
	b := f.mustCreate(t, "b.txt", 200)
	f.mustCreate(t, "keep.txt", 50)
	f.fileService.SoftDelete(ctx, a.ID)
	f.fileService.SoftDelete(ctx, b.ID)

	published := f.countPublishes()

	if err := f.fileService.EmptyRecycleBin(ctx); err != nil {
		t.Fatalf("Ошибка очистки корзины: %v", err)
	}

	snapshot, _ := f.fileService.Snapshot(ctx)
	if len(snapshot) != 1 || snapshot[0].Name != "keep.txt" {
		t.Errorf("после очистки: %v, ожидалась только keep.txt", snapshot)
	}
	if got := f.usedBytes(t); got != 50 {
		t.Errorf("used = %d, ожидалось 50", got)
	}
	if *published != 1 {
		t.Errorf("публикаций = %d, ожидалась ровно 1 на пакетную операцию", *published)
	}
}

// TestEmptyRecycleBinOnEmptyBin проверяет очистку пустой корзины.
func TestEmptyRecycleBinOnEmptyBin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustCreate(t, "keep.txt", 50)

	if err := f.fileService.EmptyRecycleBin(ctx); err != nil {
		t.Fatalf("Очистка пустой корзины вернула ошибку: %v", err)
	}

	active, _ := f.fileService.ListActive(ctx)
	if len(active) != 1 {
		t.Errorf("активная запись пропала при очистке пустой корзины")
	}
}

// TestPersistFailureRollsBack проверяет, что неудачная запись
// документа не меняет видимое состояние и не публикуется.
func TestPersistFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.mustCreate(t, "a.txt", 10)
	published := f.countPublishes()

	f.blob.failSets.Store(true)

	_, err := f.fileService.Create(ctx, domain.FileUpload{Name: "b.txt", SizeBytes: 20})
	if !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("Create при отказе диска: err = %v, ожидалась ErrPersistence", err)
	}
	if err := f.fileService.SoftDelete(ctx, file.ID); !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("SoftDelete при отказе диска: err = %v, ожидалась ErrPersistence", err)
	}

	f.blob.failSets.Store(false)

	snapshot, _ := f.fileService.Snapshot(ctx)
	if len(snapshot) != 1 {
		t.Errorf("в коллекции %d записей, отказ записи должен откатываться", len(snapshot))
	}
	if snapshot[0].Recycled {
		t.Error("запись оказалась в корзине несмотря на отказ записи")
	}
	if got := f.usedBytes(t); got != 10 {
		t.Errorf("used = %d, ожидалось 10", got)
	}
	if *published != 0 {
		t.Errorf("публикаций = %d, неудачная мутация не должна публиковать", *published)
	}
}

// TestQuotaPersistFailureRollsBack проверяет откат документа records,
// когда записались файлы, но не записался аккаунт: операция
// возвращает ошибку, коллекция и квота остаются согласованными,
// публикации нет.
func TestQuotaPersistFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	file := f.mustCreate(t, "a.txt", 10)
	if err := f.fileService.SoftDelete(ctx, file.ID); err != nil {
		t.Fatalf("Ошибка удаления в корзину: %v", err)
	}

	published := f.countPublishes()
	f.blob.failKey.Store("user")

	// Создание: запись файлов проходит, запись аккаунта — нет
	_, err := f.fileService.Create(ctx, domain.FileUpload{Name: "b.txt", SizeBytes: 20})
	if !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("Create при отказе записи аккаунта: err = %v, ожидалась ErrPersistence", err)
	}

	// Окончательное удаление: то же самое
	if err := f.fileService.HardDelete(ctx, file.ID); !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("HardDelete при отказе записи аккаунта: err = %v, ожидалась ErrPersistence", err)
	}

	// Очистка корзины: то же самое
	if err := f.fileService.EmptyRecycleBin(ctx); !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("EmptyRecycleBin при отказе записи аккаунта: err = %v, ожидалась ErrPersistence", err)
	}

	f.blob.failKey.Store("")

	snapshot, errLoad := f.fileService.Snapshot(ctx)
	if errLoad != nil {
		t.Fatalf("Ошибка чтения снимка: %v", errLoad)
	}
	if len(snapshot) != 1 || snapshot[0].ID != file.ID {
		t.Errorf("коллекция после откатов: %v, ожидалась одна запись %s", snapshot, file.ID)
	}
	if !snapshot[0].Recycled {
		t.Error("запись пропала из корзины несмотря на откат")
	}
	if got := f.usedBytes(t); got != 10 {
		t.Errorf("used = %d, ожидалось 10", got)
	}
	if *published != 0 {
		t.Errorf("публикаций = %d, отклонённые операции не должны публиковать", *published)
	}
}
