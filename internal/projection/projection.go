package projection

import (
	"sort"
	"strings"

	"teradrive/internal/domain"
)

// RecentLimit — размер выборки "недавние файлы".
const RecentLimit = 5

// Проекции — чистые функции над снимком коллекции. Ни одна из них не
// изменяет ни снимок, ни хранилище: результат всегда новый срез.

// Active возвращает записи вне корзины.
func Active(records []domain.File) []domain.File {
	out := make([]domain.File, 0, len(records))
	for _, f := range records {
		if !f.Recycled {
			out = append(out, f)
		}
	}
	return out
}

// Recycled возвращает содержимое корзины.
func Recycled(records []domain.File) []domain.File {
	out := make([]domain.File, 0)
	for _, f := range records {
		if f.Recycled {
			out = append(out, f)
		}
	}
	return out
}

// SortByModified возвращает копию, отсортированную по modifiedAt по
// убыванию. Сортировка стабильная: порядок вставки сохраняется при
// равных временах.
func SortByModified(records []domain.File) []domain.File {
	out := make([]domain.File, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModifiedAt.After(out[j].ModifiedAt)
	})
	return out
}

// Recent — активные записи, отсортированные по modifiedAt, первые пять.
func Recent(records []domain.File) []domain.File {
	recent := SortByModified(Active(records))
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return recent
}

// ByCategory — активные записи одной категории.
func ByCategory(records []domain.File, category domain.Category) []domain.File {
	out := make([]domain.File, 0)
	for _, f := range Active(records) {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

// Search — активные записи, имя которых содержит query без учёта
// регистра. Пустой запрос возвращает все активные записи.
func Search(records []domain.File, query string) []domain.File {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Active(records)
	}

	out := make([]domain.File, 0)
	for _, f := range Active(records) {
		if strings.Contains(strings.ToLower(f.Name), query) {
			out = append(out, f)
		}
	}
	return out
}
