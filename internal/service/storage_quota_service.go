package service

import (
	"context"
	"fmt"

	"teradrive/internal/domain"
	"teradrive/internal/repository"
)

// StorageQuotaService ведёт агрегат занятого места аккаунта.
//
// Политика: запись потребляет квоту и в активном состоянии, и в
// корзине; место освобождает только окончательное удаление. Квота
// никогда не уходит в минус и никогда не превышает лимит; загрузки
// сверх лимита не отклоняются, излишек просто срезается при учёте.
type StorageQuotaService struct {
	userRepo *repository.UserRepository
}

func NewStorageQuotaService(userRepo *repository.UserRepository) *StorageQuotaService {
	return &StorageQuotaService{userRepo: userRepo}
}

// Used суммирует размер всех записей, потребляющих квоту.
func (s *StorageQuotaService) Used(records []domain.File) int64 {
	var total int64
	for _, f := range records {
		total += f.SizeBytes
	}
	return total
}

// ApplyUpload увеличивает занятое место с отсечкой по лимиту.
func (s *StorageQuotaService) ApplyUpload(user *domain.User, addedBytes int64) {
	user.Storage.UsedBytes = min(user.Storage.TotalBytes, user.Storage.UsedBytes+addedBytes)
}

// ApplyHardDelete уменьшает занятое место, не опускаясь ниже нуля.
func (s *StorageQuotaService) ApplyHardDelete(user *domain.User, removedBytes int64) {
	user.Storage.UsedBytes = max(0, user.Storage.UsedBytes-removedBytes)
}

// RecordUpload применяет ApplyUpload к сохранённому аккаунту.
func (s *StorageQuotaService) RecordUpload(ctx context.Context, addedBytes int64) error {
	user, err := s.userRepo.LoadUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account for quota update: %w", err)
	}

	s.ApplyUpload(user, addedBytes)
	return s.userRepo.SaveUser(ctx, user)
}

// RecordHardDelete применяет ApplyHardDelete к сохранённому аккаунту.
func (s *StorageQuotaService) RecordHardDelete(ctx context.Context, removedBytes int64) error {
	user, err := s.userRepo.LoadUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account for quota update: %w", err)
	}

	s.ApplyHardDelete(user, removedBytes)
	return s.userRepo.SaveUser(ctx, user)
}

// Recalculate выставляет занятое место по фактическому содержимому
// коллекции. Используется при посеве демо-данных.
func (s *StorageQuotaService) Recalculate(ctx context.Context, records []domain.File) error {
	user, err := s.userRepo.LoadUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account for quota recalc: %w", err)
	}

	user.Storage.UsedBytes = min(user.Storage.TotalBytes, s.Used(records))
	return s.userRepo.SaveUser(ctx, user)
}

// GetQuotaInfo собирает снимок квоты с разбивкой по категориям.
func (s *StorageQuotaService) GetQuotaInfo(ctx context.Context, records []domain.File) (*domain.QuotaInfo, error) {
	user, err := s.userRepo.LoadUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get quota: %w", err)
	}

	var usagePercent float64
	if user.Storage.TotalBytes > 0 {
		usagePercent = float64(user.Storage.UsedBytes) / float64(user.Storage.TotalBytes) * 100
	}

	return &domain.QuotaInfo{
		TotalSpace:     user.Storage.TotalBytes,
		UsedSpace:      user.Storage.UsedBytes,
		AvailableSpace: user.Storage.TotalBytes - user.Storage.UsedBytes,
		UsagePercent:   usagePercent,
		Breakdown:      s.Breakdown(records),
	}, nil
}

// Breakdown считает занятое место по категориям в той же политике,
// что и Used: корзина продолжает учитываться.
func (s *StorageQuotaService) Breakdown(records []domain.File) []domain.CategoryUsage {
	categories := []domain.Category{
		domain.CategoryDocument,
		domain.CategoryImage,
		domain.CategoryVideo,
		domain.CategoryAudio,
		domain.CategoryOther,
	}

	byCategory := make(map[domain.Category]int64)
	for _, f := range records {
		byCategory[f.Category] += f.SizeBytes
	}

	breakdown := make([]domain.CategoryUsage, 0, len(categories))
	for _, c := range categories {
		breakdown = append(breakdown, domain.CategoryUsage{
			Category:  c,
			UsedBytes: byCategory[c],
		})
	}
	return breakdown
}
