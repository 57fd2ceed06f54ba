package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"teradrive/internal/domain"
	"teradrive/internal/repository"
	"teradrive/internal/service"
)

// Apply наполняет пустое хранилище демо-данными, чтобы свежая
// установка показывала заполненный дашборд. Если документ "files"
// уже записан хотя бы раз, посев не выполняется.
func Apply(
	ctx context.Context,
	fileRepo *repository.FileRepository,
	userRepo *repository.UserRepository,
	quotaService *service.StorageQuotaService,
) error {
	exists, err := fileRepo.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check files document: %w", err)
	}
	if exists {
		return nil
	}

	files := demoFiles()
	if err := fileRepo.Save(ctx, files); err != nil {
		return fmt.Errorf("failed to seed files: %w", err)
	}

	if _, err := userRepo.LoadUser(ctx); errors.Is(err, domain.ErrNotFound) {
		user := &domain.User{
			Name:  "Demo User",
			Email: "demo@teradrive.local",
			Storage: domain.Storage{
				TotalBytes: 15 << 30,
			},
		}
		if err := userRepo.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := quotaService.Recalculate(ctx, files); err != nil {
		return fmt.Errorf("failed to recalculate quota: %w", err)
	}

	log.Printf("Seeded %d demo files", len(files))
	return nil
}

func demoFiles() []domain.File {
	at := func(year int, month time.Month, day, hour, minute int) time.Time {
		return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	}

	return []domain.File{
		{
			ID:         "file-1",
			Name:       "Project Documentation.pdf",
			Category:   domain.CategoryDocument,
			SizeBytes:  2500000,
			CreatedAt:  at(2023, 3, 15, 10, 30),
			ModifiedAt: at(2023, 3, 20, 14, 20),
			Path:       "/documents",
			PreviewRef: "https://www.africau.edu/images/default/sample.pdf",
		},
		{
			ID:         "file-2",
			Name:       "Vacation Photos",
			Category:   domain.CategoryFolder,
			SizeBytes:  0,
			CreatedAt:  at(2023, 2, 10, 8, 15),
			ModifiedAt: at(2023, 3, 25, 11, 45),
			Path:       "/",
		},
		{
			ID:         "file-3",
			Name:       "Quarterly Report Q1.xlsx",
			Category:   domain.CategoryDocument,
			SizeBytes:  1800000,
			CreatedAt:  at(2023, 3, 28, 9, 0),
			ModifiedAt: at(2023, 3, 28, 9, 0),
			Path:       "/documents/reports",
		},
		{
			ID:         "file-4",
			Name:       "Beach Sunset.jpg",
			Category:   domain.CategoryImage,
			SizeBytes:  4500000,
			CreatedAt:  at(2023, 1, 5, 16, 20),
			ModifiedAt: at(2023, 1, 5, 16, 20),
			Path:       "/images",
			PreviewRef: "https://images.unsplash.com/photo-1526628953301-3e589a6a8b74?w=500",
		},
		{
			ID:         "file-5",
			Name:       "Project Presentation.pptx",
			Category:   domain.CategoryDocument,
			SizeBytes:  5200000,
			CreatedAt:  at(2023, 3, 10, 13, 40),
			ModifiedAt: at(2023, 3, 18, 10, 15),
			Path:       "/documents/presentations",
		},
		{
			ID:         "file-6",
			Name:       "Company Meeting.mp4",
			Category:   domain.CategoryVideo,
			SizeBytes:  158000000,
			CreatedAt:  at(2023, 3, 22, 15, 0),
			ModifiedAt: at(2023, 3, 22, 15, 0),
			Path:       "/videos",
			PreviewRef: "https://samplelib.com/lib/preview/mp4/sample-5s.mp4",
		},
		{
			ID:         "file-7",
			Name:       "Summer Mix.mp3",
			Category:   domain.CategoryAudio,
			SizeBytes:  8500000,
			CreatedAt:  at(2023, 3, 15, 12, 30),
			ModifiedAt: at(2023, 3, 15, 12, 30),
			Path:       "/audio",
			PreviewRef: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
		},
		{
			ID:         "file-8",
			Name:       "Client Feedback.docx",
			Category:   domain.CategoryDocument,
			SizeBytes:  850000,
			CreatedAt:  at(2023, 3, 25, 10, 40),
			ModifiedAt: at(2023, 3, 26, 9, 15),
			Path:       "/documents/clients",
		},
	}
}
