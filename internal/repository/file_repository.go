package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"teradrive/internal/domain"
	"teradrive/internal/storage"
)

const filesKey = "files"

// FileRepository читает и пишет документ "files" целиком.
// Частичных записей не бывает: коллекция всегда сериализуется одним
// JSON-массивом.
type FileRepository struct {
	blob storage.Blob
}

func NewFileRepository(blob storage.Blob) *FileRepository {
	return &FileRepository{blob: blob}
}

// Load возвращает всю коллекцию записей. Отсутствующий документ
// означает пустую коллекцию, а не ошибку.
func (r *FileRepository) Load(ctx context.Context) ([]domain.File, error) {
	data, err := r.blob.Get(ctx, filesKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []domain.File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load files: %v", domain.ErrPersistence, err)
	}

	var files []domain.File
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("%w: corrupt files document: %v", domain.ErrPersistence, err)
	}
	return files, nil
}

// Save перезаписывает документ "files" целиком.
func (r *FileRepository) Save(ctx context.Context, files []domain.File) error {
	data, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal files: %v", domain.ErrPersistence, err)
	}

	if err := r.blob.Set(ctx, filesKey, data); err != nil {
		return fmt.Errorf("%w: failed to save files: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Exists сообщает, записан ли документ "files" хотя бы раз.
func (r *FileRepository) Exists(ctx context.Context) (bool, error) {
	_, err := r.blob.Get(ctx, filesKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: failed to check files document: %v", domain.ErrPersistence, err)
	}
	return true, nil
}
