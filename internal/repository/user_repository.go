package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"teradrive/internal/domain"
	"teradrive/internal/storage"
)

const (
	userKey    = "user"
	sessionKey = "session-token"
)

// UserRepository хранит документ аккаунта и флаг сессии.
type UserRepository struct {
	blob storage.Blob
}

func NewUserRepository(blob storage.Blob) *UserRepository {
	return &UserRepository{blob: blob}
}

// LoadUser возвращает документ "user" или domain.ErrNotFound.
func (r *UserRepository) LoadUser(ctx context.Context) (*domain.User, error) {
	data, err := r.blob.Get(ctx, userKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: user document is absent", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load user: %v", domain.ErrPersistence, err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: corrupt user document: %v", domain.ErrPersistence, err)
	}
	return &user, nil
}

// SaveUser перезаписывает документ "user" целиком.
func (r *UserRepository) SaveUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal user: %v", domain.ErrPersistence, err)
	}

	if err := r.blob.Set(ctx, userKey, data); err != nil {
		return fmt.Errorf("%w: failed to save user: %v", domain.ErrPersistence, err)
	}
	return nil
}

// SetSessionToken записывает токен сессии.
func (r *UserRepository) SetSessionToken(ctx context.Context, token string) error {
	if err := r.blob.Set(ctx, sessionKey, []byte(token)); err != nil {
		return fmt.Errorf("%w: failed to save session token: %v", domain.ErrPersistence, err)
	}
	return nil
}

// SessionToken возвращает текущий токен. Отсутствие токена — пустая
// строка без ошибки: само наличие токена и есть факт сессии.
func (r *UserRepository) SessionToken(ctx context.Context) (string, error) {
	data, err := r.blob.Get(ctx, sessionKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to load session token: %v", domain.ErrPersistence, err)
	}
	return string(data), nil
}

// ClearSessionToken удаляет токен сессии.
func (r *UserRepository) ClearSessionToken(ctx context.Context) error {
	if err := r.blob.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("%w: failed to clear session token: %v", domain.ErrPersistence, err)
	}
	return nil
}
