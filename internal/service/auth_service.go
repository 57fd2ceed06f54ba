package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"teradrive/internal/domain"
	"teradrive/internal/repository"
)

// Лимит хранилища по умолчанию — 15 GB, как у демо-аккаунта.
const defaultQuotaBytes = 15 << 30

// AuthService — сессионный коллаборатор. Настоящей аутентификации
// нет: сессия — это факт наличия документа "session-token", пароль
// проверяется только на форму.
type AuthService struct {
	userRepo *repository.UserRepository
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login открывает сессию. Если аккаунта ещё нет, создаётся
// демо-аккаунт с пустым хранилищем.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.userRepo.LoadUser(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		user = &domain.User{
			Name:  "Demo User",
			Email: email,
			Storage: domain.Storage{
				UsedBytes:  0,
				TotalBytes: defaultQuotaBytes,
			},
		}
		if err := s.userRepo.SaveUser(ctx, user); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}

	token := uuid.NewString()
	if err := s.userRepo.SetSessionToken(ctx, token); err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Register создаёт аккаунт и открывает сессию.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	user := &domain.User{
		Name:  name,
		Email: email,
		Storage: domain.Storage{
			UsedBytes:  0,
			TotalBytes: defaultQuotaBytes,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, "", err
	}

	token := uuid.NewString()
	if err := s.userRepo.SetSessionToken(ctx, token); err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout закрывает сессию.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.userRepo.ClearSessionToken(ctx)
}

// IsSessionActive сообщает, открыта ли сессия.
func (s *AuthService) IsSessionActive(ctx context.Context) (bool, error) {
	token, err := s.userRepo.SessionToken(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// VerifyToken сверяет предъявленный токен с сохранённым.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (bool, error) {
	stored, err := s.userRepo.SessionToken(ctx)
	if err != nil {
		return false, err
	}
	return stored != "" && token == stored, nil
}

// CurrentUser возвращает документ аккаунта.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	return s.userRepo.LoadUser(ctx)
}

// UpdateProfile обновляет имя и почту аккаунта.
func (s *AuthService) UpdateProfile(ctx context.Context, name, email string) (*domain.User, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}

	user, err := s.userRepo.LoadUser(ctx)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
