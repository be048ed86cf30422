// Package user содержит бизнес-логику работы с аккаунтами: вход с созданием
// при первом обращении, чтение текущего пользователя и агрегатные счётчики.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/recipe-exchange/internal/models"
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

// Repository определяет методы хранилища, нужные сервису пользователей.
type Repository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CountUsers возвращает количество пользователей.
	CountUsers(ctx context.Context) (int, error)
	// CountRecipes возвращает количество рецептов.
	CountRecipes(ctx context.Context) (int, error)
}

// Service реализует операции с аккаунтами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// LoginOrCreate ищет пользователя по email и создаёт его со стартовым
// балансом, если аккаунта ещё нет. Возвращает аккаунт в обоих случаях.
// Гонку одновременных созданий разрешает уникальный индекс по email.
func (s *Service) LoginOrCreate(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user := models.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Coins:       models.DefaultCoins,
	}
	uid, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.UID = uid

	s.log.Info("created new user", slog.String("email", req.Email))
	return &user, nil
}

// GetByEmail возвращает аккаунт по подтверждённому email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

// Counts возвращает количество пользователей и рецептов.
// Значения считаются заново на каждый запрос, без кеша.
func (s *Service) Counts(ctx context.Context) (userCount, recipeCount int, err error) {
	userCount, err = s.repo.CountUsers(ctx)
	if err != nil {
		return 0, 0, err
	}
	recipeCount, err = s.repo.CountRecipes(ctx)
	if err != nil {
		return 0, 0, err
	}
	return userCount, recipeCount, nil
}
