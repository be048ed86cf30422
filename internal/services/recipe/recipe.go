// Package recipe содержит бизнес-логику работы с рецептами: создание,
// поиск, подборки, переключение отметок и платный доступ к просмотру.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/magabrotheeeer/recipe-exchange/internal/models"
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

const (
	// ViewPrice — стоимость первого просмотра чужого рецепта в монетах.
	ViewPrice = 10
	// CreatorReward — вознаграждение автора за первый платный просмотр.
	CreatorReward = 1
	// SuggestionLimit — размер подборки самых просматриваемых рецептов.
	SuggestionLimit = 3

	cacheTTL = time.Hour
)

// Repository определяет методы хранилища, нужные сервису рецептов.
type Repository interface {
	CreateRecipe(ctx context.Context, recipe models.Recipe) (string, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, int, error)
	SuggestRecipes(ctx context.Context, category, country string, limit int) ([]*models.Recipe, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// PurchaseRecipeView выполняет обмен монет первого просмотра одной
	// транзакцией.
	PurchaseRecipeView(ctx context.Context, recipeID, viewerEmail string, price, reward int) error
	ToggleReaction(ctx context.Context, recipeID, userEmail, reactionType string) error
}

// Cache описывает методы кеширования документов рецептов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику рецептов, включая кеширование документов.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создаёт Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create сохраняет новый рецепт и возвращает его вместе с присвоенным ID.
func (s *Service) Create(ctx context.Context, req models.DummyRecipe) (*models.Recipe, error) {
	recipe := models.Recipe{
		Name:             req.Name,
		Image:            req.Image,
		Details:          req.Details,
		YoutubeVideoCode: req.YoutubeVideoCode,
		Country:          req.Country,
		Category:         req.Category,
		CreatorEmail:     req.CreatorEmail,
		PurchasedBy:      []string{},
		Reactions:        []models.Reaction{},
	}

	id, err := s.repo.CreateRecipe(ctx, recipe)
	if err != nil {
		return nil, err
	}
	recipe.ID = id

	s.log.Info("created new recipe", slog.String("id", id))
	return &recipe, nil
}

// List возвращает страницу рецептов по фильтру и общее число совпадений.
func (s *Service) List(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	return s.repo.ListRecipes(ctx, filter)
}

// Suggest возвращает самые просматриваемые рецепты по фильтру.
func (s *Service) Suggest(ctx context.Context, category, country string) ([]*models.Recipe, error) {
	return s.repo.SuggestRecipes(ctx, category, country, SuggestionLimit)
}

// View решает вопрос доступа к просмотру рецепта и проводит обмен монет при
// первом просмотре чужого рецепта. Автор и уже оплатившие смотрят бесплатно;
// первый просмотр списывает ViewPrice у зрителя, добавляет его в
// purchased_by, начисляет CreatorReward автору и увеличивает watch_count —
// всё одной транзакцией хранилища.
func (s *Service) View(ctx context.Context, recipeID, viewerEmail string) (*models.Recipe, error) {
	recipe, err := s.repo.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	viewer, err := s.repo.GetUserByEmail(ctx, viewerEmail)
	if err != nil {
		return nil, err
	}

	if recipe.CreatorEmail == viewer.Email {
		return recipe, nil
	}
	if slices.Contains(recipe.PurchasedBy, viewer.Email) {
		return recipe, nil
	}

	err = s.repo.PurchaseRecipeView(ctx, recipeID, viewer.Email, ViewPrice, CreatorReward)
	if err != nil && !errors.Is(err, repository.ErrAlreadyPurchased) {
		// гонка двух первых просмотров: проигравший платит как повторный,
		// то есть не платит вовсе
		return nil, err
	}

	s.invalidate(recipeID)
	return s.repo.GetRecipe(ctx, recipeID)
}

// CanView сообщает, доступен ли пользователю полный просмотр рецепта без
// новой оплаты: true для автора и уже оплативших.
func (s *Service) CanView(ctx context.Context, recipeID, viewerEmail string) (bool, error) {
	recipe, err := s.getCached(ctx, recipeID)
	if err != nil {
		return false, err
	}
	viewer, err := s.repo.GetUserByEmail(ctx, viewerEmail)
	if err != nil {
		return false, err
	}

	if recipe.CreatorEmail == viewer.Email {
		return true, nil
	}
	return slices.Contains(recipe.PurchasedBy, viewer.Email), nil
}

// ToggleReaction переключает отметку пользователя: первая установка
// добавляет запись, повторная снимает её независимо от типа.
// Возвращает обновлённый рецепт.
func (s *Service) ToggleReaction(ctx context.Context, recipeID, userEmail, reactionType string) (*models.Recipe, error) {
	if _, err := s.getCached(ctx, recipeID); err != nil {
		return nil, err
	}

	if err := s.repo.ToggleReaction(ctx, recipeID, userEmail, reactionType); err != nil {
		return nil, err
	}

	s.invalidate(recipeID)
	return s.repo.GetRecipe(ctx, recipeID)
}

// getCached возвращает документ рецепта из кеша или хранилища.
// Используется только читающими путями; денежный путь всегда ходит в базу.
func (s *Service) getCached(ctx context.Context, recipeID string) (*models.Recipe, error) {
	cacheKey := cacheKey(recipeID)

	var cached models.Recipe
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read recipe from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	recipe, err := s.repo.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, recipe, cacheTTL); err != nil {
		s.log.Warn("failed to cache recipe", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return recipe, nil
}

func (s *Service) invalidate(recipeID string) {
	key := cacheKey(recipeID)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to remove recipe from cache", slog.String("key", key), slog.Any("err", err))
	}
}

func cacheKey(recipeID string) string {
	return fmt.Sprintf("recipe:%s", recipeID)
}
