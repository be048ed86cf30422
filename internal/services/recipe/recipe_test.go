package recipe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/recipe-exchange/internal/models"
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateRecipe(ctx context.Context, recipe models.Recipe) (string, error) {
	args := m.Called(ctx, recipe)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRepository) ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Recipe), args.Int(1), args.Error(2)
}

func (m *MockRepository) SuggestRecipes(ctx context.Context, category, country string, limit int) ([]*models.Recipe, error) {
	args := m.Called(ctx, category, country, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) PurchaseRecipeView(ctx context.Context, recipeID, viewerEmail string, price, reward int) error {
	args := m.Called(ctx, recipeID, viewerEmail, price, reward)
	return args.Error(0)
}

func (m *MockRepository) ToggleReaction(ctx context.Context, recipeID, userEmail, reactionType string) error {
	args := m.Called(ctx, recipeID, userEmail, reactionType)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_View(t *testing.T) {
	const recipeID = "9d3a1f50-aaaa-4c21-9f10-000000000001"

	creator := &models.User{Email: "creator@example.com", Coins: 50}
	viewer := &models.User{Email: "viewer@example.com", Coins: 50}

	freshRecipe := func(purchasedBy ...string) *models.Recipe {
		if purchasedBy == nil {
			purchasedBy = []string{}
		}
		return &models.Recipe{
			ID:           recipeID,
			Name:         "Борщ",
			CreatorEmail: creator.Email,
			PurchasedBy:  purchasedBy,
			Reactions:    []models.Reaction{},
		}
	}

	tests := []struct {
		name          string
		viewerEmail   string
		setupMocks    func(*MockRepository, *MockCache)
		expectedError error
	}{
		{
			name:        "owner views own recipe without charge",
			viewerEmail: creator.Email,
			setupMocks: func(r *MockRepository, _ *MockCache) {
				r.On("GetRecipe", mock.Anything, recipeID).Return(freshRecipe(), nil).Once()
				r.On("GetUserByEmail", mock.Anything, creator.Email).Return(creator, nil).Once()
			},
		},
		{
			name:        "repeat view is free",
			viewerEmail: viewer.Email,
			setupMocks: func(r *MockRepository, _ *MockCache) {
				r.On("GetRecipe", mock.Anything, recipeID).Return(freshRecipe(viewer.Email), nil).Once()
				r.On("GetUserByEmail", mock.Anything, viewer.Email).Return(viewer, nil).Once()
			},
		},
		{
			name:        "first view charges and invalidates cache",
			viewerEmail: viewer.Email,
			setupMocks: func(r *MockRepository, c *MockCache) {
				r.On("GetRecipe", mock.Anything, recipeID).Return(freshRecipe(), nil).Once()
				r.On("GetUserByEmail", mock.Anything, viewer.Email).Return(viewer, nil).Once()
				r.On("PurchaseRecipeView", mock.Anything, recipeID, viewer.Email, ViewPrice, CreatorReward).
					Return(nil).Once()
				c.On("Invalidate", "recipe:"+recipeID).Return(nil).Once()
				r.On("GetRecipe", mock.Anything, recipeID).Return(freshRecipe(viewer.Email), nil).Once()
			},
		},
		{
			name:        "lost purchase race treated as repeat view",
			viewerEmail: viewer.Email,
			setupMocks: func(r *MockRepository, c *MockCache) {
				r.On("GetRecipe", mock.Anything, recipeID).Return(freshRecipe(), nil).Once()
				r.On("GetUserByEmail", mock.Anything, viewer.Email).Return(viewer, nil).Once()
				r.On("PurchaseRecipeView", mock.Anything, recipeID, viewer.Email, ViewPrice, CreatorReward).
					Return(repository.ErrAlreadyPurchased).Once()
				c.On("Invalidate", "recipe:"+recipeID).Return(nil).Once()
				r.On("GetRecipe", mock.Anything, recipeID).Return(freshRecipe(viewer.Email), nil).Once()
			},
		},
		{
			name:        "insufficient coins error passes through",
			viewerEmail: viewer.Email,
			setupMocks: func(r *MockRepository, _ *MockCache) {
				r.On("GetRecipe", mock.Anything, recipeID).Return(freshRecipe(), nil).Once()
				r.On("GetUserByEmail", mock.Anything, viewer.Email).Return(viewer, nil).Once()
				r.On("PurchaseRecipeView", mock.Anything, recipeID, viewer.Email, ViewPrice, CreatorReward).
					Return(repository.ErrInsufficientCoins).Once()
			},
			expectedError: repository.ErrInsufficientCoins,
		},
		{
			name:        "recipe not found",
			viewerEmail: viewer.Email,
			setupMocks: func(r *MockRepository, _ *MockCache) {
				r.On("GetRecipe", mock.Anything, recipeID).Return(nil, repository.ErrRecipeNotFound).Once()
			},
			expectedError: repository.ErrRecipeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			cache := new(MockCache)
			tt.setupMocks(repo, cache)

			svc := New(repo, cache, newNoopLogger())

			recipe, err := svc.View(context.Background(), recipeID, tt.viewerEmail)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, recipe)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, recipe)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_CanView(t *testing.T) {
	const recipeID = "9d3a1f50-aaaa-4c21-9f10-000000000002"
	cachedKey := "recipe:" + recipeID

	recipe := &models.Recipe{
		ID:           recipeID,
		CreatorEmail: "creator@example.com",
		PurchasedBy:  []string{"buyer@example.com"},
		Reactions:    []models.Reaction{},
	}

	tests := []struct {
		name        string
		viewerEmail string
		setupMocks  func(*MockRepository, *MockCache)
		expected    bool
	}{
		{
			name:        "owner can always view",
			viewerEmail: "creator@example.com",
			setupMocks: func(r *MockRepository, c *MockCache) {
				c.On("Get", cachedKey, mock.Anything).Return(false, nil).Once()
				r.On("GetRecipe", mock.Anything, recipeID).Return(recipe, nil).Once()
				c.On("Set", cachedKey, recipe, cacheTTL).Return(nil).Once()
				r.On("GetUserByEmail", mock.Anything, "creator@example.com").
					Return(&models.User{Email: "creator@example.com"}, nil).Once()
			},
			expected: true,
		},
		{
			name:        "buyer can view",
			viewerEmail: "buyer@example.com",
			setupMocks: func(r *MockRepository, c *MockCache) {
				c.On("Get", cachedKey, mock.Anything).Return(false, nil).Once()
				r.On("GetRecipe", mock.Anything, recipeID).Return(recipe, nil).Once()
				c.On("Set", cachedKey, recipe, cacheTTL).Return(nil).Once()
				r.On("GetUserByEmail", mock.Anything, "buyer@example.com").
					Return(&models.User{Email: "buyer@example.com"}, nil).Once()
			},
			expected: true,
		},
		{
			name:        "stranger cannot view",
			viewerEmail: "stranger@example.com",
			setupMocks: func(r *MockRepository, c *MockCache) {
				c.On("Get", cachedKey, mock.Anything).Return(false, nil).Once()
				r.On("GetRecipe", mock.Anything, recipeID).Return(recipe, nil).Once()
				c.On("Set", cachedKey, recipe, cacheTTL).Return(nil).Once()
				r.On("GetUserByEmail", mock.Anything, "stranger@example.com").
					Return(&models.User{Email: "stranger@example.com"}, nil).Once()
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			cache := new(MockCache)
			tt.setupMocks(repo, cache)

			svc := New(repo, cache, newNoopLogger())

			canView, err := svc.CanView(context.Background(), recipeID, tt.viewerEmail)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, canView)
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_ToggleReaction(t *testing.T) {
	const recipeID = "9d3a1f50-aaaa-4c21-9f10-000000000003"
	cachedKey := "recipe:" + recipeID

	recipe := &models.Recipe{ID: recipeID, PurchasedBy: []string{}, Reactions: []models.Reaction{}}

	t.Run("toggle invalidates cache and returns fresh recipe", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)

		cache.On("Get", cachedKey, mock.Anything).Return(false, nil).Once()
		repo.On("GetRecipe", mock.Anything, recipeID).Return(recipe, nil).Once()
		cache.On("Set", cachedKey, recipe, cacheTTL).Return(nil).Once()
		repo.On("ToggleReaction", mock.Anything, recipeID, "user@example.com", "like").Return(nil).Once()
		cache.On("Invalidate", cachedKey).Return(nil).Once()
		updated := &models.Recipe{
			ID:          recipeID,
			PurchasedBy: []string{},
			Reactions:   []models.Reaction{{User: "user@example.com", Type: "like"}},
		}
		repo.On("GetRecipe", mock.Anything, recipeID).Return(updated, nil).Once()

		svc := New(repo, cache, newNoopLogger())

		result, err := svc.ToggleReaction(context.Background(), recipeID, "user@example.com", "like")

		assert.NoError(t, err)
		assert.Len(t, result.Reactions, 1)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("missing recipe stops before repository toggle", func(t *testing.T) {
		repo := new(MockRepository)
		cache := new(MockCache)

		cache.On("Get", cachedKey, mock.Anything).Return(false, nil).Once()
		repo.On("GetRecipe", mock.Anything, recipeID).Return(nil, repository.ErrRecipeNotFound).Once()

		svc := New(repo, cache, newNoopLogger())

		result, err := svc.ToggleReaction(context.Background(), recipeID, "user@example.com", "like")

		assert.ErrorIs(t, err, repository.ErrRecipeNotFound)
		assert.Nil(t, result)
		repo.AssertNotCalled(t, "ToggleReaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Create(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	req := models.DummyRecipe{
		Name:             "Плов",
		Image:            "https://example.com/plov.png",
		Details:          "Рис, морковь, мясо",
		YoutubeVideoCode: "abc123",
		Country:          "Uzbekistan",
		Category:         "Main",
		CreatorEmail:     "creator@example.com",
	}

	repo.On("CreateRecipe", mock.Anything, mock.MatchedBy(func(r models.Recipe) bool {
		return r.Name == req.Name && r.CreatorEmail == req.CreatorEmail &&
			len(r.PurchasedBy) == 0 && len(r.Reactions) == 0
	})).Return("new-id", nil).Once()

	svc := New(repo, cache, newNoopLogger())

	recipe, err := svc.Create(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "new-id", recipe.ID)
	assert.Equal(t, 0, recipe.WatchCount)
	repo.AssertExpectations(t)
}

func TestService_List_Defaults(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	repo.On("ListRecipes", mock.Anything, models.RecipeFilter{Page: 1, Limit: 10}).
		Return([]*models.Recipe{}, 0, nil).Once()

	svc := New(repo, cache, newNoopLogger())

	_, _, err := svc.List(context.Background(), models.RecipeFilter{Page: -1, Limit: 0})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Suggest(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	repo.On("SuggestRecipes", mock.Anything, "Soup", "Ukraine", SuggestionLimit).
		Return([]*models.Recipe{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}, nil).Once()

	svc := New(repo, cache, newNoopLogger())

	recipes, err := svc.Suggest(context.Background(), "Soup", "Ukraine")

	assert.NoError(t, err)
	assert.Len(t, recipes, 3)
	repo.AssertExpectations(t)
}

func TestService_Suggest_Error(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)

	repo.On("SuggestRecipes", mock.Anything, "", "", SuggestionLimit).
		Return(nil, errors.New("db error")).Once()

	svc := New(repo, cache, newNoopLogger())

	recipes, err := svc.Suggest(context.Background(), "", "")

	assert.Error(t, err)
	assert.Nil(t, recipes)
	repo.AssertExpectations(t)
}
