package suggestions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/recipe-exchange/internal/models"
)

// MockService реализует интерфейс suggestions.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Suggest(ctx context.Context, category, country string) ([]*models.Recipe, error) {
	args := m.Called(ctx, category, country)
	if res := args.Get(0); res != nil {
		return res.([]*models.Recipe), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSuggestionsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "подборка по категории и стране",
			url:  "/recipes/suggestedRecipe?category=Soup&country=Ukraine",
			setupMock: func(m *MockService) {
				recipes := []*models.Recipe{
					{ID: "r1", Name: "Борщ", WatchCount: 9, PurchasedBy: []string{}, Reactions: []models.Reaction{}},
					{ID: "r2", Name: "Солянка", WatchCount: 5, PurchasedBy: []string{}, Reactions: []models.Reaction{}},
				}
				m.On("Suggest", mock.Anything, "Soup", "Ukraine").Return(recipes, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Борщ"`,
		},
		{
			name: "подборка без фильтров",
			url:  "/recipes/suggestedRecipe",
			setupMock: func(m *MockService) {
				m.On("Suggest", mock.Anything, "", "").Return([]*models.Recipe{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "ошибка сервиса",
			url:  "/recipes/suggestedRecipe",
			setupMock: func(m *MockService) {
				m.On("Suggest", mock.Anything, "", "").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"error fetching suggestions"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
