package permission

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/recipe-exchange/internal/http/middlewarectx"
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

// MockService реализует интерфейс permission.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CanView(ctx context.Context, recipeID, viewerEmail string) (bool, error) {
	args := m.Called(ctx, recipeID, viewerEmail)
	return args.Bool(0), args.Error(1)
}

func TestPermissionHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const recipeID = "9d3a1f50-aaaa-4c21-9f10-000000000001"

	tests := []struct {
		name           string
		recipeID       string
		email          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "доступ разрешён",
			recipeID: recipeID,
			email:    "owner@example.com",
			setupMock: func(m *MockService) {
				m.On("CanView", mock.Anything, recipeID, "owner@example.com").Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"canView":true}`,
		},
		{
			name:     "доступ запрещён без покупки",
			recipeID: recipeID,
			email:    "stranger@example.com",
			setupMock: func(m *MockService) {
				m.On("CanView", mock.Anything, recipeID, "stranger@example.com").Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"canView":false}`,
		},
		{
			name:           "нет email в контексте",
			recipeID:       recipeID,
			email:          "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:     "рецепт не найден",
			recipeID: recipeID,
			email:    "viewer@example.com",
			setupMock: func(m *MockService) {
				m.On("CanView", mock.Anything, recipeID, "viewer@example.com").
					Return(false, repository.ErrRecipeNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"recipe or user not found"}`,
		},
		{
			name:     "ошибка сервиса",
			recipeID: recipeID,
			email:    "viewer@example.com",
			setupMock: func(m *MockService) {
				m.On("CanView", mock.Anything, recipeID, "viewer@example.com").
					Return(false, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/recipes/recipeViewPermission/"+tt.recipeID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.recipeID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			if tt.email != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Email, tt.email))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
