package middlewarectx

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

	"github.com/magabrotheeeer/recipe-exchange/internal/identity"
)

// MockVerifier реализует интерфейс identity.Verifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	args := m.Called(ctx, token)
	if res := args.Get(0); res != nil {
		return res.(*identity.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*MockVerifier)
		expectedStatus int
		expectNext     bool
	}{
		{
			name:       "валидный токен пропускает запрос дальше",
			authHeader: "Bearer good-token",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "good-token").Return(&identity.Identity{
					Subject: "uid-123",
					Email:   "alice@example.com",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "нет заголовка Authorization",
			authHeader:     "",
			setupMock:      func(_ *MockVerifier) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "заголовок без схемы Bearer",
			authHeader:     "Basic abc",
			setupMock:      func(_ *MockVerifier) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "невалидный токен",
			authHeader: "Bearer bad-token",
			setupMock: func(m *MockVerifier) {
				m.On("Verify", mock.Anything, "bad-token").Return(nil, errors.New("signature is invalid"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := new(MockVerifier)
			tt.setupMock(verifier)

			nextCalled := false
			var gotEmail, gotUID any
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotEmail = r.Context().Value(Email)
				gotUID = r.Context().Value(UserUID)
				w.WriteHeader(http.StatusOK)
			})

			handler := AuthMiddleware(verifier, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "/auth/current-user", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
			if tt.expectNext {
				assert.Equal(t, "alice@example.com", gotEmail)
				assert.Equal(t, "uid-123", gotUID)
			} else {
				assert.True(t, strings.Contains(w.Body.String(), `"status":"Error"`))
			}
			verifier.AssertExpectations(t)
		})
	}
}
