// Package middlewarectx содержит HTTP middleware запросов: проверку
// bearer-токена внешнего провайдера идентификации и ограничение частоты.
//
// AuthMiddleware проверяет заголовок Authorization, валидирует токен через
// identity.Verifier и кладёт подтверждённые email и subject в контекст
// запроса. При ошибке проверки возвращает HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/recipe-exchange/internal/http/response"
	"github.com/magabrotheeeer/recipe-exchange/internal/identity"
	"github.com/magabrotheeeer/recipe-exchange/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Email — ключ подтверждённого email пользователя в контексте.
	Email Key = "email"
	// UserUID — ключ subject-идентификатора пользователя в контексте.
	UserUID Key = "user_uid"
)

// AuthMiddleware возвращает middleware, проверяющий bearer-токен в
// заголовке Authorization.
//
// Если токен валиден, email и subject добавляются в контекст запроса,
// иначе возвращается 401 Unauthorized.
func AuthMiddleware(verifier identity.Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"
			authHeader := r.Header.Get("Authorization")

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			ident, err := verifier.Verify(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), Email, ident.Email)
			ctx = context.WithValue(ctx, UserUID, ident.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
