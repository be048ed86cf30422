// Package recipeexchange предоставляет маршруты для основного приложения.
package recipeexchange

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/auth/counts"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/auth/currentuser"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/auth/purchasecoin"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/recipe/create"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/recipe/list"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/recipe/permission"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/recipe/reaction"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/recipe/suggestions"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/handlers/recipe/view"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/middlewarectx"
	"github.com/magabrotheeeer/recipe-exchange/internal/identity"
	paymentservice "github.com/magabrotheeeer/recipe-exchange/internal/services/payment"
	recipeservice "github.com/magabrotheeeer/recipe-exchange/internal/services/recipe"
	userservice "github.com/magabrotheeeer/recipe-exchange/internal/services/user"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, verifier identity.Verifier, userService *userservice.Service, recipeService *recipeservice.Service, paymentService *paymentservice.Service, webhookSecret string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/auth/login", login.New(logger, userService).ServeHTTP)
	r.Get("/auth/getCounts", counts.New(logger, userService).ServeHTTP)
	r.Get("/recipes", list.New(logger, recipeService).ServeHTTP)

	// Группа с проверкой bearer-токена
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.AuthMiddleware(verifier, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/auth/current-user", currentuser.New(logger, userService).ServeHTTP)
		r.Post("/auth/purchase-coin", purchasecoin.New(logger, paymentService).ServeHTTP)
		r.Post("/recipes", create.New(logger, recipeService).ServeHTTP)
		r.Post("/recipes/{id}/view", view.New(logger, recipeService).ServeHTTP)
		r.Post("/recipes/{id}/reaction", reaction.New(logger, recipeService).ServeHTTP)
		r.Get("/recipes/suggestedRecipe", suggestions.New(logger, recipeService).ServeHTTP)
		r.Get("/recipes/recipeViewPermission/{id}", permission.New(logger, recipeService).ServeHTTP)
	})

	// Webhook endpoint (без аутентификации, подпись HMAC)
	r.Post("/payments/webhook", paymentwebhook.New(logger, paymentService, webhookSecret).ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
