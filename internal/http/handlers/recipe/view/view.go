// Package view реализует HTTP-обработчик платного просмотра рецепта.
//
// Handler извлекает ID рецепта из URL и email зрителя из контекста, вызывает
// бизнес-логику доступа с обменом монет и возвращает полный документ.
package view

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/recipe-exchange/internal/http/middlewarectx"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/response"
	"github.com/magabrotheeeer/recipe-exchange/internal/lib/sl"
	"github.com/magabrotheeeer/recipe-exchange/internal/models"
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

// Handler управляет запросами просмотра рецепта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики платного просмотра.
type Service interface {
	View(ctx context.Context, recipeID, viewerEmail string) (*models.Recipe, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Просмотреть рецепт
// @Description Возвращает полный рецепт. Первый просмотр чужого рецепта списывает 10 монет.
// @Tags Recipes
// @Produce  json
// @Param id path string true "ID рецепта"
// @Success 200 {object} models.Recipe "Рецепт"
// @Failure 400 {object} response.ErrorResponse "Недостаточно монет"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Рецепт или пользователь не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /recipes/{id}/view [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.view"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	recipeID := chi.URLParam(r, "id")
	if recipeID == "" {
		log.Error("missing recipe id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing recipe id"))
		return
	}

	email, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	recipe, err := h.service.View(r.Context(), recipeID, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecipeNotFound),
			errors.Is(err, repository.ErrUserNotFound):
			log.Error("recipe or user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("recipe or user not found"))
		case errors.Is(err, repository.ErrInsufficientCoins):
			log.Error("insufficient coins", slog.String("email", email))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("insufficient coins"))
		default:
			log.Error("failed to view recipe", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error"))
		}
		return
	}

	log.Info("recipe viewed", slog.String("id", recipeID), slog.String("viewer", email))
	render.JSON(w, r, recipe)
}
