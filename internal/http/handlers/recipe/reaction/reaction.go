// Package reaction реализует HTTP-обработчик переключения отметки на
// рецепте. Повторная отправка от того же пользователя снимает отметку
// независимо от типа.
package reaction

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/recipe-exchange/internal/http/middlewarectx"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/response"
	"github.com/magabrotheeeer/recipe-exchange/internal/lib/sl"
	"github.com/magabrotheeeer/recipe-exchange/internal/models"
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

// Request — тело запроса отметки. Идентичность берётся из контекста
// авторизации, поле user в теле игнорируется.
type Request struct {
	Type string `json:"type" validate:"required"`
}

// Handler управляет запросами отметок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отметок.
type Service interface {
	ToggleReaction(ctx context.Context, recipeID, userEmail, reactionType string) (*models.Recipe, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.reaction"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	email, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	recipe, err := h.service.ToggleReaction(r.Context(), recipeID, email, req.Type)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			log.Error("recipe not found", slog.String("id", recipeID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("recipe not found"))
			return
		}
		log.Error("failed to toggle reaction", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("error toggling reaction"))
		return
	}

	log.Info("reaction toggled", slog.String("id", recipeID), slog.String("user", email))
	render.JSON(w, r, recipe)
}
