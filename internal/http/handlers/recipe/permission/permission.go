// Package permission реализует HTTP-обработчик проверки права на просмотр
// рецепта: читающий двойник платного просмотра, без списаний и мутаций.
package permission

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
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

// Handler управляет запросами проверки доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки доступа.
type Service interface {
	CanView(ctx context.Context, recipeID, viewerEmail string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.permission"
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

	canView, err := h.service.CanView(r.Context(), recipeID, email)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) || errors.Is(err, repository.ErrUserNotFound) {
			log.Error("recipe or user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("recipe or user not found"))
			return
		}
		log.Error("failed to check view permission", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error"))
		return
	}

	render.JSON(w, r, map[string]bool{"canView": canView})
}
