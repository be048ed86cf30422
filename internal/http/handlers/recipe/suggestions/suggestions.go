// Package suggestions реализует HTTP-обработчик подборки самых
// просматриваемых рецептов.
package suggestions

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/recipe-exchange/internal/http/response"
	"github.com/magabrotheeeer/recipe-exchange/internal/lib/sl"
	"github.com/magabrotheeeer/recipe-exchange/internal/models"
)

// Handler управляет запросами подборок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подборок.
type Service interface {
	Suggest(ctx context.Context, category, country string) ([]*models.Recipe, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recipe.suggestions"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	category := r.URL.Query().Get("category")
	country := r.URL.Query().Get("country")

	recipes, err := h.service.Suggest(r.Context(), category, country)
	if err != nil {
		log.Error("failed to suggest recipes", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("error fetching suggestions"))
		return
	}

	log.Info("suggestions fetched", slog.Int("count", len(recipes)))
	render.JSON(w, r, recipes)
}
