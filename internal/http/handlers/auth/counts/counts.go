// Package counts реализует HTTP-обработчик агрегатных счётчиков сервиса.
package counts

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/recipe-exchange/internal/http/response"
	"github.com/magabrotheeeer/recipe-exchange/internal/lib/sl"
)

// Handler управляет запросами счётчиков пользователей и рецептов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики счётчиков.
type Service interface {
	Counts(ctx context.Context) (userCount, recipeCount int, err error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.counts"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userCount, recipeCount, err := h.service.Counts(r.Context())
	if err != nil {
		log.Error("failed to count users and recipes", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count users and recipes"))
		return
	}

	render.JSON(w, r, map[string]int{
		"userCount":     userCount,
		"recipeCount":   recipeCount,
		"feedbackCount": userCount + recipeCount,
	})
}
