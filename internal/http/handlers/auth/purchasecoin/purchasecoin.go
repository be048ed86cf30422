// Package purchasecoin реализует HTTP-обработчик покупки пакета монет.
//
// Handler валидирует пару coins/cost, проверяет её по серверному
// прайс-листу и создаёт платёжную сессию. Монеты зачисляются позже,
// после подтверждения оплаты через webhook.
package purchasecoin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/recipe-exchange/internal/http/middlewarectx"
	"github.com/magabrotheeeer/recipe-exchange/internal/http/response"
	"github.com/magabrotheeeer/recipe-exchange/internal/lib/sl"
	"github.com/magabrotheeeer/recipe-exchange/internal/models"
	"github.com/magabrotheeeer/recipe-exchange/internal/services/payment"
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

// Handler управляет запросами покупки монет.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс платёжной бизнес-логики.
type Service interface {
	CreateCheckout(ctx context.Context, email string, req models.PurchaseCoinRequest) (*payment.CheckoutSession, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Купить пакет монет
// @Description Создает платёжную сессию на пакет монет из прайс-листа.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.PurchaseCoinRequest true "Пакет монет"
// @Success 200 {object} payment.CheckoutSession "Платёжная сессия"
// @Failure 400 {object} response.ErrorResponse "Отсутствующие поля или неизвестный пакет"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера или провайдера"
// @Router /auth/purchase-coin [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.purchasecoin"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PurchaseCoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if req.Coins == 0 || req.Cost == 0 {
		log.Error("coins and cost are required")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request: coins and cost are required"))
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

	session, err := h.service.CreateCheckout(r.Context(), email, req)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrUnknownBundle):
			log.Error("unknown coin bundle", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown coin bundle"))
		case errors.Is(err, repository.ErrUserNotFound):
			log.Error("user not found", slog.String("email", email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to create checkout session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("error purchasing coins"))
		}
		return
	}

	log.Info("checkout session created", slog.String("payment_id", session.ID))
	render.JSON(w, r, session)
}
