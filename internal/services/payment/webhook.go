package payment

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/recipe-exchange/internal/lib/sl"
	"github.com/magabrotheeeer/recipe-exchange/internal/storage/repository"
)

// События провайдера, которые обрабатывает сервис.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentCanceled  = "payment.canceled"
)

// Payload — тело webhook-уведомления провайдера.
type Payload struct {
	Event  string `json:"event"`
	Object struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"amount"`
		Metadata map[string]string `json:"metadata"`
	} `json:"object"`
}

// CoinsCreditedEvent — сообщение о зачислении монет для брокера.
type CoinsCreditedEvent struct {
	UserEmail string `json:"user_email"`
	Coins     int    `json:"coins"`
	PaymentID string `json:"payment_id"`
}

// ProcessWebhookEvent обрабатывает уведомление провайдера. Успешный платёж
// закрывает ожидающий заказ и зачисляет монеты ровно один раз: повторная
// доставка того же платежа находит заказ уже закрытым и игнорируется.
func (s *Service) ProcessWebhookEvent(ctx context.Context, payload *Payload) error {
	switch strings.ToLower(payload.Event) {
	case EventPaymentSucceeded:
		order, err := s.repo.CompleteCoinOrder(ctx, payload.Object.ID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotPending) {
				s.log.Info("duplicate or unknown payment confirmation ignored",
					slog.String("payment_id", payload.Object.ID))
				return nil
			}
			return err
		}
		s.log.Info("coins credited",
			slog.String("user_email", order.UserEmail),
			slog.Int("coins", order.Coins))

		if s.publisher != nil {
			event := CoinsCreditedEvent{
				UserEmail: order.UserEmail,
				Coins:     order.Coins,
				PaymentID: order.PaymentID,
			}
			if err := s.publisher.Publish("payments", "coins.credited", event); err != nil {
				s.log.Warn("failed to publish coins.credited event", sl.Err(err))
			}
		}
		return nil

	case EventPaymentCanceled:
		err := s.repo.CancelCoinOrder(ctx, payload.Object.ID)
		if err != nil && !errors.Is(err, repository.ErrOrderNotPending) {
			return err
		}
		return nil

	default:
		s.log.Info("ignored webhook event", slog.String("event", payload.Event))
		return nil
	}
}
