// Package payment содержит бизнес-логику покупки монетных пакетов:
// проверку прайс-листа, создание платёжной сессии и обработку
// подтверждений провайдера.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/recipe-exchange/internal/models"
	"github.com/magabrotheeeer/recipe-exchange/internal/paymentprovider"
)

// ErrUnknownBundle — пара coins/cost не совпала с прайс-листом.
var ErrUnknownBundle = errors.New("unknown coin bundle")

// Bundle — продаваемый пакет монет с ценой в основных единицах валюты.
type Bundle struct {
	Coins int
	Cost  int
}

// Bundles — серверный прайс-лист монетных пакетов. Запросы с парой
// coins/cost вне этого списка отклоняются.
var Bundles = []Bundle{
	{Coins: 50, Cost: 4},
	{Coins: 100, Cost: 7},
	{Coins: 250, Cost: 15},
	{Coins: 600, Cost: 30},
}

// Repository определяет методы хранилища, нужные платёжному сервису.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateCoinOrder(ctx context.Context, order models.CoinOrder) (int, error)
	// CompleteCoinOrder зачисляет монеты и закрывает заказ ровно один раз.
	CompleteCoinOrder(ctx context.Context, paymentID string) (*models.CoinOrder, error)
	CancelCoinOrder(ctx context.Context, paymentID string) error
}

// ProviderClient определяет интерфейс платёжного провайдера.
type ProviderClient interface {
	CreatePayment(reqParams paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error)
}

// Publisher публикует события в брокер сообщений.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// CheckoutSession — результат создания платёжной сессии.
type CheckoutSession struct {
	ID              string `json:"id"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// Service реализует платёжную бизнес-логику.
type Service struct {
	repo      Repository
	provider  ProviderClient
	publisher Publisher
	returnURL string
	log       *slog.Logger
}

// New создаёт Service. publisher может быть nil, тогда события не
// публикуются.
func New(repo Repository, provider ProviderClient, publisher Publisher, returnURL string, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		returnURL: returnURL,
		log:       log,
	}
}

// CreateCheckout проверяет пакет по прайс-листу, создаёт платёжную сессию у
// провайдера и сохраняет ожидающий заказ. Монеты при этом не зачисляются —
// зачисление происходит в обработке webhook после подтверждения оплаты.
func (s *Service) CreateCheckout(ctx context.Context, email string, req models.PurchaseCoinRequest) (*CheckoutSession, error) {
	if !knownBundle(req.Coins, req.Cost) {
		return nil, fmt.Errorf("%w: %d coins for %d", ErrUnknownBundle, req.Coins, req.Cost)
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	paymentReq := paymentprovider.CreatePaymentRequest{
		Amount: paymentprovider.Amount{
			Value:    fmt.Sprintf("%d.00", req.Cost),
			Currency: "USD",
		},
		Capture: true,
		Confirmation: paymentprovider.Confirmation{
			Type:      "redirect",
			ReturnURL: s.returnURL,
		},
		Description: fmt.Sprintf("%d coins", req.Coins),
		Metadata: map[string]string{
			"user_email": user.Email,
		},
	}
	paymentResp, err := s.provider.CreatePayment(paymentReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	order := models.CoinOrder{
		PaymentID: paymentResp.ID,
		UserEmail: user.Email,
		Coins:     req.Coins,
		Cost:      req.Cost,
	}
	if _, err := s.repo.CreateCoinOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store coin order: %w", err)
	}

	s.log.Info("created coin checkout session",
		slog.String("payment_id", paymentResp.ID),
		slog.Int("coins", req.Coins))

	return &CheckoutSession{
		ID:              paymentResp.ID,
		ConfirmationURL: paymentResp.Confirmation.ConfirmationURL,
	}, nil
}

func knownBundle(coins, cost int) bool {
	for _, b := range Bundles {
		if b.Coins == coins && b.Cost == cost {
			return true
		}
	}
	return false
}
