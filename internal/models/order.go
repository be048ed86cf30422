package models

import "time"

// Статусы заказа на покупку монет.
const (
	OrderStatusPending   = "pending"
	OrderStatusSucceeded = "succeeded"
	OrderStatusCanceled  = "canceled"
)

// CoinOrder — заказ на покупку пакета монет. Создаётся вместе с платёжной
// сессией и ждёт подтверждения от провайдера через webhook; монеты
// зачисляются только при переходе pending -> succeeded.
type CoinOrder struct {
	ID        int       `json:"id"`
	PaymentID string    `json:"payment_id"`
	UserEmail string    `json:"user_email"`
	Coins     int       `json:"coins"`
	Cost      int       `json:"cost"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PurchaseCoinRequest — тело запроса покупки монет. Пара coins/cost должна
// совпадать с серверным прайс-листом пакетов.
type PurchaseCoinRequest struct {
	Coins int `json:"coins" validate:"required,gt=0"`
	Cost  int `json:"cost" validate:"required,gt=0"`
}
