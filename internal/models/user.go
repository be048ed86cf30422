// Package models содержит доменные структуры сервиса обмена рецептами.
package models

// DefaultCoins — стартовый баланс монет нового пользователя.
const DefaultCoins = 50

// User описывает аккаунт пользователя. Ключ аккаунта — email,
// подтверждённый внешним провайдером идентификации.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Coins       int    `json:"coins"`
}

// LoginRequest — тело запроса входа: имя и email обязательны, аватар опционален.
type LoginRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
	PhotoURL    string `json:"photoURL"`
	Email       string `json:"email" validate:"required,email"`
}
