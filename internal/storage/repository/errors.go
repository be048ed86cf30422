package repository

import "errors"

// Сигнальные ошибки хранилища. Обработчики сопоставляют их с HTTP-статусами
// через errors.Is.
var (
	// ErrUserNotFound — пользователь с таким email не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrRecipeNotFound — рецепт с таким id не найден.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrInsufficientCoins — на балансе меньше стоимости просмотра.
	ErrInsufficientCoins = errors.New("insufficient coins")
	// ErrAlreadyPurchased — просмотр уже оплачен этим пользователем.
	ErrAlreadyPurchased = errors.New("recipe already purchased by viewer")
	// ErrOrderNotPending — заказ монет не найден или уже обработан.
	ErrOrderNotPending = errors.New("coin order is not pending")
)
