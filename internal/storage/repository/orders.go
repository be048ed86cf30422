package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/recipe-exchange/internal/models"
)

// CreateCoinOrder сохраняет ожидающий заказ на покупку монет и возвращает
// его ID. PaymentID — идентификатор платёжной сессии провайдера.
func (s *Storage) CreateCoinOrder(ctx context.Context, order models.CoinOrder) (int, error) {
	const op = "storage.CreateCoinOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO coin_orders (payment_id, user_email, coins, cost, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		order.PaymentID, order.UserEmail, order.Coins, order.Cost,
		models.OrderStatusPending).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CompleteCoinOrder переводит заказ pending -> succeeded и зачисляет монеты
// пользователю одной транзакцией. Повторный вызов для того же платежа
// возвращает ErrOrderNotPending и ничего не меняет.
func (s *Storage) CompleteCoinOrder(ctx context.Context, paymentID string) (*models.CoinOrder, error) {
	const op = "storage.CompleteCoinOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var order models.CoinOrder
	query := `UPDATE coin_orders
			  SET status = $1, updated_at = now()
			  WHERE payment_id = $2 AND status = $3
			  RETURNING id, payment_id, user_email, coins, cost, status, created_at, updated_at`
	row := tx.QueryRowContext(ctx, query,
		models.OrderStatusSucceeded, paymentID, models.OrderStatusPending)
	if err := row.Scan(&order.ID, &order.PaymentID, &order.UserEmail, &order.Coins,
		&order.Cost, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotPending)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET coins = coins + $1 WHERE email = $2`,
		order.Coins, order.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &order, nil
}

// CancelCoinOrder помечает ожидающий заказ отменённым без зачисления монет.
func (s *Storage) CancelCoinOrder(ctx context.Context, paymentID string) error {
	const op = "storage.CancelCoinOrder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE coin_orders SET status = $1, updated_at = now()
		 WHERE payment_id = $2 AND status = $3`,
		models.OrderStatusCanceled, paymentID, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrOrderNotPending)
	}
	return nil
}
