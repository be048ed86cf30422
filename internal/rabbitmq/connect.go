// Package rabbitmq содержит подключение к брокеру и публикацию событий.
package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Connection держит соединение и канал брокера.
type Connection struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect открывает соединение с RabbitMQ и объявляет exchange платежей.
func Connect(url string) (*Connection, error) {
	const op = "rabbitmq.Connect"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.ExchangeDeclare("payments", "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Connection{conn: conn, ch: ch}, nil
}

// Close закрывает канал и соединение.
func (c *Connection) Close() error {
	if err := c.ch.Close(); err != nil {
		_ = c.conn.Close()
		return err
	}
	return c.conn.Close()
}
