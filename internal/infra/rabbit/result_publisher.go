package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"mochi-games/internal/domain"
)

// ResultRoutingKey is the routing key of "session completed" events.
const ResultRoutingKey = "game.completed"

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// ResultPublisher publishes completed session results to a topic exchange.
type ResultPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch channel
}

// Dial connects to RabbitMQ and declares the results exchange.
func Dial(url, exchange string) (*ResultPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	p := newResultPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

func newResultPublisher(ch channel, exchange string) *ResultPublisher {
	return &ResultPublisher{ch: ch, exchange: exchange}
}

// Record publishes the result as a persistent JSON message.
func (p *ResultPublisher) Record(ctx context.Context, result domain.Result) error {
	body, err := json.Marshal(result)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    result.SessionID,
		Timestamp:    result.CompletedAt,
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, ResultRoutingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

func (p *ResultPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
