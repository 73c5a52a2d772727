package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"mochi-games/internal/domain"
)

type recordingChannel struct {
	exchange, key string
	msgs          []amqp.Publishing
	err           error
	closed        bool
}

func (c *recordingChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.exchange, c.key = exchange, key
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func TestResultPublisherPublishesJSON(t *testing.T) {
	ch := &recordingChannel{}
	pub := newResultPublisher(ch, "mochi.results")

	result := domain.Result{SessionID: "s1", CategoryID: "1", Score: 2, Total: 3, CompletedAt: time.Unix(100, 0).UTC()}
	if err := pub.Record(context.Background(), result); err != nil {
		t.Fatalf("record: %v", err)
	}
	if ch.exchange != "mochi.results" || ch.key != ResultRoutingKey || len(ch.msgs) != 1 {
		t.Fatalf("unexpected publish %q %q %d", ch.exchange, ch.key, len(ch.msgs))
	}
	msg := ch.msgs[0]
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected message properties %+v", msg)
	}
	var got domain.Result
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.SessionID != "s1" || got.Score != 2 || got.Total != 3 || !got.CompletedAt.Equal(result.CompletedAt) {
		t.Fatalf("expected %+v, got %+v", result, got)
	}

	if err := pub.Close(); err != nil || !ch.closed {
		t.Fatalf("close: %v", err)
	}
}

func TestResultPublisherWrapsErrors(t *testing.T) {
	boom := errors.New("channel closed")
	pub := newResultPublisher(&recordingChannel{err: boom}, "x")
	if err := pub.Record(context.Background(), domain.Result{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
