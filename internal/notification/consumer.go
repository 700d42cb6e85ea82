package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/metrics"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const maxBackoff = 30 * time.Second

// Consumer drains the notification queue into the repository.
type Consumer struct {
	url   string
	queue string
	repo  NotificationRepository
}

func NewConsumer(url, queue string, repo NotificationRepository) *Consumer {
	return &Consumer{url: url, queue: queue, repo: repo}
}

// Run connects, consumes and reconnects with exponential backoff until ctx
// is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("notification-consumer: failed to dial broker")
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			log.Info().Msg("notification-consumer: stopped")
			return
		}
		log.Warn().Err(err).Msg("notification-consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("notification-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				log.Error().Err(err).Msg("notification-consumer: handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle stores one queued event.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if !ev.Deliverable() {
		return nil
	}
	if err := c.repo.Create(ctx, ev.toModel()); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	metrics.NotificationsTotal.WithLabelValues(string(ev.Type), "consumed").Inc()
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
