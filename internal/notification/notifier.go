package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/cricbook/internal/metrics"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Notifier delivers notification events. Implementations drop events that
// are not Deliverable and never fail the caller's request path for it.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// NotifyAll sends each event and logs failures.
func NotifyAll(ctx context.Context, n Notifier, events ...Event) {
	for _, ev := range events {
		if err := n.Notify(ctx, ev); err != nil {
			log.Error().Err(err).Str("type", string(ev.Type)).Uint("recipient_id", ev.RecipientID).Msg("notification failed")
		}
	}
}

// DirectNotifier writes notifications straight to the database.
type DirectNotifier struct {
	repo NotificationRepository
}

func NewDirectNotifier(repo NotificationRepository) *DirectNotifier {
	return &DirectNotifier{repo: repo}
}

func (d *DirectNotifier) Notify(ctx context.Context, ev Event) error {
	if !ev.Deliverable() {
		metrics.NotificationsTotal.WithLabelValues(string(ev.Type), "dropped").Inc()
		return nil
	}
	if err := d.repo.Create(ctx, ev.toModel()); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	metrics.NotificationsTotal.WithLabelValues(string(ev.Type), "direct").Inc()
	return nil
}

// QueueNotifier publishes events to a durable RabbitMQ queue drained by
// Consumer. When the broker cannot be reached it falls back to fallback.
type QueueNotifier struct {
	url      string
	queue    string
	fallback Notifier

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewQueueNotifier(url, queue string, fallback Notifier) *QueueNotifier {
	return &QueueNotifier{url: url, queue: queue, fallback: fallback}
}

func (q *QueueNotifier) Notify(ctx context.Context, ev Event) error {
	if !ev.Deliverable() {
		metrics.NotificationsTotal.WithLabelValues(string(ev.Type), "dropped").Inc()
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := q.publish(ctx, body); err != nil {
		log.Warn().Err(err).Msg("rabbitmq publish failed, writing notification directly")
		return q.fallback.Notify(ctx, ev)
	}
	metrics.NotificationsTotal.WithLabelValues(string(ev.Type), "queue").Inc()
	return nil
}

func (q *QueueNotifier) publish(ctx context.Context, body []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch, err := q.channelLocked()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.queue, false, false, pub); err != nil {
		q.resetLocked()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (q *QueueNotifier) channelLocked() (*amqp.Channel, error) {
	if q.ch != nil && !q.ch.IsClosed() {
		return q.ch, nil
	}
	q.resetLocked()

	conn, err := amqp.Dial(q.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(q.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	q.conn, q.ch = conn, ch
	return ch, nil
}

func (q *QueueNotifier) resetLocked() {
	if q.ch != nil {
		_ = q.ch.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
	q.ch, q.conn = nil, nil
}

// Close releases the broker connection.
func (q *QueueNotifier) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.resetLocked()
}
