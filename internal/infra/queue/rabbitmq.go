package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// RabbitEventQueue публикует и читает события через RabbitMQ.
type RabbitEventQueue struct {
	conn    *amqp.Connection
	channel amqpChannel
	queue   string
}

// DialRabbit подключается к брокеру и объявляет очередь.
func DialRabbit(url, queue string) (*RabbitEventQueue, error) {
	if url == "" {
		return nil, errors.New("amqp url is empty")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q, err := newRabbitEventQueue(ch, queue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	q.conn = conn
	return q, nil
}

func newRabbitEventQueue(ch amqpChannel, queue string) (*RabbitEventQueue, error) {
	if queue == "" {
		return nil, errors.New("queue name is empty")
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return &RabbitEventQueue{channel: ch, queue: queue}, nil
}

// Publish отправляет событие в очередь через default exchange.
func (q *RabbitEventQueue) Publish(ctx context.Context, event domain.PreferencesChanged) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Body:         payload,
	}
	start := time.Now()
	err = q.channel.PublishWithContext(ctx, "", q.queue, false, false, msg)
	metrics.ObserveNetworkRequest("rabbitmq", "publish", q.queue, start, err)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Consume читает события до отмены контекста и передаёт их в handler.
// Сообщения, которые не удалось разобрать, подтверждаются и пропускаются.
func (q *RabbitEventQueue) Consume(ctx context.Context, handler func(domain.PreferencesChanged) error) error {
	deliveries, err := q.channel.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq: delivery channel closed")
			}
			event, err := decodeEvent(d.Body)
			if err != nil {
				_ = d.Ack(false)
				continue
			}
			if err := handler(event); err != nil {
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close закрывает канал и соединение.
func (q *RabbitEventQueue) Close() error {
	err := q.channel.Close()
	if q.conn != nil {
		if cerr := q.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
