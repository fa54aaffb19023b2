// Package queue_publisher publishes staff-action events to RabbitMQ.  Errors
// are logged and returned so callers can ignore them without interrupting the
// request that caused the event.
package queue_publisher

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/queue"
)

// ErrDisabled is returned when no broker URL is configured.
var ErrDisabled = errors.New("rabbitmq publishing disabled")

// defaultDialTimeout bounds the connect and AMQP handshake when ctx carries
// no deadline.
const defaultDialTimeout = 5 * time.Second

// Publisher sends events to the broker at URL.  Each publish opens its own
// connection; staff actions are rare enough that pooling is not worth it.
type Publisher struct {
	URL string
}

// New returns a publisher for url.  An empty url yields a publisher whose
// calls return ErrDisabled.
func New(url string) *Publisher { return &Publisher{URL: url} }

// Enabled reports whether events will be sent.
func (p *Publisher) Enabled() bool { return p != nil && p.URL != "" }

// PublishStaffAction sends ev to the staff-action queue as a persistent
// message.
func (p *Publisher) PublishStaffAction(ctx context.Context, ev q.StaffActionEvent) error {
	if !p.Enabled() {
		return ErrDisabled
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	conn, err := dial(ctx, p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(q.StaffActionQueue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Action,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.StaffActionQueue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// dial connects to url within ctx's deadline.  The deadline covers the TCP
// connect and the AMQP handshake, so a broker that accepts but never speaks
// cannot hold the caller past it.
func dial(ctx context.Context, url string) (*amqp.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	return amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
}
