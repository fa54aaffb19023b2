package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/repository"
)

// AuditWriter persists staff actions.  repository.AuditRepo satisfies it.
type AuditWriter interface {
	Record(ctx context.Context, e model.AuditEntry) error
}

// StartStaffActionConsumer keeps a consumer on StaffActionQueue running
// until ctx is cancelled, reconnecting with exponential backoff.  Every
// message is written to w; malformed messages are rejected without requeue.
func StartStaffActionConsumer(ctx context.Context, url string, w AuditWriter) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("audit-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, w)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("audit-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
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

func consumeLoop(ctx context.Context, conn *amqp.Connection, w AuditWriter) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("audit-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(StaffActionQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(StaffActionQueue, "", false, false, false, false, nil)
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
			switch err := handleMessage(ctx, d.Body, w); {
			case err == nil:
				_ = d.Ack(false)
			case errors.Is(err, errMalformed):
				log.Printf("audit-consumer: dropping message: %v", err)
				_ = d.Nack(false, false)
			default:
				log.Printf("audit-consumer: record failed: %v", err)
				_ = d.Nack(false, !d.Redelivered)
			}
		}
	}
}

var errMalformed = errors.New("malformed staff action")

// handleMessage decodes one delivery and records it.  A duplicate event id
// means the message was already stored and counts as success.
func handleMessage(ctx context.Context, body []byte, w AuditWriter) error {
	var ev StaffActionEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if ev.EventID == "" || ev.Action == "" {
		return fmt.Errorf("%w: missing event_id or action", errMalformed)
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	err := w.Record(ctx, model.AuditEntry{
		EventID:    ev.EventID,
		Action:     ev.Action,
		TargetID:   ev.TargetID,
		AdminID:    ev.AdminID,
		AdminName:  ev.AdminName,
		Before:     ev.Before,
		After:      ev.After,
		OccurredAt: ev.OccurredAt,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("audit-consumer: %s on %s by %s", ev.Action, ev.TargetID, ev.AdminID)
	return nil
}
