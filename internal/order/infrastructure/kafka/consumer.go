package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/restauranthq/pos-service/internal/order/application"
	"github.com/restauranthq/pos-service/pkg/apperr"
	"github.com/restauranthq/pos-service/pkg/idempotency"
	"github.com/restauranthq/pos-service/pkg/tracing"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// CourierConsumer applies courier status callbacks to delivery orders:
// PICKED_UP starts delivery, DELIVERED completes it.
type CourierConsumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	svc    *application.Service
	idem   *idempotency.Store
	tracer trace.Tracer
}

func NewCourierConsumer(log *slog.Logger, brokers []string, topic, group string, svc *application.Service, idem *idempotency.Store) *CourierConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &CourierConsumer{
		log:    log,
		reader: r,
		svc:    svc,
		idem:   idem,
		tracer: otel.Tracer("courier-consumer"),
	}
}

type courierStatusEvent struct {
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
}

func (c *CourierConsumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
		seen, err := c.idem.Seen(ctx, key)
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			continue
		}
		if seen {
			c.log.Info("duplicate message skipped", "key", key)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ConsumeCourierStatus")

		var event courierStatusEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.log.Error("unmarshal failed", "err", err)
			span.End()
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		eventKey := c.idem.EventKey(event.OrderID.String(), event.Status)
		seen, err = c.idem.Seen(msgCtx, eventKey)
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			span.End()
			continue
		}
		if seen {
			c.log.Info("duplicate courier update skipped", "key", eventKey)
			span.End()
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := c.apply(msgCtx, event); err != nil {
			// A state conflict means the callback raced a manual transition
			// or was replayed; the message is still committed.
			if errors.Is(err, apperr.ErrIllegalState) || errors.Is(err, apperr.ErrNotFound) {
				c.log.Warn("courier status not applicable", "order_id", event.OrderID, "status", event.Status, "err", err)
			} else {
				c.log.Error("courier status apply failed", "order_id", event.OrderID, "err", err)
			}
		} else {
			c.log.Info("courier status applied", "order_id", event.OrderID, "status", event.Status)
		}
		span.End()
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func (c *CourierConsumer) apply(ctx context.Context, event courierStatusEvent) error {
	switch event.Status {
	case "PICKED_UP":
		_, err := c.svc.StartDelivery(ctx, event.OrderID)
		return err
	case "DELIVERED":
		_, err := c.svc.CompleteDelivery(ctx, event.OrderID)
		return err
	default:
		c.log.Warn("unknown courier status", "status", event.Status)
		return nil
	}
}
