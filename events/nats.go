package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"skilllink/backend/errors"
	"skilllink/backend/telemetry"
)

// Subject is the NATS subject every instance publishes and subscribes on.
const Subject = "skilllink.events"

var tracer = telemetry.GetTracer("skilllink/events")

var _ Broker = (*NATSBroker)(nil)

type NATSBroker struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSBroker(logger *zap.Logger, url string, timeout time.Duration) (*NATSBroker, error) {
	opts := []nats.Option{
		nats.Name("skilllink-api"),
		nats.Timeout(timeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errors.Unavailable("connecting to NATS", err)
	}

	return &NATSBroker{conn: conn, logger: logger}, nil
}

func (b *NATSBroker) Publish(ctx context.Context, e Event) error {
	_, span := tracer.Start(ctx, "events.Publish")
	defer span.End()

	data, err := json.Marshal(e)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", Subject),
		telemetry.String("event.type", e.Type),
		telemetry.Int("message.size", len(data)),
	)

	if err := b.conn.Publish(Subject, data); err != nil {
		span.RecordError(err)
		b.logger.Error("failed to publish event",
			zap.String("type", e.Type),
			zap.Error(err))
		return errors.Unavailable("publishing to NATS", err)
	}

	b.logger.Debug("published event",
		zap.String("type", e.Type),
		zap.String("subject", Subject))
	return nil
}

// Subscribe uses a plain subscription, not a queue group: every instance
// must see every event to reach its own clients.
func (b *NATSBroker) Subscribe(h Handler) (func(), error) {
	sub, err := b.conn.Subscribe(Subject, func(msg *nats.Msg) {
		ctx, span := tracer.Start(context.Background(), "events.handle")
		defer span.End()

		var e Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			span.RecordError(err)
			b.logger.Warn("dropping malformed event",
				zap.String("subject", msg.Subject),
				zap.Error(err))
			return
		}
		h(ctx, e)
	})
	if err != nil {
		return nil, errors.Unavailable("subscribing to "+Subject, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			b.logger.Warn("unsubscribe failed", zap.Error(err))
		}
	}, nil
}

// Ping reports whether the connection is currently usable.
func (b *NATSBroker) Ping() error {
	if !b.conn.IsConnected() {
		return errors.Unavailable("NATS connection is "+b.conn.Status().String(), nil)
	}
	return nil
}

func (b *NATSBroker) Close() error {
	if b.conn != nil {
		return b.conn.Drain()
	}
	return nil
}
