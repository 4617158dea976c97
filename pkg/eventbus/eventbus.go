package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/richxcame/salon-safety/pkg/config"
	"github.com/richxcame/salon-safety/pkg/logger"
	"go.uber.org/zap"
)

// Message is one event to publish. ID is used as the JetStream message id so the
// stream drops duplicates published within its dedup window.
type Message struct {
	ID      string
	Payload interface{}
}

// Publisher publishes JSON events to a subject
type Publisher interface {
	Publish(ctx context.Context, subject string, msg Message) error
	PublishBatch(ctx context.Context, subject string, msgs []Message) error
}

// jetStream is the subset of nats.JetStreamContext used by the bus
type jetStream interface {
	PublishMsg(m *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Bus publishes events to a JetStream stream
type Bus struct {
	js     jetStream
	conn   *nats.Conn
	source string
}

var _ Publisher = (*Bus)(nil)

// Connect dials NATS and makes sure the configured stream covers the alert subject
func Connect(cfg *config.NATSConfig, source string) (*Bus, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(source),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to open jetstream context: %w", err)
	}

	if err := ensureStream(js, cfg.Stream, cfg.Subject); err != nil {
		conn.Close()
		return nil, err
	}

	return &Bus{js: js, conn: conn, source: source}, nil
}

func ensureStream(js nats.JetStreamContext, stream, subject string) error {
	_, err := js.StreamInfo(stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("lookup stream %s: %w", stream, err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:       stream,
		Subjects:   []string{subject},
		Storage:    nats.FileStorage,
		MaxAge:     7 * 24 * time.Hour,
		Duplicates: 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", stream, err)
	}
	return nil
}

// New wraps an existing JetStream context
func New(js jetStream, source string) *Bus {
	return &Bus{js: js, source: source}
}

// Publish sends a single JSON event
func (b *Bus) Publish(ctx context.Context, subject string, msg Message) error {
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("failed to serialize event %s: %w", msg.ID, err)
	}

	natsMsg := nats.NewMsg(subject)
	natsMsg.Data = data
	natsMsg.Header.Set("Content-Type", "application/json")
	natsMsg.Header.Set("Source-Service", b.source)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		natsMsg.Header.Set("X-Request-ID", id)
	}

	opts := []nats.PubOpt{nats.Context(ctx)}
	if msg.ID != "" {
		opts = append(opts, nats.MsgId(msg.ID))
	}

	ack, err := b.js.PublishMsg(natsMsg, opts...)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", msg.ID, err)
	}

	logger.WithContext(ctx).Debug("event published",
		zap.String("subject", subject),
		zap.String("id", msg.ID),
		zap.Bool("duplicate", ack != nil && ack.Duplicate),
	)
	return nil
}

// PublishBatch publishes every message and joins the failures
func (b *Bus) PublishBatch(ctx context.Context, subject string, msgs []Message) error {
	var errs []error
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := b.Publish(ctx, subject, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Conn returns the underlying connection, nil when built with New
func (b *Bus) Conn() *nats.Conn {
	return b.conn
}

// Close drains the connection
func (b *Bus) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Drain()
}
