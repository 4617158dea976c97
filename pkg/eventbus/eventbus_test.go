package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/richxcame/salon-safety/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJetStream struct {
	mock.Mock
	published []*nats.Msg
}

func (m *mockJetStream) PublishMsg(msg *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error) {
	m.published = append(m.published, msg)
	args := m.Called(msg.Subject, len(opts))
	ack, _ := args.Get(0).(*nats.PubAck)
	return ack, args.Error(1)
}

func TestPublish(t *testing.T) {
	js := new(mockJetStream)
	js.On("PublishMsg", "trustsafety.alerts", 2).Return(&nats.PubAck{Stream: "TRUST_SAFETY", Sequence: 1}, nil).Once()

	bus := New(js, "trust-safety")
	ctx := logger.ContextWithCorrelationID(context.Background(), "req-1")

	err := bus.Publish(ctx, "trustsafety.alerts", Message{ID: "high-value-a1", Payload: map[string]int{"score": 1}})
	require.NoError(t, err)

	require.Len(t, js.published, 1)
	msg := js.published[0]
	assert.Equal(t, "application/json", msg.Header.Get("Content-Type"))
	assert.Equal(t, "trust-safety", msg.Header.Get("Source-Service"))
	assert.Equal(t, "req-1", msg.Header.Get("X-Request-ID"))

	var payload map[string]int
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, 1, payload["score"])
	js.AssertExpectations(t)
}

func TestPublish_WithoutIDSkipsDedupOption(t *testing.T) {
	js := new(mockJetStream)
	js.On("PublishMsg", "subject", 1).Return(&nats.PubAck{}, nil).Once()

	err := New(js, "svc").Publish(context.Background(), "subject", Message{Payload: "x"})
	require.NoError(t, err)
	js.AssertExpectations(t)
}

func TestPublish_SerializationError(t *testing.T) {
	js := new(mockJetStream)

	err := New(js, "svc").Publish(context.Background(), "subject", Message{ID: "bad", Payload: make(chan int)})
	assert.Error(t, err)
	assert.Empty(t, js.published)
}

func TestPublishBatch_JoinsFailures(t *testing.T) {
	js := new(mockJetStream)
	js.On("PublishMsg", "subject", 2).Return(nil, errors.New("no responders")).Once()
	js.On("PublishMsg", "subject", 2).Return(&nats.PubAck{}, nil).Once()

	err := New(js, "svc").PublishBatch(context.Background(), "subject", []Message{
		{ID: "a", Payload: 1},
		{ID: "b", Payload: 2},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event a")
	assert.Len(t, js.published, 2)
}

func TestPublishBatch_StopsOnCancelledContext(t *testing.T) {
	js := new(mockJetStream)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(js, "svc").PublishBatch(ctx, "subject", []Message{{ID: "a", Payload: 1}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, js.published)
}
