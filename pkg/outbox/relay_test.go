package outbox

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	pending []Event
	sent    []int64
	failed  []int64
}

func (s *fakeStore) LockBatch(_ context.Context, _ string, batchSize int, _ time.Duration) ([]Event, error) {
	if len(s.pending) == 0 {
		return nil, nil
	}
	n := batchSize
	if n > len(s.pending) {
		n = len(s.pending)
	}
	batch := s.pending[:n]
	s.pending = s.pending[n:]
	return batch, nil
}

func (s *fakeStore) MarkSent(_ context.Context, ids []int64) error {
	s.sent = append(s.sent, ids...)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id int64, _ string) error {
	s.failed = append(s.failed, id)
	return nil
}

func (s *fakeStore) ExtendLease(_ context.Context, _ string, _ []int64, _ time.Duration) error {
	return nil
}

type fakeProducer struct {
	messages []kafka.Message
	failKeys map[string]bool
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		if p.failKeys[string(m.Key)] {
			return errors.New("broker unavailable")
		}
		p.messages = append(p.messages, m)
	}
	return nil
}

func TestDispatcherKeysByAggregate(t *testing.T) {
	producer := &fakeProducer{}
	d := NewDispatcher(slog.Default(), producer, "pos.order.events")

	err := d.Dispatch(context.Background(), Event{
		ID:          1,
		AggregateID: "order-1",
		Type:        "order.accepted",
		Payload:     []byte(`{}`),
		Traceparent: "00-abc-def-01",
	})
	require.NoError(t, err)

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "pos.order.events", msg.Topic)
	assert.Equal(t, []byte("order-1"), msg.Key)

	var eventType, traceparent string
	for _, h := range msg.Headers {
		switch h.Key {
		case "event_type":
			eventType = string(h.Value)
		case "traceparent":
			traceparent = string(h.Value)
		}
	}
	assert.Equal(t, "order.accepted", eventType)
	assert.Equal(t, "00-abc-def-01", traceparent)
}

func TestRelayMarksSentAndFailed(t *testing.T) {
	store := &fakeStore{pending: []Event{
		{ID: 1, AggregateID: "order-1", Type: "order.placed", Payload: []byte(`{}`)},
		{ID: 2, AggregateID: "order-2", Type: "order.placed", Payload: []byte(`{}`)},
	}}
	producer := &fakeProducer{failKeys: map[string]bool{"order-2": true}}
	relay := NewRelay(slog.Default(), store, NewDispatcher(slog.Default(), producer, "t"), "test-relay")
	relay.interval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, relay.Run(ctx))

	assert.Equal(t, []int64{1}, store.sent)
	assert.Equal(t, []int64{2}, store.failed)
	assert.Len(t, producer.messages, 1)
}
