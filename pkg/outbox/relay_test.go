package outbox_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/hverma21/order-fulfillment-platform/pkg/outbox"
)

type memStore struct {
	mu     sync.Mutex
	events []outbox.Event
	sent   []int64
	failed map[int64]string
}

func newMemStore(events ...outbox.Event) *memStore {
	return &memStore{events: events, failed: make(map[int64]string)}
}

func (s *memStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out, nil
}

func (s *memStore) MarkSent(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, ids...)
	return nil
}

func (s *memStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[id] = errMsg
	return nil
}

func (s *memStore) snapshot() ([]int64, map[int64]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sent := append([]int64(nil), s.sent...)
	failed := make(map[int64]string, len(s.failed))
	for k, v := range s.failed {
		failed[k] = v
	}
	return sent, failed
}

type memProducer struct {
	mu       sync.Mutex
	messages []kafka.Message
	failKeys map[string]error
}

func (p *memProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		if err, ok := p.failKeys[string(m.Key)]; ok {
			return err
		}
		p.messages = append(p.messages, m)
	}
	return nil
}

func headerValue(t *testing.T, m kafka.Message, key string) string {
	t.Helper()
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	t.Fatalf("header %q not found", key)
	return ""
}

func TestDispatcherBuildsKeyedMessage(t *testing.T) {
	producer := &memProducer{}
	d := outbox.NewDispatcher(slog.New(slog.DiscardHandler), producer, "order.events")

	err := d.Dispatch(context.Background(), outbox.Event{
		ID:          1,
		AggregateID: "order-1",
		Type:        "OrderPlaced",
		Payload:     []byte(`{"order_id":"order-1"}`),
		Headers:     map[string]string{"source": "order-service"},
		Traceparent: "00-abc-def-01",
	})
	require.NoError(t, err)

	require.Len(t, producer.messages, 1)
	m := producer.messages[0]
	require.Equal(t, "order.events", m.Topic)
	require.Equal(t, "order-1", string(m.Key))
	require.Equal(t, "OrderPlaced", headerValue(t, m, "event_type"))
	require.Equal(t, "00-abc-def-01", headerValue(t, m, "traceparent"))
	require.Equal(t, "order-service", headerValue(t, m, "source"))
}

func TestRelayMarksSentAndFailedIndependently(t *testing.T) {
	store := newMemStore(
		outbox.Event{ID: 1, AggregateID: "order-1", Type: "OrderPlaced"},
		outbox.Event{ID: 2, AggregateID: "order-2", Type: "OrderPlaced"},
	)
	producer := &memProducer{failKeys: map[string]error{"order-2": errors.New("broker down")}}
	log := slog.New(slog.DiscardHandler)
	relay := outbox.NewRelay(log, store, outbox.NewDispatcher(log, producer, "order.events"), "relay-test")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = relay.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		sent, failed := store.snapshot()
		return len(sent) == 1 && len(failed) == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	<-done

	sent, failed := store.snapshot()
	require.Equal(t, []int64{1}, sent)
	require.Contains(t, failed[2], "broker down")
}
