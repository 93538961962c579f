package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookinventory/internal/application/book"
	"github.com/xiebiao/bookinventory/pkg/circuitbreaker"
)

type fakeSender struct {
	mu    sync.Mutex
	keys  []string
	calls int
	err   error
}

func (s *fakeSender) Publish(ctx context.Context, routingKey string, _ interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	s.keys = append(s.keys, routingKey)
	return nil
}

func TestPublish_UsesEventTypeAsRoutingKey(t *testing.T) {
	sender := &fakeSender{}
	p := NewEventPublisher(sender, time.Second, zerolog.Nop())

	require.NoError(t, p.Publish(context.Background(), appbook.Event{Type: appbook.EventBookCreated, BookID: 1}))
	require.NoError(t, p.Publish(context.Background(), appbook.Event{Type: appbook.EventBookDeleted, BookID: 1}))

	assert.Equal(t, []string{"book.created", "book.deleted"}, sender.keys)
}

func TestPublish_IgnoresRequestCancellation(t *testing.T) {
	sender := &fakeSender{}
	p := NewEventPublisher(sender, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Publish(ctx, appbook.Event{Type: appbook.EventBookUpdated}))
	assert.Equal(t, []string{"book.updated"}, sender.keys)
}

func TestPublish_BreakerOpensOnBrokerOutage(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection reset")}
	breaker := circuitbreaker.New("book-events-test", circuitbreaker.Config{
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(2),
		Timeout:     time.Hour,
	})
	p := newEventPublisher(sender, breaker, time.Second)
	ctx := context.Background()
	event := appbook.Event{Type: appbook.EventBookCreated}

	assert.Error(t, p.Publish(ctx, event))
	assert.Error(t, p.Publish(ctx, event))
	assert.ErrorIs(t, p.Publish(ctx, event), circuitbreaker.ErrOpenState)

	assert.Equal(t, 2, sender.calls, "熔断后不再调用Broker")
}
