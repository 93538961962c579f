package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	appbook "github.com/xiebiao/bookinventory/internal/application/book"
	"github.com/xiebiao/bookinventory/pkg/circuitbreaker"
	"github.com/xiebiao/bookinventory/pkg/metrics"
)

// Sender 发送一条消息（*mq.Publisher实现了它）
type Sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventPublisher 图书事件发布器
// 设计说明：
// 1. 事件类型直接作为routing key（book.created/book.updated/book.deleted）
// 2. 熔断器保护：Broker连续失败后快速失败，写请求不再等待发布超时
// 3. 每次发布有独立的超时，避免拖慢HTTP请求
type EventPublisher struct {
	sender  Sender
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
}

var _ appbook.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher 创建事件发布器
func NewEventPublisher(sender Sender, timeout time.Duration, log zerolog.Logger) *EventPublisher {
	breaker := circuitbreaker.New("book-events", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(5),
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("熔断器状态变化")
		},
	})

	return newEventPublisher(sender, breaker, timeout)
}

func newEventPublisher(sender Sender, breaker *circuitbreaker.CircuitBreaker, timeout time.Duration) *EventPublisher {
	metrics.InitMetrics()
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &EventPublisher{
		sender:  sender,
		breaker: breaker,
		timeout: timeout,
	}
}

// Publish 发布图书事件
func (p *EventPublisher) Publish(ctx context.Context, event appbook.Event) error {
	// 与请求的取消解耦：HTTP请求已经成功，客户端断开也应该把事件发出去
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.sender.Publish(ctx, event.Type, event)
	})

	labels := map[string]string{"name": p.breaker.Name()}
	switch {
	case err == nil:
		labels["result"] = metrics.ResultSuccess
	case errors.Is(err, circuitbreaker.ErrOpenState):
		labels["result"] = metrics.ResultRejected
	default:
		labels["result"] = metrics.ResultFailure
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, labels)
	metrics.IncCounterVec(metrics.EventsPublishedTotal, map[string]string{
		"routing_key": event.Type,
		"result":      labels["result"],
	})

	return err
}
