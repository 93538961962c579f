package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookinventory/internal/domain/book"
)

// 图书事件类型（同时用作RabbitMQ的routing key）
const (
	EventBookCreated = "book.created"
	EventBookUpdated = "book.updated"
	EventBookDeleted = "book.deleted"
)

// Event 图书变更事件
// 删除事件只带BookID
type Event struct {
	Type       string     `json:"type"`
	BookID     int64      `json:"book_id"`
	Book       *EventBook `json:"book,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// EventBook 事件中携带的图书快照
type EventBook struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Genre     *string   `json:"genre,omitempty"`
	Price     *float64  `json:"price,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func newEventBook(b *book.Book) *EventBook {
	if b == nil {
		return nil
	}
	c := b.Clone()
	return &EventBook{
		ID:        c.ID,
		Title:     c.Title,
		Author:    c.Author,
		Genre:     c.Genre,
		Price:     c.Price,
		CreatedAt: c.CreatedAt,
	}
}

// EventPublisher 事件发布接口
// 实现：infrastructure/messaging（RabbitMQ）、NopPublisher
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// DiscountCache 折扣聚合缓存接口
// 实现：infrastructure/persistence/redis、NopDiscountCache
//
// 使用方式：
// 1. 计算前先调用Key，Key里包含当前代数
// 2. Get未命中时计算，再用同一个Key写回
// 3. 每次写操作后调用Invalidate递增代数，旧Key自然失效
// 这样即使计算过程中发生写操作，写回的也只是一个再也不会被读到的旧Key
type DiscountCache interface {
	Key(query book.DiscountQuery) string
	Get(ctx context.Context, key string) (*book.DiscountResult, bool, error)
	Set(ctx context.Context, key string, result *book.DiscountResult) error
	Invalidate(ctx context.Context) error
}

// NopPublisher 未启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// NopDiscountCache 未启用Redis时使用，永远未命中
type NopDiscountCache struct{}

func (NopDiscountCache) Key(book.DiscountQuery) string { return "" }

func (NopDiscountCache) Get(context.Context, string) (*book.DiscountResult, bool, error) {
	return nil, false, nil
}

func (NopDiscountCache) Set(context.Context, string, *book.DiscountResult) error { return nil }

func (NopDiscountCache) Invalidate(context.Context) error { return nil }
