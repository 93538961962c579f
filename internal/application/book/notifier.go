package book

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/pkg/logger"
	"github.com/xiebiao/bookinventory/pkg/metrics"
)

const tracerName = "bookstore/application/book"

// ChangeNotifier 写操作前后的协调与副作用
// 写操作期间（begin到done之间）：
// 1. 前后各使折扣缓存失效一次
// 2. writing()返回true，折扣查询绕过缓存直接计算
// 写操作成功后（notify）：
// 1. 刷新books_stored指标
// 2. 发布图书事件
// 所有副作用都是尽力而为：失败只记日志，不影响已经成功的写操作
type ChangeNotifier struct {
	bookService book.Service
	publisher   EventPublisher
	cache       DiscountCache
	log         zerolog.Logger
	now         func() time.Time

	inflight atomic.Int64 // 正在进行的写操作数
}

// NewChangeNotifier 创建写操作通知器
func NewChangeNotifier(bookService book.Service, publisher EventPublisher, cache DiscountCache, log zerolog.Logger) *ChangeNotifier {
	metrics.InitMetrics()
	return &ChangeNotifier{
		bookService: bookService,
		publisher:   publisher,
		cache:       cache,
		log:         log,
		now:         time.Now,
	}
}

// begin 在写操作之前调用，返回的done必须在写操作结束后（无论成败）调用
//
// 只在提交之后失效一次不够：提交和失效之间到达的查询仍会读到旧代数的结果。
// 所以写操作期间查询一律不读写缓存，done里再失效一次，
// 之后生成的Key只会写入提交之后计算的结果。
func (n *ChangeNotifier) begin(ctx context.Context) (done func()) {
	n.inflight.Add(1)
	n.invalidate(ctx)
	return func() {
		n.invalidate(ctx)
		n.inflight.Add(-1)
	}
}

// writing 是否有写操作正在进行
func (n *ChangeNotifier) writing() bool {
	return n.inflight.Load() > 0
}

func (n *ChangeNotifier) invalidate(ctx context.Context) {
	if err := n.cache.Invalidate(ctx); err != nil {
		log := logger.FromContext(ctx, n.log)
		log.Warn().Err(err).Msg("折扣缓存失效失败")
	}
}

// notify 在写操作成功后调用
func (n *ChangeNotifier) notify(ctx context.Context, eventType string, id int64, b *book.Book) {
	log := logger.FromContext(ctx, n.log)

	metrics.SetGauge(metrics.BooksStored, float64(n.bookService.CountBooks(ctx)))

	event := Event{
		Type:       eventType,
		BookID:     id,
		Book:       newEventBook(b),
		OccurredAt: n.now().UTC(),
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", eventType).Int64("book_id", id).Msg("图书事件发布失败")
	}
}

// Reset 清空库存（测试/管理用途），同时清掉折扣缓存
func (n *ChangeNotifier) Reset(ctx context.Context) {
	done := n.begin(ctx)
	n.bookService.Reset(ctx)
	done()
	metrics.SetGauge(metrics.BooksStored, 0)
}
