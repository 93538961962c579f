package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/pkg/metrics"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

// UpdateBookUseCase 部分更新用例
// id和createdAt不可修改,由领域服务和仓储双重保证
type UpdateBookUseCase struct {
	bookService book.Service
	notifier    *ChangeNotifier
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service, notifier *ChangeNotifier) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		notifier:    notifier,
	}
}

// Execute 执行更新,返回更新后的完整图书
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id int64, payload book.Payload) (*book.Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.UpdateBook")
	defer span.End()
	span.SetAttributes(attribute.Int64("book.id", id))

	done := uc.notifier.begin(ctx)
	updated, err := uc.bookService.UpdateBook(ctx, id, payload)
	done()
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncCounter(metrics.BooksUpdatedTotal)
	uc.notifier.notify(ctx, EventBookUpdated, id, updated)

	return updated, nil
}
