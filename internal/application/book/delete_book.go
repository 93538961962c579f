package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/pkg/metrics"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

// DeleteBookUseCase 删除用例
// 删除后同一ID可以重新创建
type DeleteBookUseCase struct {
	bookService book.Service
	notifier    *ChangeNotifier
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, notifier *ChangeNotifier) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		notifier:    notifier,
	}
}

// Execute 执行删除,不存在返回NotFound(id)
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.DeleteBook")
	defer span.End()
	span.SetAttributes(attribute.Int64("book.id", id))

	done := uc.notifier.begin(ctx)
	err := uc.bookService.DeleteBook(ctx, id)
	done()
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	metrics.IncCounter(metrics.BooksDeletedTotal)
	uc.notifier.notify(ctx, EventBookDeleted, id, nil)

	return nil
}
