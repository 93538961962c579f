package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/pkg/metrics"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 应用层负责用例编排,校验和唯一性由领域服务和仓储负责
// 2. 请求体以Payload(JSON对象解码后的map)传入,字段类型在领域层校验
// 3. 创建成功后发布book.created事件
type CreateBookUseCase struct {
	bookService book.Service
	notifier    *ChangeNotifier
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, notifier *ChangeNotifier) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		notifier:    notifier,
	}
}

// Execute 执行创建
func (uc *CreateBookUseCase) Execute(ctx context.Context, payload book.Payload) (*book.Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.CreateBook")
	defer span.End()

	done := uc.notifier.begin(ctx)
	created, err := uc.bookService.CreateBook(ctx, payload)
	done()
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("book.id", created.ID))

	metrics.IncCounter(metrics.BooksCreatedTotal)
	uc.notifier.notify(ctx, EventBookCreated, created.ID, created)

	return created, nil
}
