package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
	}
}

// Execute 按ID查询,不存在返回NotFound(id)
func (uc *GetBookUseCase) Execute(ctx context.Context, id int64) (*book.Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.GetBook")
	defer span.End()
	span.SetAttributes(attribute.Int64("book.id", id))

	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return b, nil
}
