package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持按genre(精确)、title/author(子串)过滤,忽略大小写
// 2. 多个条件取交集,结果保持写入顺序
// 3. 不分页:数据全部在内存中,规模由调用方控制
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求(空字符串表示不过滤)
type ListBooksRequest struct {
	Genre  string
	Title  string
	Author string
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) ([]*book.Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.ListBooks")
	defer span.End()

	filter := book.Filter{
		Genre:  req.Genre,
		Title:  req.Title,
		Author: req.Author,
	}

	books, err := uc.bookService.ListBooks(ctx, filter)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("filter.empty", filter.IsEmpty()),
		attribute.Int("result.count", len(books)),
	)

	return books, nil
}
