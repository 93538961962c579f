package dto

import (
	"time"

	"github.com/xiebiao/bookinventory/internal/domain/book"
)

// CreatedAtLayout createdAt的输出格式(UTC,毫秒精度)
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// CreateBookRequest HTTP创建图书请求
// 仅用于API文档:请求体按JSON对象解码后交给领域层逐字段校验,
// 这样才能区分"字段缺失"和"类型错误"并按固定顺序报告第一个错误字段
type CreateBookRequest struct {
	ID     int64    `json:"id" example:"1"`
	Title  string   `json:"title" example:"Dune"`
	Author string   `json:"author" example:"Frank Herbert"`
	Genre  *string  `json:"genre,omitempty" example:"Sci-Fi"`
	Price  *float64 `json:"price,omitempty" example:"9.99"`
}

// UpdateBookRequest HTTP部分更新请求(仅用于API文档)
// id和createdAt不可修改
type UpdateBookRequest struct {
	Title  *string  `json:"title,omitempty" example:"Dune Messiah"`
	Author *string  `json:"author,omitempty" example:"Frank Herbert"`
	Genre  *string  `json:"genre,omitempty" example:"Sci-Fi"`
	Price  *float64 `json:"price,omitempty" example:"12.5"`
}

// BookResponse HTTP图书响应
// genre/price未设置时不输出
type BookResponse struct {
	ID        int64    `json:"id" example:"1"`
	Title     string   `json:"title" example:"Dune"`
	Author    string   `json:"author" example:"Frank Herbert"`
	Genre     *string  `json:"genre,omitempty" example:"Sci-Fi"`
	Price     *float64 `json:"price,omitempty" example:"9.99"`
	CreatedAt string   `json:"createdAt" example:"2024-01-15T10:30:00.000Z"`
}

// ListBooksQuery HTTP图书列表查询参数
type ListBooksQuery struct {
	Genre  string `form:"genre" example:"Sci-Fi"`
	Title  string `form:"title" example:"dune"`
	Author string `form:"author" example:"herbert"`
}

// DiscountedPriceQuery HTTP折扣查询参数
// discount保持字符串,解析和范围校验在领域层完成
type DiscountedPriceQuery struct {
	Genre    string `form:"genre" example:"Sci-Fi"`
	Discount string `form:"discount" example:"20"`
}

// DiscountedPriceResponse HTTP折扣查询响应
type DiscountedPriceResponse struct {
	Genre                string  `json:"genre" example:"Sci-Fi"`
	DiscountPercentage   float64 `json:"discount_percentage" example:"20"`
	TotalDiscountedPrice float64 `json:"total_discounted_price" example:"120"`
}

// NewBookResponse 领域对象转响应
func NewBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Genre:     b.Genre,
		Price:     b.Price,
		CreatedAt: FormatCreatedAt(b.CreatedAt),
	}
}

// NewBookResponses 列表转换,空列表输出[]而不是null
func NewBookResponses(books []*book.Book) []*BookResponse {
	out := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResponse(b))
	}
	return out
}

// NewDiscountedPriceResponse 聚合结果转响应
func NewDiscountedPriceResponse(r *book.DiscountResult) *DiscountedPriceResponse {
	return &DiscountedPriceResponse{
		Genre:                r.Genre,
		DiscountPercentage:   r.DiscountPercentage,
		TotalDiscountedPrice: r.TotalDiscountedPrice,
	}
}

// FormatCreatedAt 统一转成UTC输出
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}
