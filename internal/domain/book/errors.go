package book

import (
	"fmt"

	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
)

// 图书领域错误定义
// 带参数的错误用构造函数生成,errors.Is按错误码比较,可以直接和下面的哨兵值比较
var (
	// ErrDuplicateIdentifier ID已存在
	ErrDuplicateIdentifier = apperrors.New(apperrors.ErrCodeDuplicateEntry, "A book with this id already exists")

	// ErrInvalidIdentifier ID不是正整数
	ErrInvalidIdentifier = apperrors.New(apperrors.ErrCodeInvalidIdentifier, "Invalid book id")

	// ErrNoUpdateData 更新请求中没有可识别的字段
	ErrNoUpdateData = apperrors.New(apperrors.ErrCodeNoUpdateData, "No update data provided")

	// ErrImmutableFieldUpdate 试图修改id或createdAt
	ErrImmutableFieldUpdate = apperrors.New(apperrors.ErrCodeImmutableFieldUpdate, "Cannot update id or createdAt")

	// ErrInvalidOrMissingGenre genre缺失或为空
	ErrInvalidOrMissingGenre = apperrors.New(apperrors.ErrCodeInvalidOrMissingGenre, "Invalid or missing genre")

	// ErrInvalidDiscountPercent 折扣百分比非法
	ErrInvalidDiscountPercent = apperrors.New(apperrors.ErrCodeInvalidDiscountPercent, "Invalid discount percentage")

	// ErrAggregateOverflow 价格合计超出float64范围,无法输出为JSON数字
	ErrAggregateOverflow = apperrors.New(apperrors.ErrCodeOverflow, "Discounted price total is out of range")

	// 仅用于errors.Is比较
	ErrNotFound        = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found")
	ErrInvalidField    = apperrors.New(apperrors.ErrCodeInvalidField, "Invalid field")
	ErrNoBooksForGenre = apperrors.New(apperrors.ErrCodeNoBooksForGenre, "No books found for genre")
)

// NotFound 指定ID的图书不存在
func NotFound(id int64) error {
	return apperrors.New(apperrors.ErrCodeBookNotFound, fmt.Sprintf("Book with id %d not found", id))
}

// InvalidField 字段缺失或类型错误
func InvalidField(name string) error {
	return apperrors.NewField(apperrors.ErrCodeInvalidField, name, "Invalid "+name)
}

// NoBooksForGenre 该类型下没有图书
func NoBooksForGenre(genre string) error {
	return apperrors.New(apperrors.ErrCodeNoBooksForGenre, fmt.Sprintf("No books found for genre: %s", genre))
}
