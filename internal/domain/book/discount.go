package book

import (
	"math"
	"strconv"
	"strings"
)

// DiscountQuery 折扣聚合查询参数
type DiscountQuery struct {
	Genre   string  // 已去除首尾空白
	Percent float64 // 0-100
}

// ParseDiscountQuery 解析并校验查询参数
// 先校验genre,再校验discount(错误优先级对外可见)
func ParseDiscountQuery(genre, discount string) (DiscountQuery, error) {
	q := DiscountQuery{Genre: strings.TrimSpace(genre)}
	if q.Genre == "" {
		return q, ErrInvalidOrMissingGenre
	}

	percent, err := strconv.ParseFloat(strings.TrimSpace(discount), 64)
	if err != nil {
		return q, ErrInvalidDiscountPercent
	}
	q.Percent = percent

	return q, q.Validate()
}

// Validate 校验已解析的查询
func (q DiscountQuery) Validate() error {
	if strings.TrimSpace(q.Genre) == "" {
		return ErrInvalidOrMissingGenre
	}
	if math.IsNaN(q.Percent) || q.Percent < 0 || q.Percent > 100 {
		return ErrInvalidDiscountPercent
	}
	return nil
}

// ApplyDiscount 计算折后总价
// 缺失的价格按0计算;结果不做四舍五入
func ApplyDiscount(books []*Book, percent float64) float64 {
	var sum float64
	for _, b := range books {
		sum += b.PriceOrZero()
	}
	return sum * (1 - percent/100)
}
