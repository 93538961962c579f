package book

import (
	"time"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. ID由客户端提供(不自增),在所有存活记录中唯一
// 2. Genre/Price是可选字段,用指针区分"未设置"和"零值"
// 3. CreatedAt由Repository在写入时打上,之后不可修改
// 4. 仓储返回的都是副本,调用方修改返回值不会影响仓储内部数据
type Book struct {
	ID        int64
	Title     string
	Author    string
	Genre     *string
	Price     *float64
	CreatedAt time.Time
}

// Clone 深拷贝(指针字段也复制一份)
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	c := *b
	if b.Genre != nil {
		g := *b.Genre
		c.Genre = &g
	}
	if b.Price != nil {
		p := *b.Price
		c.Price = &p
	}
	return &c
}

// PriceOrZero 价格未设置时按0计算(用于聚合)
func (b *Book) PriceOrZero() float64 {
	if b.Price == nil {
		return 0
	}
	return *b.Price
}

// Patch 部分更新(只包含允许修改的字段)
// nil表示该字段未出现在更新请求中
type Patch struct {
	Title  *string
	Author *string
	Genre  *string
	Price  *float64
}

// IsEmpty 是否没有任何字段需要更新
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Genre == nil && p.Price == nil
}

// Apply 将更新合并到目标图书上
func (p Patch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Genre != nil {
		g := *p.Genre
		b.Genre = &g
	}
	if p.Price != nil {
		v := *p.Price
		b.Price = &v
	}
}

// DiscountResult 折扣聚合结果
type DiscountResult struct {
	Genre                string  `json:"genre"`
	DiscountPercentage   float64 `json:"discount_percentage"`
	TotalDiscountedPrice float64 `json:"total_discounted_price"`
}

// StringPtr 返回字符串指针(构造测试数据和DTO时使用)
func StringPtr(s string) *string {
	return &s
}

// FloatPtr 返回float64指针
func FloatPtr(f float64) *float64 {
	return &f
}
