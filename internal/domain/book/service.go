package book

import (
	"context"
	"math"
	"strings"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务负责校验和业务规则,仓储只负责存取
// 2. 所有校验都在调用仓储之前完成,校验失败不会改动任何数据
type Service interface {
	// CreateBook 创建图书
	// 业务规则:见ValidateCreate;ID重复返回ErrDuplicateIdentifier
	CreateBook(ctx context.Context, payload Payload) (*Book, error)

	// GetBook 根据ID获取图书,不存在返回NotFound(id)
	GetBook(ctx context.Context, id int64) (*Book, error)

	// ListBooks 按过滤条件查询,结果保持写入顺序
	ListBooks(ctx context.Context, filter Filter) ([]*Book, error)

	// UpdateBook 部分更新
	// 先检查图书是否存在,再按ValidateUpdate的顺序校验
	UpdateBook(ctx context.Context, id int64, payload Payload) (*Book, error)

	// DeleteBook 删除图书,不存在返回NotFound(id)
	DeleteBook(ctx context.Context, id int64) error

	// DiscountedPrice 计算某类型图书的折后总价
	DiscountedPrice(ctx context.Context, query DiscountQuery) (*DiscountResult, error)

	// CountBooks 当前存量
	CountBooks(ctx context.Context) int

	// Reset 清空数据(测试/管理用途)
	Reset(ctx context.Context)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, payload Payload) (*Book, error) {
	// 1. 校验请求
	candidate, err := ValidateCreate(payload)
	if err != nil {
		return nil, err
	}

	// 2. 写入仓储(唯一性由仓储在锁内保证)
	return s.repo.Insert(ctx, candidate)
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id int64) (*Book, error) {
	b, ok := s.repo.FindByID(ctx, id)
	if !ok {
		return nil, NotFound(id)
	}
	return b, nil
}

// ListBooks 按条件查询图书
func (s *service) ListBooks(ctx context.Context, filter Filter) ([]*Book, error) {
	if filter.IsEmpty() {
		return s.repo.ListAll(ctx), nil
	}
	return s.repo.ListMatching(ctx, filter.Predicate()), nil
}

// UpdateBook 部分更新图书
func (s *service) UpdateBook(ctx context.Context, id int64, payload Payload) (*Book, error) {
	// 1. 存在性检查
	if _, ok := s.repo.FindByID(ctx, id); !ok {
		return nil, NotFound(id)
	}

	// 2. 校验更新内容
	patch, err := ValidateUpdate(payload)
	if err != nil {
		return nil, err
	}

	// 3. 合并更新(并发删除时仓储会返回false)
	updated, ok := s.repo.Update(ctx, id, patch)
	if !ok {
		return nil, NotFound(id)
	}
	return updated, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id int64) error {
	if !s.repo.Remove(ctx, id) {
		return NotFound(id)
	}
	return nil
}

// DiscountedPrice 折扣聚合
// 步骤:
// 1. 校验genre(非空)和折扣(0-100)
// 2. 按genre精确匹配(忽略大小写)取出图书
// 3. 没有图书返回NoBooksForGenre
// 4. 价格求和(缺失按0)后打折,不做四舍五入
// 5. 合计溢出(单价都合法但总和超出float64)返回ErrAggregateOverflow
func (s *service) DiscountedPrice(ctx context.Context, query DiscountQuery) (*DiscountResult, error) {
	query.Genre = strings.TrimSpace(query.Genre)
	if err := query.Validate(); err != nil {
		return nil, err
	}

	books := s.repo.ListMatching(ctx, ByGenre(query.Genre))
	if len(books) == 0 {
		return nil, NoBooksForGenre(query.Genre)
	}

	total := ApplyDiscount(books, query.Percent)
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return nil, ErrAggregateOverflow
	}

	return &DiscountResult{
		Genre:                query.Genre,
		DiscountPercentage:   query.Percent,
		TotalDiscountedPrice: total,
	}, nil
}

// CountBooks 当前存量
func (s *service) CountBooks(ctx context.Context) int {
	return s.repo.Count(ctx)
}

// Reset 清空数据
func (s *service) Reset(ctx context.Context) {
	s.repo.Reset(ctx)
}
