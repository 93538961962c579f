package book

import (
	"context"
)

// Predicate 过滤谓词
type Predicate func(b *Book) bool

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(当前只有内存实现)
// 2. 所有返回值都是副本,仓储是图书数据的唯一持有者
// 3. 查不到记录不是错误:FindByID/Update返回false,Remove返回false
type Repository interface {
	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id int64) (*Book, bool)

	// Insert 写入新图书
	// 打上CreatedAt后保存副本;ID已存在时返回ErrDuplicateIdentifier
	Insert(ctx context.Context, candidate *Book) (*Book, error)

	// Update 合并部分更新
	// 无论patch内容如何,都会强制保留原有的ID和CreatedAt
	Update(ctx context.Context, id int64, patch Patcher) (*Book, bool)

	// Remove 删除图书,返回是否真的删除了记录
	Remove(ctx context.Context, id int64) bool

	// ListAll 按写入顺序返回全部图书
	ListAll(ctx context.Context) []*Book

	// ListMatching 按写入顺序返回满足谓词的图书
	ListMatching(ctx context.Context, pred Predicate) []*Book

	// Reset 清空全部数据(仅测试/管理用途)
	Reset(ctx context.Context)

	// Count 当前图书数量
	Count(ctx context.Context) int
}

// Patcher 可以合并到图书上的更新
// Patch是唯一的生产实现;仓储不信任实现方,合并后会重新写回ID和CreatedAt
type Patcher interface {
	Apply(b *Book)
}
