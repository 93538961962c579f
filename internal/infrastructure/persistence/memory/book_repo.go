package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookinventory/internal/domain/book"
)

// bookRepository 图书仓储实现(进程内存)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 写操作(Insert/Update/Remove/Reset)持有写锁串行执行,读操作持有读锁可以并发
// 3. order记录写入顺序,byID用于O(1)查找
// 4. 进出仓储的数据一律Clone,外部无法通过返回值修改内部状态
type bookRepository struct {
	mu    sync.RWMutex
	byID  map[int64]*book.Book
	order []int64
	now   func() time.Time
}

// Option 仓储选项
type Option func(*bookRepository)

// WithClock 指定时钟(测试用)
func WithClock(now func() time.Time) Option {
	return func(r *bookRepository) {
		r.now = now
	}
}

// NewBookRepository 创建内存图书仓储
// 每次调用都是独立的实例,测试之间互不影响
func NewBookRepository(opts ...Option) book.Repository {
	r := &bookRepository{
		byID: make(map[int64]*book.Book),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(_ context.Context, id int64) (*book.Book, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// Insert 写入新图书
func (r *bookRepository) Insert(_ context.Context, candidate *book.Book) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 1. 唯一性检查(和写入在同一把锁内)
	if _, exists := r.byID[candidate.ID]; exists {
		return nil, book.ErrDuplicateIdentifier
	}

	// 2. 复制一份再打时间戳,不修改调用方的对象
	stored := candidate.Clone()
	stored.CreatedAt = r.now().UTC()

	// 3. 保存
	r.byID[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	return stored.Clone(), nil
}

// Update 合并部分更新
func (r *bookRepository) Update(_ context.Context, id int64, patch book.Patcher) (*book.Book, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return nil, false
	}

	merged := existing.Clone()
	patch.Apply(merged)

	// 不信任patch:强制写回ID和CreatedAt
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt

	r.byID[id] = merged
	return merged.Clone(), true
}

// Remove 删除图书
func (r *bookRepository) Remove(_ context.Context, id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false
	}

	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// ListAll 按写入顺序返回全部图书
func (r *bookRepository) ListAll(ctx context.Context) []*book.Book {
	return r.ListMatching(ctx, nil)
}

// ListMatching 按写入顺序返回满足谓词的图书
// pred为nil时返回全部
func (r *bookRepository) ListMatching(_ context.Context, pred book.Predicate) []*book.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*book.Book, 0, len(r.order))
	for _, id := range r.order {
		// 谓词拿到的也是副本,改动它不会影响仓储
		b := r.byID[id].Clone()
		if pred != nil && !pred(b) {
			continue
		}
		result = append(result, b)
	}
	return result
}

// Reset 清空全部数据
func (r *bookRepository) Reset(_ context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[int64]*book.Book)
	r.order = nil
}

// Count 当前图书数量
func (r *bookRepository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}
