package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appbook "github.com/xiebiao/bookinventory/internal/application/book"
	"github.com/xiebiao/bookinventory/internal/domain/book"
)

// DiscountCache 折扣聚合结果缓存
//
// Key格式：bookstore:discount:{instance}:{generation}:{genre}:{percent}
//   - instance：进程启动时生成的UUID。库存数据只在本进程内存中，
//     多个实例共用一个Redis时不能互相读到对方的结果
//   - generation：本进程的写操作代数，Invalidate递增它，旧Key不再被读取，由TTL回收
//   - genre：小写（genre匹配忽略大小写）
type DiscountCache struct {
	client     redis.Cmdable
	ttl        time.Duration
	prefix     string
	generation atomic.Uint64
}

var _ appbook.DiscountCache = (*DiscountCache)(nil)

// NewDiscountCache 创建折扣缓存
func NewDiscountCache(client redis.Cmdable, ttl time.Duration) *DiscountCache {
	return &DiscountCache{
		client: client,
		ttl:    ttl,
		prefix: "bookstore:discount:" + uuid.NewString() + ":",
	}
}

// Key 生成缓存Key（包含当前代数）
func (c *DiscountCache) Key(q book.DiscountQuery) string {
	return c.prefix +
		strconv.FormatUint(c.generation.Load(), 10) + ":" +
		strings.ToLower(q.Genre) + ":" +
		strconv.FormatFloat(q.Percent, 'g', -1, 64)
}

// Get 读取缓存，未命中返回(nil, false, nil)
func (c *DiscountCache) Get(ctx context.Context, key string) (*book.DiscountResult, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("获取缓存失败: %w", err)
	}

	var r book.DiscountResult
	if err := json.Unmarshal(val, &r); err != nil {
		return nil, false, fmt.Errorf("反序列化失败: %w", err)
	}
	return &r, true, nil
}

// Set 写入缓存
func (c *DiscountCache) Set(ctx context.Context, key string, r *book.DiscountResult) error {
	val, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}

// Invalidate 递增代数，之前生成的Key全部失效
// 只改本地计数，不访问Redis，所以不会失败
func (c *DiscountCache) Invalidate(context.Context) error {
	c.generation.Add(1)
	return nil
}
