package book

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/persistence/memory"
)

// generationCache 按代数分桶的内存缓存
type generationCache struct {
	mu         sync.Mutex
	generation int
	entries    map[string]*book.DiscountResult
}

func (c *generationCache) Key(q book.DiscountQuery) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, _ := json.Marshal([]any{c.generation, q.Genre, q.Percent})
	return string(b)
}

func (c *generationCache) Get(_ context.Context, key string) (*book.DiscountResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	return r, ok, nil
}

func (c *generationCache) Set(_ context.Context, key string, r *book.DiscountResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = r
	return nil
}

func (c *generationCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return nil
}

// 提交之后、写操作结束之前到达的查询不能读到旧缓存
func TestDiscountQueryDuringWriteBypassesCache(t *testing.T) {
	ctx := context.Background()
	svc := book.NewService(memory.NewBookRepository())
	cache := &generationCache{entries: make(map[string]*book.DiscountResult)}
	notifier := NewChangeNotifier(svc, NopPublisher{}, cache, zerolog.Nop())
	create := NewCreateBookUseCase(svc, notifier)
	discount := NewDiscountedPriceUseCase(svc, notifier, zerolog.Nop())

	_, err := create.Execute(ctx, book.Payload{
		"id": json.Number("1"), "title": "A", "author": "X", "genre": "Sci-Fi", "price": json.Number("100"),
	})
	require.NoError(t, err)

	req := DiscountedPriceRequest{Genre: "Sci-Fi", Discount: "0"}
	before, err := discount.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 100.0, before.TotalDiscountedPrice)

	// 手动展开一次写操作:提交已完成,done尚未调用
	done := notifier.begin(ctx)
	assert.True(t, notifier.writing())
	_, err = svc.UpdateBook(ctx, 1, book.Payload{"price": json.Number("40")})
	require.NoError(t, err)

	during, err := discount.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 40.0, during.TotalDiscountedPrice)

	done()
	assert.False(t, notifier.writing())

	after, err := discount.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 40.0, after.TotalDiscountedPrice)
}

func TestBeginDoneBalanced(t *testing.T) {
	n := NewChangeNotifier(book.NewService(memory.NewBookRepository()), NopPublisher{}, NopDiscountCache{}, zerolog.Nop())

	d1 := n.begin(context.Background())
	d2 := n.begin(context.Background())
	d1()
	assert.True(t, n.writing(), "还有一个写操作未结束")
	d2()
	assert.False(t, n.writing())
}
