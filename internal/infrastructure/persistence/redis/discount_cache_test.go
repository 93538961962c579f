package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookinventory/internal/application/book"
	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/persistence/memory"
)

func newTestCache(t *testing.T) (*DiscountCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDiscountCache(client, time.Minute), mr
}

func TestDiscountCache_RoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	q := book.DiscountQuery{Genre: "Sci-Fi", Percent: 20}
	key := cache.Key(q)

	_, hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	want := &book.DiscountResult{Genre: "Sci-Fi", DiscountPercentage: 20, TotalDiscountedPrice: 120}
	require.NoError(t, cache.Set(ctx, key, want))

	got, hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestDiscountCache_KeyFoldsGenreCase(t *testing.T) {
	cache, _ := newTestCache(t)

	a := cache.Key(book.DiscountQuery{Genre: "Sci-Fi", Percent: 12.5})
	b := cache.Key(book.DiscountQuery{Genre: "SCI-FI", Percent: 12.5})
	c := cache.Key(book.DiscountQuery{Genre: "Sci-Fi", Percent: 13})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDiscountCache_InvalidateChangesKey(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	q := book.DiscountQuery{Genre: "Sci-Fi", Percent: 0}

	before := cache.Key(q)
	require.NoError(t, cache.Set(ctx, before, &book.DiscountResult{Genre: "Sci-Fi"}))
	require.NoError(t, cache.Invalidate(ctx))

	after := cache.Key(q)
	assert.NotEqual(t, before, after)

	_, hit, err := cache.Get(ctx, after)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDiscountCache_InstancesDoNotShareKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	q := book.DiscountQuery{Genre: "Sci-Fi", Percent: 10}
	a := NewDiscountCache(client, time.Minute)
	b := NewDiscountCache(client, time.Minute)

	assert.NotEqual(t, a.Key(q), b.Key(q))
}

func TestDiscountCache_ServerDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	_, _, err := cache.Get(context.Background(), cache.Key(book.DiscountQuery{Genre: "x"}))
	assert.Error(t, err)
}

func TestDiscountCache_CorruptValue(t *testing.T) {
	cache, mr := newTestCache(t)
	key := cache.Key(book.DiscountQuery{Genre: "x", Percent: 1})
	require.NoError(t, mr.Set(key, "not-json"))

	_, hit, err := cache.Get(context.Background(), key)
	assert.Error(t, err)
	assert.False(t, hit)
}

// 大小写不同的genre共用一条缓存,但各自回显自己的genre
func TestDiscountCache_HitEchoesRequestGenre(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	svc := book.NewService(memory.NewBookRepository())
	notifier := appbook.NewChangeNotifier(svc, appbook.NopPublisher{}, cache, zerolog.Nop())
	create := appbook.NewCreateBookUseCase(svc, notifier)
	discount := appbook.NewDiscountedPriceUseCase(svc, notifier, zerolog.Nop())

	_, err := create.Execute(ctx, book.Payload{
		"id": json.Number("1"), "title": "Dune", "author": "Herbert", "genre": "Sci-Fi", "price": json.Number("50"),
	})
	require.NoError(t, err)

	first, err := discount.Execute(ctx, appbook.DiscountedPriceRequest{Genre: "Sci-Fi", Discount: "20"})
	require.NoError(t, err)
	assert.Equal(t, "Sci-Fi", first.Genre)

	_, hit, err := cache.Get(ctx, cache.Key(book.DiscountQuery{Genre: "sci-fi", Percent: 20}))
	require.NoError(t, err)
	require.True(t, hit)

	second, err := discount.Execute(ctx, appbook.DiscountedPriceRequest{Genre: "sci-fi", Discount: "20"})
	require.NoError(t, err)
	assert.Equal(t, "sci-fi", second.Genre)
	assert.Equal(t, 20.0, second.DiscountPercentage)
	assert.InDelta(t, 40.0, second.TotalDiscountedPrice, 1e-9)
}
