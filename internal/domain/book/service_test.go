package book_test

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/persistence/memory"
)

// newService 每个测试使用全新的仓储实例
func newService() book.Service {
	return book.NewService(memory.NewBookRepository())
}

func mustCreate(t *testing.T, svc book.Service, p book.Payload) *book.Book {
	t.Helper()
	b, err := svc.CreateBook(context.Background(), p)
	require.NoError(t, err)
	return b
}

// 场景1:创建图书,返回id=1且createdAt非空
func TestCreateBook_StampsCreatedAt(t *testing.T) {
	svc := newService()

	b := mustCreate(t, svc, book.Payload{"id": json.Number("1"), "title": "T", "author": "A"})

	assert.Equal(t, int64(1), b.ID)
	assert.False(t, b.CreatedAt.IsZero())
}

// 场景2:重复创建同一个id
func TestCreateBook_Duplicate(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	mustCreate(t, svc, book.Payload{"id": json.Number("1"), "title": "T", "author": "A"})

	_, err := svc.CreateBook(ctx, book.Payload{"id": json.Number("1"), "title": "Other", "author": "B"})
	require.ErrorIs(t, err, book.ErrDuplicateIdentifier)

	all, err := svc.ListBooks(ctx, book.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "T", all[0].Title)
}

func TestCreateBook_InvalidPayloadLeavesStoreUntouched(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, book.Payload{"id": json.Number("1"), "title": "T"})
	require.ErrorIs(t, err, book.ErrInvalidField)

	all, _ := svc.ListBooks(ctx, book.Filter{})
	assert.Empty(t, all)
}

func TestGetBook(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	mustCreate(t, svc, book.Payload{"id": json.Number("7"), "title": "T", "author": "A"})

	got, err := svc.GetBook(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)

	_, err = svc.GetBook(ctx, 8)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

// 场景3:更新不存在的图书
func TestUpdateBook_NotFound(t *testing.T) {
	svc := newService()

	_, err := svc.UpdateBook(context.Background(), 999, book.Payload{"title": "x"})
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestUpdateBook_WriteOnceFields(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	before := mustCreate(t, svc, book.Payload{"id": json.Number("1"), "title": "T", "author": "A"})

	t.Run("包含id的更新被拒绝且不改动数据", func(t *testing.T) {
		_, err := svc.UpdateBook(ctx, 1, book.Payload{"id": json.Number("2"), "title": "x"})
		require.ErrorIs(t, err, book.ErrImmutableFieldUpdate)

		got, _ := svc.GetBook(ctx, 1)
		assert.Equal(t, "T", got.Title)
	})

	t.Run("合法更新后id和createdAt不变", func(t *testing.T) {
		after, err := svc.UpdateBook(ctx, 1, book.Payload{"title": "New", "price": json.Number("9.5")})
		require.NoError(t, err)

		assert.Equal(t, before.ID, after.ID)
		assert.Equal(t, before.CreatedAt, after.CreatedAt)
		assert.Equal(t, "New", after.Title)
		assert.Equal(t, "A", after.Author)
		assert.Equal(t, 9.5, *after.Price)
	})

	t.Run("空更新", func(t *testing.T) {
		_, err := svc.UpdateBook(ctx, 1, book.Payload{})
		assert.ErrorIs(t, err, book.ErrNoUpdateData)
	})
}

func TestDeleteBook_TwiceYieldsNotFound(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	mustCreate(t, svc, book.Payload{"id": json.Number("1"), "title": "T", "author": "A"})

	require.NoError(t, svc.DeleteBook(ctx, 1))
	assert.ErrorIs(t, svc.DeleteBook(ctx, 1), book.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteBook(ctx, 12345), book.ErrNotFound)
}

// 场景4:按genre过滤,保持写入顺序
func TestListBooks_GenreFilter(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	mustCreate(t, svc, book.Payload{"id": json.Number("1"), "title": "A", "author": "X", "genre": "Sci-Fi"})
	mustCreate(t, svc, book.Payload{"id": json.Number("2"), "title": "B", "author": "Y", "genre": "Dystopian"})
	mustCreate(t, svc, book.Payload{"id": json.Number("3"), "title": "C", "author": "Z", "genre": "Sci-Fi"})

	got, err := svc.ListBooks(ctx, book.Filter{Genre: "sci-fi"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func seedPrices(t *testing.T, svc book.Service, genre string, prices ...any) {
	t.Helper()
	for i, p := range prices {
		payload := book.Payload{"id": json.Number(strconv.Itoa(i + 1)), "title": "T", "author": "A", "genre": genre}
		if p != nil {
			payload["price"] = p
		}
		mustCreate(t, svc, payload)
	}
}

// 场景5:价格[100, 50],折扣20 → 120
func TestDiscountedPrice_Basic(t *testing.T) {
	svc := newService()
	seedPrices(t, svc, "Sci-Fi", json.Number("100"), json.Number("50"))

	res, err := svc.DiscountedPrice(context.Background(), book.DiscountQuery{Genre: "  sci-fi ", Percent: 20})
	require.NoError(t, err)

	assert.Equal(t, "sci-fi", res.Genre, "返回去除空白后的genre")
	assert.Equal(t, 20.0, res.DiscountPercentage)
	assert.InDelta(t, 120.0, res.TotalDiscountedPrice, 1e-9)
}

// 场景6:缺失价格按0计算
func TestDiscountedPrice_MissingPriceIsZero(t *testing.T) {
	svc := newService()
	seedPrices(t, svc, "Sci-Fi", nil, json.Number("50"))

	res, err := svc.DiscountedPrice(context.Background(), book.DiscountQuery{Genre: "Sci-Fi", Percent: 10})
	require.NoError(t, err)
	assert.InDelta(t, 45.0, res.TotalDiscountedPrice, 1e-9)
}

func TestDiscountedPrice_Bounds(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	seedPrices(t, svc, "Sci-Fi", json.Number("10.5"), json.Number("20.25"))

	zero, err := svc.DiscountedPrice(ctx, book.DiscountQuery{Genre: "Sci-Fi", Percent: 0})
	require.NoError(t, err)
	assert.Equal(t, 30.75, zero.TotalDiscountedPrice)

	full, err := svc.DiscountedPrice(ctx, book.DiscountQuery{Genre: "Sci-Fi", Percent: 100})
	require.NoError(t, err)
	assert.Equal(t, 0.0, full.TotalDiscountedPrice)

	for _, bad := range []float64{-0.1, 100.5, math.NaN()} {
		_, err := svc.DiscountedPrice(ctx, book.DiscountQuery{Genre: "Sci-Fi", Percent: bad})
		assert.ErrorIs(t, err, book.ErrInvalidDiscountPercent)
	}
}

func TestDiscountedPrice_Errors(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	seedPrices(t, svc, "Sci-Fi", json.Number("10"))

	_, err := svc.DiscountedPrice(ctx, book.DiscountQuery{Genre: "   ", Percent: 10})
	assert.ErrorIs(t, err, book.ErrInvalidOrMissingGenre)

	_, err = svc.DiscountedPrice(ctx, book.DiscountQuery{Genre: "Romance", Percent: 10})
	assert.ErrorIs(t, err, book.ErrNoBooksForGenre)
}

func TestParseDiscountQuery(t *testing.T) {
	tests := []struct {
		name     string
		genre    string
		discount string
		wantErr  error
	}{
		{"genre缺失", "", "10", book.ErrInvalidOrMissingGenre},
		{"genre只有空白", "  ", "10", book.ErrInvalidOrMissingGenre},
		{"genre优先于discount", "", "abc", book.ErrInvalidOrMissingGenre},
		{"discount缺失", "Sci-Fi", "", book.ErrInvalidDiscountPercent},
		{"discount非数字", "Sci-Fi", "abc", book.ErrInvalidDiscountPercent},
		{"discount为NaN", "Sci-Fi", "NaN", book.ErrInvalidDiscountPercent},
		{"discount超过100", "Sci-Fi", "101", book.ErrInvalidDiscountPercent},
		{"discount为负数", "Sci-Fi", "-5", book.ErrInvalidDiscountPercent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := book.ParseDiscountQuery(tt.genre, tt.discount)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	q, err := book.ParseDiscountQuery(" Fantasy ", "12.5")
	require.NoError(t, err)
	assert.Equal(t, book.DiscountQuery{Genre: "Fantasy", Percent: 12.5}, q)
}

func TestReset(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	mustCreate(t, svc, book.Payload{"id": json.Number("1"), "title": "T", "author": "A"})

	svc.Reset(ctx)

	all, _ := svc.ListBooks(ctx, book.Filter{})
	assert.Empty(t, all)
}

// 单价都合法,但合计超出float64范围
func TestDiscountedPrice_TotalOverflow(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	for i := 1; i <= 2; i++ {
		mustCreate(t, svc, book.Payload{
			"id": json.Number(strconv.Itoa(i)), "title": "T", "author": "A",
			"genre": "Sci-Fi", "price": json.Number("1e308"),
		})
	}

	for _, percent := range []float64{0, 50, 100} {
		_, err := svc.DiscountedPrice(ctx, book.DiscountQuery{Genre: "Sci-Fi", Percent: percent})
		assert.ErrorIs(t, err, book.ErrAggregateOverflow, "percent=%v", percent)
	}

	// 单本1e308本身可以正常计算
	require.NoError(t, svc.DeleteBook(ctx, 2))
	res, err := svc.DiscountedPrice(ctx, book.DiscountQuery{Genre: "Sci-Fi", Percent: 50})
	require.NoError(t, err)
	assert.False(t, math.IsInf(res.TotalDiscountedPrice, 0))
}
