package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/persistence/memory"
)

const sample = `
books:
  - id: 1
    title: Dune
    author: Frank Herbert
    genre: Sci-Fi
    price: 9.99
  - id: 2
    title: Emma
    author: Jane Austen
    price: 12
  - id: 3
    title: Neuromancer
    author: William Gibson
    genre: Sci-Fi
`

// serviceCreator 直接用领域服务创建（测试不需要事件和指标）
type serviceCreator struct{ svc book.Service }

func (c serviceCreator) Execute(ctx context.Context, p book.Payload) (*book.Book, error) {
	return c.svc.CreateBook(ctx, p)
}

func TestRead(t *testing.T) {
	payloads, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, payloads, 3)
	assert.Equal(t, "Dune", payloads[0]["title"])
	assert.NotContains(t, payloads[2], "price")
}

func TestRead_Empty(t *testing.T) {
	payloads, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, payloads)
}

func TestRead_UnknownTopLevelKey(t *testing.T) {
	_, err := Read(strings.NewReader("novels:\n  - id: 1\n"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	svc := book.NewService(memory.NewBookRepository())
	ctx := context.Background()

	payloads, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	n, err := Apply(ctx, serviceCreator{svc}, payloads)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	dune, err := svc.GetBook(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, dune.Price)
	assert.Equal(t, 9.99, *dune.Price)

	emma, err := svc.GetBook(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, emma.Genre)
	assert.Equal(t, 12.0, *emma.Price, "YAML整数价格按数字处理")

	res, err := svc.DiscountedPrice(ctx, book.DiscountQuery{Genre: "sci-fi", Percent: 0})
	require.NoError(t, err)
	assert.InDelta(t, 9.99, res.TotalDiscountedPrice, 1e-9)
}

func TestApply_StopsAtFirstInvalidRecord(t *testing.T) {
	svc := book.NewService(memory.NewBookRepository())
	ctx := context.Background()

	payloads, err := Read(strings.NewReader(`
books:
  - {id: 1, title: A, author: X}
  - {id: 1, title: B, author: Y}
  - {id: 2, title: C, author: Z}
`))
	require.NoError(t, err)

	n, err := Apply(ctx, serviceCreator{svc}, payloads)
	require.ErrorIs(t, err, book.ErrDuplicateIdentifier)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, svc.CountBooks(ctx))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	payloads, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, payloads, 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
