package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"字段非法", apperrors.NewField(apperrors.ErrCodeInvalidField, "title", "Invalid title"), http.StatusBadRequest},
		{"ID非法", apperrors.New(apperrors.ErrCodeInvalidIdentifier, "Invalid book id"), http.StatusBadRequest},
		{"空更新", apperrors.New(apperrors.ErrCodeNoUpdateData, "x"), http.StatusBadRequest},
		{"不可变字段", apperrors.New(apperrors.ErrCodeImmutableFieldUpdate, "x"), http.StatusBadRequest},
		{"图书不存在", apperrors.New(apperrors.ErrCodeBookNotFound, "x"), http.StatusNotFound},
		{"类型下无图书", apperrors.New(apperrors.ErrCodeNoBooksForGenre, "x"), http.StatusNotFound},
		{"重复ID未映射", apperrors.New(apperrors.ErrCodeDuplicateEntry, "x"), http.StatusInternalServerError},
		{"包装后的AppError", fmt.Errorf("ctx: %w", apperrors.New(apperrors.ErrCodeInvalidDiscountPercent, "x")), http.StatusBadRequest},
		{"普通error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestError_Body(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/books", nil)

	Error(c, apperrors.NewField(apperrors.ErrCodeInvalidField, "author", "Invalid author"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorBody{Code: apperrors.ErrCodeInvalidField, Error: "Invalid author", Field: "author"}, body)
}

func TestError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/books", nil)

	Error(c, errors.New("redis: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestSuccessHelpers(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Created(c, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
