package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookinventory/internal/application/book"
	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
	"github.com/xiebiao/bookinventory/pkg/response"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBookUseCase      *appbook.CreateBookUseCase
	getBookUseCase         *appbook.GetBookUseCase
	listBooksUseCase       *appbook.ListBooksUseCase
	updateBookUseCase      *appbook.UpdateBookUseCase
	deleteBookUseCase      *appbook.DeleteBookUseCase
	discountedPriceUseCase *appbook.DiscountedPriceUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	discountedPriceUseCase *appbook.DiscountedPriceUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase:      createBookUseCase,
		getBookUseCase:         getBookUseCase,
		listBooksUseCase:       listBooksUseCase,
		updateBookUseCase:      updateBookUseCase,
		deleteBookUseCase:      deleteBookUseCase,
		discountedPriceUseCase: discountedPriceUseCase,
	}
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  id由客户端提供且必须唯一;genre/price可选
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "字段缺失或类型错误"
// @Failure      500 {object} response.ErrorBody "id已存在"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	// 1. 解码请求体(保留原始类型,交给领域层校验)
	payload, err := decodePayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 2. 调用应用层用例
	created, err := h.createBookUseCase.Execute(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewBookResponse(created))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "id不是正整数"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := book.ParseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewBookResponse(b))
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  genre精确匹配,title/author子串匹配,均忽略大小写;多个条件取交集
// @Tags         图书
// @Produce      json
// @Param        genre  query string false "类型"
// @Param        title  query string false "书名关键字"
// @Param        author query string false "作者关键字"
// @Success      200 {array} dto.BookResponse
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	books, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Genre:  q.Genre,
		Title:  q.Title,
		Author: q.Author,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewBookResponses(books))
}

// UpdateBook 部分更新
// @Summary      部分更新图书
// @Description  只更新请求中出现的字段;id和createdAt不可修改
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "要更新的字段"
// @Success      200 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "参数错误/没有可更新字段/试图修改id或createdAt"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := book.ParseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := decodePayload(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.updateBookUseCase.Execute(c.Request.Context(), id, payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewBookResponse(updated))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Param        id path int true "图书ID"
// @Success      204 "删除成功"
// @Failure      400 {object} response.ErrorBody "id不是正整数"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := book.ParseID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// DiscountedPrice 折扣价格
// @Summary      某类型图书的折后总价
// @Description  total = sum(price) * (1 - discount/100),缺失价格按0计算,不做四舍五入
// @Tags         图书
// @Produce      json
// @Param        genre    query string true "类型(忽略大小写)"
// @Param        discount query number true "折扣百分比(0-100)"
// @Success      200 {object} dto.DiscountedPriceResponse
// @Failure      400 {object} response.ErrorBody "genre缺失或折扣非法"
// @Failure      404 {object} response.ErrorBody "该类型下没有图书"
// @Failure      500 {object} response.ErrorBody "总价超出数值范围"
// @Router       /books/discounted-price [get]
func (h *BookHandler) DiscountedPrice(c *gin.Context) {
	var q dto.DiscountedPriceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.ErrInvalidParams)
		return
	}

	result, err := h.discountedPriceUseCase.Execute(c.Request.Context(), appbook.DiscountedPriceRequest{
		Genre:    q.Genre,
		Discount: q.Discount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.NewDiscountedPriceResponse(result))
}

// decodePayload 把请求体解码为JSON对象
// 1. 空请求体按{}处理(创建时会报id缺失,更新时会报没有可更新字段)
// 2. 数字保留为json.Number,领域层据此区分整数和小数
// 3. 不是JSON对象(数组、字符串、null、语法错误)返回ErrBindError
func decodePayload(c *gin.Context) (book.Payload, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		return nil, apperrors.ErrBindError
	}
	if len(body) > maxBodyBytes {
		return nil, apperrors.ErrBindError
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return book.Payload{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload book.Payload
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return nil, apperrors.ErrBindError
	}
	// 对象之后不允许再有内容
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.ErrBindError
	}
	return payload, nil
}
