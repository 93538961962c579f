package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
)

// ErrorBody 错误响应结构
// 设计说明：
// 1. 成功时直接返回资源本身（图书/列表/聚合结果），不再包一层信封
// 2. 失败时返回ErrorBody，Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 3. Field只在字段校验失败时出现
type ErrorBody struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusByCode 业务错误码 → HTTP状态码
// 未登记的错误码一律按500处理（包括重复ID）
var statusByCode = map[int]int{
	apperrors.ErrCodeInvalidParams:          http.StatusBadRequest,
	apperrors.ErrCodeBindError:              http.StatusBadRequest,
	apperrors.ErrCodeInvalidField:           http.StatusBadRequest,
	apperrors.ErrCodeInvalidIdentifier:      http.StatusBadRequest,
	apperrors.ErrCodeNoUpdateData:           http.StatusBadRequest,
	apperrors.ErrCodeImmutableFieldUpdate:   http.StatusBadRequest,
	apperrors.ErrCodeInvalidOrMissingGenre:  http.StatusBadRequest,
	apperrors.ErrCodeInvalidDiscountPercent: http.StatusBadRequest,

	apperrors.ErrCodeNotFound:        http.StatusNotFound,
	apperrors.ErrCodeBookNotFound:    http.StatusNotFound,
	apperrors.ErrCodeNoBooksForGenre: http.StatusNotFound,
}

// StatusOf 返回错误对应的HTTP状态码
func StatusOf(err error) int {
	appErr := apperrors.GetAppError(err)
	if status, ok := statusByCode[appErr.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Success 200 + 数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 + 新建的资源
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204，无响应体
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	book, err := h.createBook.Execute(ctx, payload)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	// 1. 提取AppError（非AppError包装成Internal）
	appErr := apperrors.GetAppError(err)
	status := StatusOf(appErr)

	// 2. 服务端错误记录详细日志（包含内部错误），客户端错误只记debug
	log := zerolog.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("code", appErr.Code).Msg("request failed")
	} else {
		log.Debug().Int("code", appErr.Code).Str("reason", appErr.Message).Msg("request rejected")
	}

	// 3. 返回用户友好的错误信息
	c.JSON(status, ErrorBody{
		Code:  appErr.Code,
		Error: appErr.Message,
		Field: appErr.Field,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}
