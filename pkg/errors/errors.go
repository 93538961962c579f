package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是错误种类的唯一判别依据，上层（HTTP适配器）只根据Code映射状态码
// 2. Message是返回给客户端的提示信息
// 3. Field记录出错的字段名（仅InvalidField类错误使用）
// 4. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较
// 带参数的错误（如NotFound(id)）每次都是新实例，errors.Is只比较种类
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewField 创建带字段名的AppError
func NewField(code int, field, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// Wrap 包装系统错误
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal   = 50000 // 内部错误
	ErrCodeRedisError = 50002 // Redis错误
	ErrCodeMQError    = 50003 // 消息队列错误
	ErrCodeOverflow   = 50004 // 数值溢出

	// 资源错误（40400-40499）
	ErrCodeNotFound        = 40400 // 资源不存在(通用)
	ErrCodeBookNotFound    = 40402 // 图书不存在
	ErrCodeNoBooksForGenre = 40405 // 该类型下没有图书

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError        = 40000 // 业务错误(通用)
	ErrCodeNoUpdateData         = 40006 // 更新内容为空
	ErrCodeImmutableFieldUpdate = 40007 // 试图修改不可变字段
	ErrCodeDuplicateEntry       = 40009 // 重复记录(通用)

	// 参数错误（40900-40999）
	ErrCodeInvalidParams          = 40900 // 参数错误
	ErrCodeBindError              = 40901 // 参数绑定失败
	ErrCodeInvalidField           = 40902 // 字段类型或取值非法
	ErrCodeInvalidIdentifier      = 40903 // ID不是正整数
	ErrCodeInvalidOrMissingGenre  = 40904 // genre缺失或为空
	ErrCodeInvalidDiscountPercent = 40905 // 折扣百分比非法
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	ErrInternal   = New(ErrCodeInternal, "Internal server error")
	ErrRedisError = New(ErrCodeRedisError, "Cache service error")

	ErrInvalidParams = New(ErrCodeInvalidParams, "Invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "Request body must be a JSON object")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}

// HasCode 判断err是否为指定错误码的AppError
func HasCode(err error, code int) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}
