package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/xiebiao/bookinventory/pkg/errors"
	"github.com/xiebiao/bookinventory/pkg/response"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

// RequestIDHeader 请求ID响应头（客户端传入时沿用）
const RequestIDHeader = "X-Request-ID"

// slowRequestThreshold 超过该耗时记warn
const slowRequestThreshold = time.Second

// Logger 请求日志中间件
// 1. 生成（或沿用客户端传入的）请求ID，写入响应头
// 2. 把带request_id的Logger放进请求context，后续各层用logger.FromContext取用
// 3. 请求结束后记录方法、路由、状态码、耗时、客户端IP
//
// 不记录请求体，避免日志过大
func Logger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 步骤1: 请求ID
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		// 步骤2: 请求级Logger
		reqLog := base.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 步骤3: 访问日志
		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = reqLog.Error()
		case latency > slowRequestThreshold:
			event = reqLog.Warn().Bool("slow", true)
		default:
			event = reqLog.Info()
		}

		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			event = event.Str("trace_id", traceID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Int("bytes", c.Writer.Size()).
			Msg("request")
	}
}

// Recovery panic恢复，记录堆栈后返回500
func Recovery(base zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		base.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("panic recovered")
		response.Error(c, apperrors.ErrInternal)
		c.Abort()
	})
}
