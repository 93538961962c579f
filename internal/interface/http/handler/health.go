package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root 服务存活提示
// @Summary  服务状态
// @Tags     系统
// @Produce  plain
// @Success  200 {string} string "Bookstore API is running"
// @Router   / [get]
func Root(c *gin.Context) {
	c.String(http.StatusOK, "Bookstore API is running")
}

// Ping 健康检查
// @Summary  健康检查
// @Tags     系统
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"status":  "healthy",
	})
}
