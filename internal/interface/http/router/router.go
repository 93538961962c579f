package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookinventory/docs" // swagger文档（swag init生成）
	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
	"github.com/xiebiao/bookinventory/internal/interface/http/handler"
	"github.com/xiebiao/bookinventory/internal/interface/http/middleware"
)

// New 创建并配置Gin引擎
// 中间件顺序：Recovery → Logger（注入request_id） → Tracing → Metrics
func New(cfg *config.Config, bookHandler *handler.BookHandler, log zerolog.Logger) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.Tracing(),
	)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 系统接口
	r.GET("/", handler.Root)
	r.GET("/ping", handler.Ping)

	// Swagger文档：http://localhost:3000/swagger/index.html
	if cfg.Swagger.Enabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerBookRoutes(r, bookHandler)

	return r
}

// registerBookRoutes 图书路由
// /books/discounted-price必须先于/books/:id注册，保证静态路径优先
func registerBookRoutes(r gin.IRouter, h *handler.BookHandler) {
	books := r.Group("/books")
	{
		books.GET("/discounted-price", h.DiscountedPrice)
		books.GET("", h.ListBooks)
		books.POST("", h.CreateBook)
		books.GET("/:id", h.GetBook)
		books.PATCH("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}
