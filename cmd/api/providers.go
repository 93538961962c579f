package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appbook "github.com/xiebiao/bookinventory/internal/application/book"
	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
	"github.com/xiebiao/bookinventory/internal/infrastructure/messaging"
	"github.com/xiebiao/bookinventory/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookinventory/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookinventory/internal/interface/grpcserver"
	"github.com/xiebiao/bookinventory/internal/interface/http/handler"
	"github.com/xiebiao/bookinventory/internal/interface/http/router"
	"github.com/xiebiao/bookinventory/pkg/mq"
)

// eventPublishTimeout 单次事件发布的超时时间
const eventPublishTimeout = 2 * time.Second

// ========================================
// 自定义Provider
// ========================================
// 外部依赖（Redis、RabbitMQ）都是可选的：
// 未启用或连接失败时降级为Nop实现，服务照常启动，只是少了缓存/事件

// provideBookRepository 内存图书仓储
func provideBookRepository() book.Repository {
	return memory.NewBookRepository()
}

// provideDiscountCache 折扣聚合缓存
func provideDiscountCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (appbook.DiscountCache, func()) {
	if !cfg.Redis.Enabled {
		return appbook.NopDiscountCache{}, func() {}
	}

	client, err := redis.NewClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis不可用，折扣缓存已关闭")
		return appbook.NopDiscountCache{}, func() {}
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
	return redis.NewDiscountCache(client, cfg.Redis.CacheTTL), cleanup
}

// provideEventPublisher 图书事件发布器
func provideEventPublisher(cfg *config.Config, log zerolog.Logger) (appbook.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return appbook.NopPublisher{}, func() {}
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ不可用，图书事件不会发布")
		return appbook.NopPublisher{}, func() {}
	}

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	return messaging.NewEventPublisher(publisher, eventPublishTimeout, log), cleanup
}

// provideRouter 创建Gin引擎并注册路由
func provideRouter(cfg *config.Config, bookHandler *handler.BookHandler, log zerolog.Logger) *gin.Engine {
	return router.New(cfg, bookHandler, log)
}

// provideGRPCServer 未启用时返回nil
func provideGRPCServer(cfg *config.Config, log zerolog.Logger) *grpcserver.Server {
	if !cfg.GRPC.Enabled {
		return nil
	}
	return grpcserver.NewServer(log)
}
