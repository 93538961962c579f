//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	appbook "github.com/xiebiao/bookinventory/internal/application/book"
	"github.com/xiebiao/bookinventory/internal/domain/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
	"github.com/xiebiao/bookinventory/internal/interface/http/handler"
)

// infrastructureSet 基础设施层：缓存、事件
var infrastructureSet = wire.NewSet(
	provideDiscountCache,
	provideEventPublisher,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	provideBookRepository,
)

// domainSet 领域层
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	appbook.NewChangeNotifier,
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewDiscountedPriceUseCase,
)

// interfaceSet 接口层：HTTP + gRPC
var interfaceSet = wire.NewSet(
	handler.NewBookHandler,
	provideRouter,
	provideGRPCServer,
)

// InitializeApp 组装整个应用
// 返回的cleanup负责关闭Redis、RabbitMQ连接
func InitializeApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
