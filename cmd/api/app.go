package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	appbook "github.com/xiebiao/bookinventory/internal/application/book"
	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
	"github.com/xiebiao/bookinventory/internal/infrastructure/seed"
	"github.com/xiebiao/bookinventory/internal/interface/grpcserver"
)

const defaultShutdownTimeout = 5 * time.Second

// App HTTP服务 + 可选的gRPC健康检查服务
type App struct {
	cfg     *config.Config
	engine  *gin.Engine
	grpc    *grpcserver.Server
	creator seed.Creator
	log     zerolog.Logger

	// onReady 端口监听成功后回调（测试用）
	onReady func(httpAddr string)
}

func newApp(cfg *config.Config, engine *gin.Engine, grpcSrv *grpcserver.Server, createBook *appbook.CreateBookUseCase, log zerolog.Logger) *App {
	return &App{
		cfg:     cfg,
		engine:  engine,
		grpc:    grpcSrv,
		creator: createBook,
		log:     log,
	}
}

// Seed 导入种子数据，任意一条失败即返回错误
func (a *App) Seed(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	payloads, err := seed.ReadFile(path)
	if err != nil {
		return err
	}

	n, err := seed.Apply(ctx, a.creator, payloads)
	if err != nil {
		return err
	}
	a.log.Info().Str("file", path).Int("books", n).Msg("种子数据导入完成")
	return nil
}

// Run 启动服务并阻塞，ctx取消后优雅关闭
// 步骤：
// 1. 导入种子数据
// 2. 监听HTTP（以及gRPC）端口
// 3. 等待ctx取消或任一服务异常退出
// 4. 在ShutdownTimeout内关闭所有服务
func (a *App) Run(ctx context.Context) error {
	// 步骤1：种子数据
	if err := a.Seed(ctx, a.cfg.Seed.File); err != nil {
		return err
	}

	// 步骤2：监听端口（同步监听，端口占用时直接返回错误）
	httpLis, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("监听HTTP端口失败: %w", err)
	}
	httpServer := &http.Server{
		Handler:      a.engine,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	var grpcLis net.Listener
	if a.grpc != nil {
		grpcLis, err = net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.GRPC.Port))
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("监听gRPC端口失败: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("addr", httpLis.Addr().String()).Msg("HTTP服务启动")
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP服务异常退出: %w", err)
		}
		return nil
	})

	if a.grpc != nil {
		g.Go(func() error {
			return a.grpc.Serve(grpcLis)
		})
	}

	if a.onReady != nil {
		a.onReady(httpLis.Addr().String())
	}

	// 步骤3/4：等待退出信号，然后优雅关闭
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("收到关闭信号，开始优雅关闭")

		timeout := a.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if a.grpc != nil {
			a.grpc.Shutdown(shutdownCtx)
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP服务关闭失败: %w", err)
		}
		a.log.Info().Msg("服务已安全关闭")
		return nil
	})

	return g.Wait()
}
