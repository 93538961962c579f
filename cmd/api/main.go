//go:generate swag init -d ../.. -g cmd/api/main.go -o ../../docs

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/xiebiao/bookinventory/internal/infrastructure/config"
	"github.com/xiebiao/bookinventory/pkg/logger"
	"github.com/xiebiao/bookinventory/pkg/tracing"
)

// @title           Bookstore Inventory API
// @version         1.0
// @description     内存图书库存服务：图书增删改查、过滤和按类型的折扣总价
// @host            localhost:3000
// @BasePath        /
func main() {
	app := &cli.App{
		Name:  "bookstore-inventory",
		Usage: "图书库存HTTP服务",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（默认查找./config/config.yaml）",
				EnvVars: []string{"BOOKSTORE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "启动时导入的种子数据文件（覆盖seed.file）",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP端口（覆盖server.port）",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "启动HTTP服务（默认命令）",
				Action: serve,
			},
			{
				Name:   "config",
				Usage:  "打印生效的配置（YAML）",
				Action: printConfig,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serve 启动流程
// 配置 → 日志 → 链路追踪 → 依赖注入（Wire） → 运行直到收到SIGINT/SIGTERM
func serve(c *cli.Context) error {
	// 步骤1：加载配置，命令行参数优先
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("seed") {
		cfg.Seed.File = c.String("seed")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}

	// 步骤2：初始化日志
	log, closer, err := logger.New(cfg.Log.Logger())
	if err != nil {
		return err
	}
	defer closer.Close()
	zerolog.DefaultContextLogger = &log

	// 步骤3：链路追踪（失败不影响启动）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("初始化链路追踪失败")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Warn().Err(err).Msg("关闭链路追踪失败")
				}
			}()
		}
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 步骤4：依赖注入
	app, cleanup, err := InitializeApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	// 步骤5：运行
	return app.Run(ctx)
}

// printConfig 输出合并了默认值、配置文件和环境变量之后的配置
func printConfig(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if cfg.Redis.Password != "" {
		cfg.Redis.Password = "******"
	}

	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
