// Package grpcserver 运维用gRPC端口
//
// 只提供两类服务：
// 1. grpc.health.v1.Health（K8s gRPC探针、服务网格健康检查）
// 2. 服务反射（grpcurl调试）
//
// 业务接口仍然只走HTTP。
package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/xiebiao/bookinventory/pkg/logger"
)

// ServiceName 健康检查中登记的服务名
const ServiceName = "bookstore.inventory"

// Server gRPC服务器
type Server struct {
	server *grpc.Server
	health *health.Server
	log    zerolog.Logger
}

// NewServer 创建gRPC服务器
// 创建后整体状态和ServiceName都是SERVING
func NewServer(log zerolog.Logger) *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(unaryLogger(log)),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	// 注册反射服务（用于grpcurl调试）
	reflection.Register(srv)

	return &Server{server: srv, health: hs, log: log}
}

// ListenAndServe 监听端口并阻塞处理请求
func (s *Server) ListenAndServe(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("监听gRPC端口失败: %w", err)
	}
	return s.Serve(lis)
}

// Serve 在指定listener上处理请求
// GracefulStop之后返回nil
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info().Str("addr", lis.Addr().String()).Msg("gRPC服务启动")
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// SetServing 切换ServiceName的健康状态
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
}

// Shutdown 优雅关闭
// 1. 所有服务标记为NOT_SERVING（探针立即感知）
// 2. 等待进行中的请求完成；ctx到期则强制停止
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.server.Stop()
		<-done
	}
}

// unaryLogger 一元调用访问日志
func unaryLogger(base zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		log := logger.FromContext(ctx, base)
		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		}
		event.
			Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Dur("latency", time.Since(start)).
			Msg("grpc request")

		return resp, err
	}
}
