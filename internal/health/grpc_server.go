package health

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"tagnote/pkg/logger"
)

// Константы для логирования.
const (
	LogServerStarting = "starting gRPC health server"
	LogServerStarted  = "gRPC health server started"
	LogServerStopping = "stopping gRPC health server"
	LogServerStopped  = "gRPC health server stopped"
	LogStatusChanged  = "health status changed"
	ErrServerStart    = "failed to start gRPC health server"
)

// ServiceName имя сервиса в grpc.health.v1 дополнительно к общему статусу "".
const ServiceName = "tagnote"

// DefaultCheckInterval период обновления статуса.
const DefaultCheckInterval = 10 * time.Second

// Server gRPC сервер, публикующий grpc.health.v1 со статусом из Checker.
type Server struct {
	checker  *Checker
	interval time.Duration
	server   *grpc.Server
	health   *health.Server

	mu      sync.Mutex
	serving bool
	stop    chan struct{}
}

// NewServer создает сервер. До первой проверки статус NOT_SERVING.
func NewServer(checker *Checker, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}

	s := &Server{
		checker:  checker,
		interval: interval,
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		stop:     make(chan struct{}),
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	return s
}

// Refresh выполняет проверки и обновляет статус.
func (s *Server) Refresh(ctx context.Context) Report {
	report := s.checker.Check(ctx)

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if report.Healthy {
		status = healthpb.HealthCheckResponse_SERVING
	}

	s.mu.Lock()
	changed := s.serving != report.Healthy
	s.serving = report.Healthy
	s.mu.Unlock()

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)

	if changed {
		logger.Log(ctx).Info(ctx, LogStatusChanged, zap.Stringer("status", status), zap.Any("checks", report.Checks))
	}
	return report
}

// Start начинает принимать соединения на address и периодически обновлять статус.
func (s *Server) Start(ctx context.Context, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrServerStart, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrServerStart, err)
	}
	s.Serve(ctx, listener)
	return nil
}

// Serve начинает принимать соединения на listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) {
	log := logger.Log(ctx)
	log.Info(ctx, LogServerStarting, zap.String("address", listener.Addr().String()))

	s.Refresh(ctx)

	go func() {
		if err := s.server.Serve(listener); err != nil {
			log.Error(ctx, ErrServerStart, zap.Error(err))
		}
	}()
	go s.loop(ctx)

	log.Info(ctx, LogServerStarted, zap.String("address", listener.Addr().String()))
}

func (s *Server) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Stop переводит статус в NOT_SERVING и останавливает сервер. Если ctx истекает
// раньше завершения активных вызовов, соединения закрываются принудительно.
func (s *Server) Stop(ctx context.Context) {
	log := logger.Log(ctx)
	log.Info(ctx, LogServerStopping)

	s.mu.Lock()
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.mu.Unlock()

	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		s.server.Stop()
	}

	log.Info(ctx, LogServerStopped)
}
