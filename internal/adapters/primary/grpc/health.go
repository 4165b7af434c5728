package grpc

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Warmer est l'annuaire d'auteurs vu par le health check
type Warmer interface {
	Warm(ctx context.Context) error
	Ready() bool
}

// HealthServer expose grpc.health.v1 : NOT_SERVING tant que l'annuaire n'est pas peuplé.
type HealthServer struct {
	grpcServer *grpc.Server
	health     *health.Server
	directory  Warmer
}

func NewHealthServer(directory Warmer) *HealthServer {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	reflection.Register(grpcServer)

	return &HealthServer{grpcServer: grpcServer, health: healthServer, directory: directory}
}

func (s *HealthServer) Server() *grpc.Server { return s.grpcServer }

// WarmUp peuple l'annuaire (avec nouvelle tentative périodique) puis passe en SERVING.
func (s *HealthServer) WarmUp(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if err := s.directory.Warm(ctx); err == nil && s.directory.Ready() {
			s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
			slog.Info("💚 Health status SERVING")
			return
		} else if err != nil {
			slog.Warn("Directory warm-up failed, will retry", "error", err, "in", every)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *HealthServer) Status() grpc_health_v1.HealthCheckResponse_ServingStatus {
	resp, err := s.health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_SERVICE_UNKNOWN
	}
	return resp.Status
}

func (s *HealthServer) Shutdown() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
