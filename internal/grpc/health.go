package grpc

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"dating-service/internal/observability"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer reports SERVING while the database answers pings.
type HealthServer struct {
	health   *health.Server
	pinger   Pinger
	service  string
	interval time.Duration

	mu     sync.Mutex
	status healthpb.HealthCheckResponse_ServingStatus
}

// NewHealthServer builds a HealthServer for service. The status starts as
// NOT_SERVING until the first successful ping.
func NewHealthServer(pinger Pinger, service string, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	h := &HealthServer{
		health:   health.NewServer(),
		pinger:   pinger,
		service:  service,
		interval: interval,
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// NewServer returns a gRPC server with metrics and tracing attached and the
// health service registered.
func NewServer(h *HealthServer) *grpc.Server {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(observability.GRPCServerMetricsUnaryInterceptor()),
	)
	healthpb.RegisterHealthServer(server, h.health)
	return server
}

// Refresh pings the database once and updates the status.
func (h *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()

	if err := h.pinger.PingContext(ctx); err != nil {
		if h.set(healthpb.HealthCheckResponse_NOT_SERVING) {
			slog.Warn("database ping failed", "error", err)
		}
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	if h.set(healthpb.HealthCheckResponse_SERVING) {
		slog.Info("database reachable")
	}
	return healthpb.HealthCheckResponse_SERVING
}

// Run pings the database on every interval until ctx is done, then reports NOT_SERVING.
func (h *HealthServer) Run(ctx context.Context) {
	h.Refresh(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}

// set records status for both the named service and the server as a whole.
// It reports whether the status changed.
func (h *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	changed := h.status != status
	h.status = status
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(h.service, status)
	return changed
}
