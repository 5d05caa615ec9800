package batch

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/procat-batch/internal/pkg/telemetry"
)

// NewServer creates a gRPC server with BatchService, the standard health
// service and reflection registered. Incoming trace context is extracted by
// the otelgrpc stats handler. tp may be nil.
func NewServer(h BatchServiceServer, tp trace.TracerProvider, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	otelOpts := []otelgrpc.Option{otelgrpc.WithPropagators(telemetry.Propagator())}
	if tp != nil {
		otelOpts = append(otelOpts, otelgrpc.WithTracerProvider(tp))
	}

	opts = append([]grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler(otelOpts...))}, opts...)
	srv := grpc.NewServer(opts...)

	RegisterBatchServiceServer(srv, h)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	healthSrv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	reflection.Register(srv)
	return srv, healthSrv
}
