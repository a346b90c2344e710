package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"farmequip-backoffice/internal/api/grpc/interceptor"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/security"
)

// Health service names, one per admin screen backend.
const (
	ServiceEquipment = "farmequip.equipment"
	ServiceBookings  = "farmequip.bookings"
	ServiceFarmers   = "farmequip.farmers"
	ServiceDashboard = "farmequip.dashboard"
)

// NewServer builds the gRPC server carrying the health and reflection
// services. Every screen starts NOT_SERVING until its first load reports in.
func NewServer(tokens security.TokenManager) (*grpc.Server, *health.Server) {
	auth := interceptor.NewAuthInterceptor(tokens)
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptor.Logging(), auth.Unary()),
		grpc.ChainStreamInterceptor(auth.Stream()),
	)

	hs := health.NewServer()
	for _, name := range []string{ServiceEquipment, ServiceBookings, ServiceFarmers, ServiceDashboard} {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	healthpb.RegisterHealthServer(s, hs)

	// Register reflection service for grpcurl. It needs an admin token.
	reflection.Register(s)
	return s, hs
}

// Report records the outcome of a screen load in the health server.
func Report(hs *health.Server, service string, err error) {
	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		logger.Warn("Screen load failed, reporting not serving", "service", service, "error", err)
	}
	hs.SetServingStatus(service, status)
}

// Loader is anything with a context-taking load step.
type Loader func(ctx context.Context) error

// LoadAndReport runs load and reports it under service.
func LoadAndReport(ctx context.Context, hs *health.Server, service string, load Loader) error {
	err := load(ctx)
	Report(hs, service, err)
	return err
}
