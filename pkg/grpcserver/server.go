// Package grpcserver hosts the gRPC endpoint used by internal tooling for
// health probes. Reflection is enabled so grpcurl works out of the box.
package grpcserver

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/shashiranjanraj/maplecart/pkg/logger"
)

// Server wraps a grpc.Server with health and reflection services registered.
type Server struct {
	srv    *grpc.Server
	health *health.Server
}

// New builds a server with the health and reflection services registered.
func New() *Server {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return &Server{srv: srv, health: hs}
}

// Start listens on the given port and serves until Stop is called.
// It blocks, so run it in a goroutine.
func (s *Server) Start(port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	logger.Info("grpc server listening", "port", port)
	return s.srv.Serve(lis)
}

// Stop marks the health service as not serving and gracefully drains
// in-flight RPCs.
func (s *Server) Stop() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.srv.GracefulStop()
}
