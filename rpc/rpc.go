// Package rpc exposes the arena to infrastructure tooling over gRPC. It
// serves the standard grpc.health.v1 service so load balancers and
// orchestrators can probe the tick loop.
package rpc

import (
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check name of the arena. The empty name reports
// the status of the whole server.
const ServiceName = "snake.Arena"

type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

// NewServer registers the health and reflection services. Both names start
// out NOT_SERVING until SetServing(true).
func NewServer(opts ...grpc.ServerOption) *Server {
	s := &Server{
		grpc:   grpc.NewServer(opts...),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)
	s.SetServing(false)
	return s
}

// SetServing flips both the server-wide and the arena status.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve blocks until Stop is called or ln fails.
func (s *Server) Serve(ln net.Listener) error {
	log.Printf("RPC: Serving gRPC health on %s", ln.Addr())
	return s.grpc.Serve(ln)
}

// Stop marks every service NOT_SERVING, then drains in-flight RPCs.
// Watch streams are told about the change before they are closed.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
	log.Printf("RPC: gRPC server stopped.")
}
