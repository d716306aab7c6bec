package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T) (*Server, healthpb.HealthClient) {
	t.Helper()
	ln := bufconn.Listen(1 << 20)
	s := NewServer()
	go s.Serve(ln)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return ln.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		s.Stop()
	})
	return s, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.GetStatus()
}

func TestHealthStartsNotServing(t *testing.T) {
	_, c := startServer(t)
	for _, name := range []string{"", ServiceName} {
		if got := check(t, c, name); got != healthpb.HealthCheckResponse_NOT_SERVING {
			t.Fatalf("Check(%q) = %v, want NOT_SERVING", name, got)
		}
	}
}

func TestSetServing(t *testing.T) {
	s, c := startServer(t)

	s.SetServing(true)
	for _, name := range []string{"", ServiceName} {
		if got := check(t, c, name); got != healthpb.HealthCheckResponse_SERVING {
			t.Fatalf("Check(%q) = %v, want SERVING", name, got)
		}
	}

	s.SetServing(false)
	if got := check(t, c, ServiceName); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("Check after SetServing(false) = %v, want NOT_SERVING", got)
	}
}

func TestUnknownService(t *testing.T) {
	_, c := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: "snake.Unknown"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("Check(unknown) error = %v, want NotFound", err)
	}
}
