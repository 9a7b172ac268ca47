package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/health/dto"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) PingContext(ctx context.Context) error { return m.err }

type mockChecker struct {
	resp *dto.HealthResponse
	err  error
}

func (m *mockChecker) Check(ctx context.Context) (*dto.HealthResponse, error) { return m.resp, m.err }

func status(t *testing.T, hs *health.Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestRefresh(t *testing.T) {
	today := time.Now().UTC()

	tests := []struct {
		name        string
		pingErr     error
		resp        *dto.HealthResponse
		checkErr    error
		wantOverall healthpb.HealthCheckResponse_ServingStatus
		wantBatch   healthpb.HealthCheckResponse_ServingStatus
	}{
		{
			name:        "fresh",
			resp:        &dto.HealthResponse{LastBatchAt: &today},
			wantOverall: healthpb.HealthCheckResponse_SERVING,
			wantBatch:   healthpb.HealthCheckResponse_SERVING,
		},
		{
			name:        "stale",
			resp:        &dto.HealthResponse{IsStale: true},
			wantOverall: healthpb.HealthCheckResponse_SERVING,
			wantBatch:   healthpb.HealthCheckResponse_NOT_SERVING,
		},
		{
			name:        "database down",
			pingErr:     errors.New("connection refused"),
			checkErr:    errors.New("failed to check health"),
			wantOverall: healthpb.HealthCheckResponse_NOT_SERVING,
			wantBatch:   healthpb.HealthCheckResponse_NOT_SERVING,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := health.NewServer()
			r := NewStatusRefresher(hs, &mockPinger{err: tt.pingErr}, &mockChecker{resp: tt.resp, err: tt.checkErr}, zerolog.Nop())

			r.Refresh(context.Background())

			assert.Equal(t, tt.wantOverall, status(t, hs, ""))
			assert.Equal(t, tt.wantBatch, status(t, hs, BatchService))
		})
	}
}

func TestGRPCServer_ServesHealth(t *testing.T) {
	hs := health.NewServer()
	r := NewStatusRefresher(hs, &mockPinger{}, &mockChecker{resp: &dto.HealthResponse{IsStale: true}}, zerolog.Nop())
	r.Refresh(context.Background())

	lis := bufconn.Listen(1 << 20)
	server := NewGRPCServer(hs)
	go func() { _ = server.Serve(lis) }()
	defer server.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: BatchService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestStop_MarksNotServing(t *testing.T) {
	hs := health.NewServer()
	r := NewStatusRefresher(hs, &mockPinger{}, &mockChecker{resp: &dto.HealthResponse{}}, zerolog.Nop())

	r.Start()
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, hs, ""))

	r.Stop()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, hs, ""))
}
