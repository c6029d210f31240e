package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"slot-booking-api/internal/booking"
	"slot-booking-api/internal/handler"
	"slot-booking-api/internal/middleware"
	"slot-booking-api/internal/rpc"
)

type Deps struct {
	Service *booking.Service
	// Health reports store readiness; nil means always healthy.
	Health  func(context.Context) error
	Limiter *middleware.RateLimiter
	Log     *zap.Logger

	// browser origins allowed to call the API; "*" allows any
	CORSOrigins    []string
	// proxies allowed to set the client IP via X-Forwarded-For; nil trusts none
	TrustedProxies []string
}

// NewRouter builds the HTTP API.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	// the client IP keys the rate limiter, so forwarded headers only count
	// when they come from a known proxy
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		d.Log.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Log),
		middleware.Recovery(d.Log),
		cors.New(cors.Config{
			AllowOrigins:  origins(d.CORSOrigins),
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	h := handler.New(d.Service, d.Health)
	r.GET("/", h.Root)
	r.GET("/bookings", h.ListBookings)
	r.GET("/availability", h.Availability)
	r.POST("/book", middleware.RateLimit(d.Limiter), h.Book)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func origins(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}

// NewGRPC builds the gRPC server with the booking and health services.
func NewGRPC(d Deps) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.ObserveUnary(d.Log),
			middleware.RateLimitUnary(d.Limiter, rpc.MethodCreateBooking),
		),
	)
	rpc.Register(srv, rpc.NewServer(d.Service, d.Log))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return srv, hs
}

type Server struct {
	http     *http.Server
	grpc     *grpc.Server
	health   *health.Server
	grpcAddr string
	log      *zap.Logger
}

// New listens on all interfaces: HTTP on httpPort, gRPC on grpcPort.
func New(httpPort, grpcPort string, d Deps) *Server {
	gs, hs := NewGRPC(d)
	return &Server{
		http: &http.Server{
			Addr:              ":" + httpPort,
			Handler:           NewRouter(d),
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpc:     gs,
		health:   hs,
		grpcAddr: ":" + grpcPort,
		log:      d.Log,
	}
}

// SetServing flips the gRPC health status for the booking service.
func (s *Server) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(rpc.ServiceName, st)
}

// Run serves until ctx is cancelled or a listener fails, then shuts both
// servers down within shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	lis, err := net.Listen("tcp", s.grpcAddr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		s.log.Info("grpc listening", zap.String("addr", lis.Addr().String()))
		if err := s.grpc.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		s.log.Info("http listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.log.Info("shutting down")
	s.health.Shutdown()

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(sctx); err != nil {
		s.log.Error("http shutdown", zap.Error(err))
	}

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-sctx.Done():
		s.grpc.Stop()
	}
	return runErr
}
