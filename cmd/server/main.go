package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slot-booking-api/internal/booking"
	"slot-booking-api/internal/config"
	"slot-booking-api/internal/events"
	"slot-booking-api/internal/logger"
	"slot-booking-api/internal/middleware"
	"slot-booking-api/internal/server"
	"slot-booking-api/internal/store"
)

type bookingStore interface {
	booking.Store
	Ping(ctx context.Context) error
}

type publisher interface {
	booking.Publisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// database
	st, bootstrap, closeStore := openStore(ctx, cfg, zl)
	defer closeStore()
	ready := server.NewReadiness(st.Ping, bootstrap, zl)

	// events
	var pub publisher = events.Noop{}
	if cfg.RabbitURL != "" {
		p, err := events.NewPublisher(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			zl.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		} else {
			zl.Info("publishing booking events", zap.String("exchange", cfg.BookingExchange))
			pub = p
		}
	}
	defer func() { _ = pub.Close() }()

	rl := middleware.NewRateLimiter(cfg.BookRateLimitRPS, cfg.BookRateLimitBurst)
	defer rl.Stop()

	srv := server.New(cfg.Port, cfg.GRPCPort, server.Deps{
		Service:        booking.NewService(st, pub, zl),
		Health:         ready.Check,
		Limiter:        rl,
		Log:            zl,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
	})
	ready.OnChange(srv.SetServing)

	// an unreachable database leaves the process up in degraded mode; the
	// watcher brings it to ready once the database answers
	cctx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	_ = ready.Check(cctx)
	cancel()
	go ready.Watch(ctx, cfg.ReadinessInterval)

	if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
		zl.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// openStore builds the configured store without touching the network. The
// returned bootstrap is nil for stores without a schema.
func openStore(ctx context.Context, cfg config.Config, zl *zap.Logger) (bookingStore, func(context.Context) error, func()) {
	if cfg.Store == "memory" {
		zl.Info("using in-memory store")
		return store.NewMemory(), nil, func() {}
	}

	pcfg, err := store.ParseConfig(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBConnectTimeout)
	if err != nil {
		zl.Fatal("database config", zap.Error(err))
	}
	st, err := store.Open(ctx, pcfg)
	if err != nil {
		zl.Fatal("database pool", zap.Error(err))
	}
	zl.Info("postgres pool created", zap.String("host", pcfg.ConnConfig.Host), zap.String("database", pcfg.ConnConfig.Database))
	return st, st.Bootstrap, st.Close
}
