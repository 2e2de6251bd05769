package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/tradeledger-backend/internal/adapter/grpc"
	"github.com/simaogato/tradeledger-backend/internal/adapter/repository/memory"
	"github.com/simaogato/tradeledger-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/tradeledger-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/tradeledger-backend/internal/adapter/rest"
	"github.com/simaogato/tradeledger-backend/internal/config"
	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/logging"
	"github.com/simaogato/tradeledger-backend/internal/usecase/ledger"
	"github.com/simaogato/tradeledger-backend/internal/usecase/report"
	"github.com/simaogato/tradeledger-backend/internal/usecase/seeder"
)

const (
	dbConnectAttempts = 5
	dbRetryDelay      = 2 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("failed to build logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

// run serves gRPC and HTTP until ctx is done or a server fails.
// Every resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (err error) {
	// Validated by config.Load
	profiles, _ := cfg.Profiles()
	locale, _ := cfg.Locale()

	// 1. Ledger store
	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s ledger store: %w", cfg.LedgerDriver, err)
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.Error().Err(cerr).Msg("failed to close ledger store")
		}
	}()

	// 2. Use cases
	if err := seeder.NewProfileSeeder(repo, profiles, logger).Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed stakeholder profiles: %w", err)
	}

	reportService := report.NewReportService(repo, locale, logger)
	ledgerService := ledger.NewLedgerService(repo, logger)

	// 3. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logging.Component(logger, "grpc")),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterLedgerServiceServer(grpcServer, grpcadapter.NewServer(reportService, ledgerService))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
	}

	// 4. HTTP server
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: rest.NewRouter(
			rest.RouterConfig{APIToken: cfg.APIToken, AllowedOrigins: cfg.CORSAllowedOrigins},
			reportService,
			ledgerService,
			logging.Component(logger, "http"),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 2)
	go func() {
		logger.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			serveErr <- err
		}
	}()
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err = <-serveErr:
		err = fmt.Errorf("server failed: %w", err)
	}
	shutdown(grpcServer, httpServer, cfg.ShutdownTimeout, logger)
	return err
}

// openStore opens the ledger store selected by LEDGER_DRIVER
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (domain.LedgerRepository, func() error, error) {
	switch cfg.LedgerDriver {
	case config.DriverPostgres:
		db, err := connectPostgres(ctx, cfg.PostgresConnString(), logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewLedgerRepository(db), db.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		logger.Warn().Msg("using in-memory ledger store; data is lost on exit")
		return memory.NewStore(), func() error { return nil }, nil
	}
}

// connectPostgres retries while the database container starts up
func connectPostgres(ctx context.Context, connStr string, logger zerolog.Logger) (*postgres.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		db, err := postgres.NewDB(connStr)
		if err == nil {
			return db, nil
		}
		lastErr = err
		logger.Warn().Err(err).Int("attempt", attempt).Msg("database not ready")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dbRetryDelay):
		}
	}
	return nil, lastErr
}

// shutdown stops both servers, forcing the gRPC server if draining takes too long
func shutdown(grpcServer *grpclib.Server, httpServer *http.Server, timeout time.Duration, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown")
	}
	logger.Info().Msg("HTTP server stopped")

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		grpcServer.Stop()
	}
	logger.Info().Msg("gRPC server stopped")
}
