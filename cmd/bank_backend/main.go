package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/core/services"
	"github.com/SscSPs/resource_bank/internal/dto"
	"github.com/SscSPs/resource_bank/internal/handlers"
	"github.com/SscSPs/resource_bank/internal/middleware"
	"github.com/SscSPs/resource_bank/internal/platform/config"
	"github.com/SscSPs/resource_bank/internal/platform/metrics"
	"github.com/SscSPs/resource_bank/internal/platform/seed"
	"github.com/SscSPs/resource_bank/internal/repositories/database/pgsql"
	"github.com/SscSPs/resource_bank/internal/repositories/memory"
	"github.com/SscSPs/resource_bank/internal/utils"
	"github.com/SscSPs/resource_bank/internal/worker"
	"github.com/SscSPs/resource_bank/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

const shutdownTimeout = 10 * time.Second

// @title Resource Bank API
// @version 1.0
// @description Prices resources against economy wealth and settles deposits, withdrawals and term instruments.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// hashPassword reads an admin password from in and prints its ADMIN_PASSWORD_HASH value.
func hashPassword(in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	hash, err := utils.HashAdminPassword(string(raw))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

// newLogger writes JSON logs to stdout, or to a rotating file when LOG_FILE is set.
func newLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	bankMetrics := metrics.Bank()
	engine := services.NewEngine(cfg)
	container := services.NewServiceContainer(cfg, repos, engine, services.WithMetrics(bankMetrics))

	if err := container.Market.LoadRates(ctx); err != nil {
		return err
	}
	if err := seedResources(ctx, cfg, repos, container.Market, container.History, logger); err != nil {
		return err
	}

	if err := dto.RegisterValidators(); err != nil {
		return err
	}

	router, err := newRouter(cfg, logger, bankMetrics, container)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	maturity := worker.NewMaturityWorker(container.Instrument, cfg.MaturityScanInterval, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return maturity.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStorage builds the repositories for the configured driver. The returned func
// releases them.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; state is lost on restart")
		return memory.NewStore(cfg.InitialTreasuryBalance).Provider(), func() {}, nil
	}

	if err := pgsql.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(pool, cfg.InitialTreasuryBalance), func() { database.ClosePgxPool(pool, logger) }, nil
}

func seedResources(ctx context.Context, cfg *config.Config, repos portsrepo.RepositoryProvider, rates seed.RateLoader, history seed.Snapshotter, logger *slog.Logger) error {
	file, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	seeder := &seed.Seeder{
		TxManager: repos.TxManager,
		Resources: repos.ResourceRepo,
		Rates:     rates,
		History:   history,
		Logger:    logger,
	}
	_, err = seeder.Apply(ctx, file)
	return err
}

func newRouter(cfg *config.Config, logger *slog.Logger, bankMetrics *metrics.BankMetrics, container *portssvc.ServiceContainer) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		metrics.GinMiddleware(bankMetrics),
		cors.New(corsConfig(cfg.CORSOrigins)),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		return nil, err
	}
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}
