package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ipresolver/internal/cidr"
	"ipresolver/internal/config"
	"ipresolver/internal/handler"
	"ipresolver/internal/repository"
	"ipresolver/internal/resolver"
	"ipresolver/internal/service"
)

var (
	lastLogTime atomic.Value
	logMutex    sync.Mutex
)

func init() {
	lastLogTime.Store(time.Now())
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API backed by Postgres and Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			serve(cmd.Context(), cfg, logger)
			return nil
		},
	}
}

func serve(parent context.Context, cfg *config.Config, logger *zap.Logger) {
	logger.Info("Starting up server...")

	// Initialize PostgreSQL connection
	db, err := sqlx.Connect("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Initialize Redis connection
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to parse Redis URL", zap.Error(err))
	}

	redisClient := redis.NewClient(opt)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	postgresRepo := repository.NewPostgresRepository(db, logger)
	if err := postgresRepo.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to prepare database schema", zap.Error(err))
	}
	redisCache := repository.NewRedisCache(redisClient, cfg.CacheTTL, logger)

	addressResolver := resolver.NewResolver(cidr.NewParser(), logger)
	resolveService := service.NewResolveService(
		addressResolver,
		postgresRepo,
		redisCache,
		cfg,
		logger,
	)
	batchResolver := service.NewBatchResolver(resolveService, logger)

	if err := resolveService.Start(ctx); err != nil {
		logger.Fatal("Failed to start resolve service", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestLogger(logger))

	h := handler.NewHandler(resolveService, batchResolver, logger)
	h.RegisterRoutes(app)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		if err := app.Listen(cfg.ServerPort); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-sigChan
	logger.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
	}
}

// requestLogger always logs failed or slow requests and samples the rest at
// most once every 10 seconds.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		if err != nil || latency > 100*time.Millisecond || c.Response().StatusCode() != 200 {
			logger.Info("request",
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", latency),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return err
		}

		last := lastLogTime.Load().(time.Time)
		if time.Since(last) >= 10*time.Second {
			logMutex.Lock()
			// Double-check after acquiring lock
			if time.Since(lastLogTime.Load().(time.Time)) >= 10*time.Second {
				logger.Info("sampled_request",
					zap.Int("status", c.Response().StatusCode()),
					zap.Duration("latency", latency),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
				)
				lastLogTime.Store(time.Now())
			}
			logMutex.Unlock()
		}

		return err
	}
}
