package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/config"
	"github.com/IfedayoAwe/corp-payment-gateway/db"
	"github.com/IfedayoAwe/corp-payment-gateway/handlers"
	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/IfedayoAwe/corp-payment-gateway/queue"
	"github.com/IfedayoAwe/corp-payment-gateway/routes"
	"github.com/IfedayoAwe/corp-payment-gateway/seeds"
	service "github.com/IfedayoAwe/corp-payment-gateway/services"
	"github.com/IfedayoAwe/corp-payment-gateway/utils"
	"github.com/spf13/cobra"

	echo "github.com/labstack/echo/v4"
)

var rootCmd = &cobra.Command{
	Use:           "corp-payment-gateway",
	Short:         "Corporate payment gateway",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

func main() {
	utils.InitLogger()
	logger := utils.Logger

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := utils.Logger
	cfg := config.Load()
	utils.SetLogLevel(cfg.LogLevel)
	utils.InitValidator()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed, err := loadSeed(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	var opts []service.Option

	var redisClient *utils.Redis
	if cfg.IdempotencyBackend == config.BackendRedis || cfg.HoldQueueBackend == config.BackendRedis {
		redisClient, err = utils.NewRedis(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("initialize redis: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("error closing redis")
			}
		}()
	}

	switch cfg.IdempotencyBackend {
	case config.BackendMemory:
	case config.BackendRedis:
		opts = append(opts, service.WithIdempotencyTracker(
			service.NewRedisIdempotencyTracker(redisClient.GetClient(), cfg.IdempotencyTTL)))
	default:
		return fmt.Errorf("unknown idempotency backend %q", cfg.IdempotencyBackend)
	}

	holdQueue, err := setupHoldQueue(&cfg, redisClient)
	if err != nil {
		return fmt.Errorf("initialize hold queue: %w", err)
	}
	defer func() {
		if err := holdQueue.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing hold queue")
		}
	}()
	opts = append(opts, service.WithHoldQueue(holdQueue))

	services, err := service.NewServices(&cfg, seed, opts...)
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}
	newHandlers := handlers.NewHandlers(services)

	services.StartWorkers(ctx)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = utils.HTTPErrorHandler

	routes.Register(e, &cfg, newHandlers)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	logger.Info().
		Str("port", port).
		Str("idempotency_backend", cfg.IdempotencyBackend).
		Str("hold_queue_backend", cfg.HoldQueueBackend).
		Strs("payment_modes", cfg.PaymentModes).
		Msg("Corporate Payment Gateway running")

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func loadSeed(ctx context.Context, cfg *config.Config) (*models.Seed, error) {
	switch cfg.SeedSource {
	case config.SeedSourceFile:
		if cfg.SeedFile == "" {
			return seeds.Default(cfg.PasswordHashCost)
		}
		return seeds.LoadFile(cfg.SeedFile, cfg.PasswordHashCost)

	case config.SeedSourcePostgres:
		conn, err := db.Open(cfg.DatabaseURL, db.DefaultDependencies)
		if err != nil {
			return nil, err
		}
		defer conn.Close()

		seed, err := db.LoadSeed(ctx, db.NewQuerier(conn))
		if err != nil {
			return nil, err
		}
		if err := seeds.Validate(seed); err != nil {
			return nil, err
		}
		return seed, nil

	default:
		return nil, fmt.Errorf("unknown seed source %q", cfg.SeedSource)
	}
}

func setupHoldQueue(cfg *config.Config, redisClient *utils.Redis) (queue.Queue, error) {
	switch cfg.HoldQueueBackend {
	case config.BackendNone:
		return queue.NewLogQueue(), nil
	case config.BackendRedis:
		return queue.NewRedisQueue(redisClient.GetClient()), nil
	case config.BackendRabbitMQ:
		return queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	default:
		return nil, fmt.Errorf("unknown hold queue backend %q", cfg.HoldQueueBackend)
	}
}
