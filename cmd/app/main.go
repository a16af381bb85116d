package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orders/cmd"
	"orders/internal/adapters/out/kafka"
	"orders/internal/adapters/out/postgres"
	"orders/internal/pkg/clock"
	"orders/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file loaded, using process environment")
	}

	configs, err := cmd.LoadConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.NewSystem()
	m := metrics.New(prometheus.DefaultRegisterer)

	storage, err := openStorage(configs, clk, logger)
	if err != nil {
		log.Fatalf("Failed to open order store: %v", err)
	}

	broker, closeBroker := openBroker(ctx, configs, m, logger)
	defer closeBroker()

	app := cmd.NewCompositionRoot(configs, storage, broker, m, clk, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, stop, app, configs.HTTPPort, logger)
}

func openStorage(configs cmd.Config, clk clock.Clock, logger *slog.Logger) (cmd.Storage, error) {
	if !configs.UsePostgres() {
		logger.Warn("DB_HOST is not set, orders are kept in memory")
		return cmd.NewMemoryStorage(), nil
	}

	db, err := gorm.Open(gorm_postgres.Open(configs.PostgresDSN()), &gorm.Config{})
	if err != nil {
		return cmd.Storage{}, fmt.Errorf("connect: %w", err)
	}
	if err = postgres.Migrate(db); err != nil {
		return cmd.Storage{}, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("Order store ready", "backend", "postgres", "host", configs.DBHost, "db", configs.DBName)
	return cmd.NewPostgresStorage(db, clk), nil
}

func openBroker(ctx context.Context, configs cmd.Config, m *metrics.Metrics, logger *slog.Logger) (cmd.Broker, func()) {
	client := kafka.NewClient(configs.KafkaBrokers)
	writer := client.NewWriter()

	hostname, err := os.Hostname()
	if err != nil {
		logger.Warn("Hostname unavailable, using a random reply group", "error", err)
	}
	group := configs.ReplyGroup(hostname)
	logger.Info("Pricing reply group", "group", group)
	reader := client.NewReader(configs.PricingReplyTopic, group)

	gateway := kafka.NewPricingGateway(kafka.PricingConfig{
		Exchange:   configs.ProductExchange,
		RoutingKey: configs.PriceRoutingKey,
		ReplyTopic: configs.PricingReplyTopic,
		Timeout:    configs.PricingTimeout,
	}, writer, reader, m, logger)

	go func() {
		if err := gateway.Run(ctx); err != nil {
			logger.Error("Pricing reply consumer stopped", "error", err)
		}
	}()

	broker := cmd.Broker{
		Pricing: gateway,
		Notifier: kafka.NewNotifier(kafka.NotifierConfig{
			Exchange:   configs.NotificationExchange,
			RoutingKey: configs.OrderCreatedRoutingKey,
		}, writer),
		Inventory: kafka.NewInventoryPublisher(kafka.InventoryConfig{
			Exchange:          configs.ProductExchange,
			ReserveRoutingKey: configs.ReserveRoutingKey,
			RestoreRoutingKey: configs.RestoreRoutingKey,
		}, writer),
	}

	return broker, func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close pricing reader", "error", err)
		}
		if err := writer.Close(); err != nil {
			logger.Error("Failed to close kafka writer", "error", err)
		}
	}
}

func startWebServer(ctx context.Context, stop context.CancelFunc, app cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	app.CreateHTTPServer().Register(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
