package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/adapters/httpapi"
	"github.com/gragra33/blazing-mediator/internal/adapters/outbound"
	"github.com/gragra33/blazing-mediator/internal/adapters/persistence"
	"github.com/gragra33/blazing-mediator/internal/application/orders"
	"github.com/gragra33/blazing-mediator/internal/infrastructure/config"
	"github.com/gragra33/blazing-mediator/internal/infrastructure/database"
	"github.com/gragra33/blazing-mediator/middleware"
	"github.com/gragra33/blazing-mediator/statistics"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the orders REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg *config.Config) error {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger := mediator.NewConsoleLogger(log.New(os.Stdout, "", log.LstdFlags))

	var tracker *statistics.Tracker
	opts := []mediator.Option{
		mediator.WithLogger(logger),
		mediator.WithLogging(mediator.LoggingOptions{
			EnableSendLogging:       cfg.Mediator.Logging.Send,
			EnablePublishLogging:    cfg.Mediator.Logging.Publish,
			EnableStreamLogging:     cfg.Mediator.Logging.Stream,
			EnablePerformanceTiming: cfg.Mediator.Logging.Performance,
		}),
	}
	if cfg.Mediator.Statistics.Enabled {
		tracker = statistics.NewTracker(statistics.Options{
			RetentionWindow:  cfg.Mediator.Statistics.RetentionWindow,
			CleanupInterval:  cfg.Mediator.Statistics.CleanupInterval,
			DetailedTracking: cfg.Mediator.Statistics.DetailedTracking,
		})
		defer tracker.Stop()
		opts = append(opts, mediator.WithStatistics(tracker))
	}

	m := mediator.New(opts...)

	registry := prometheus.NewRegistry()
	collector := middleware.NewMetricsCollector("orders")
	if err := collector.Register(registry); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	if err := m.Use(middleware.Metrics(collector), mediator.WithOrder(10)); err != nil {
		return err
	}
	if err := m.Use(middleware.Validation(), mediator.WithOrder(20)); err != nil {
		return err
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimit.Requests), cfg.Server.RateLimit.Burst)
	if err := m.Use(middleware.RateLimit(limiter), mediator.WithOrder(30)); err != nil {
		return err
	}
	if err := m.UseNotification(middleware.NotificationLogging(logger), mediator.WithOrder(10)); err != nil {
		return err
	}

	err = orders.Register(m, orders.Services{
		Orders:    persistence.NewGormOrderRepository(db),
		Email:     &outbound.ConsoleEmailSender{Logger: logger},
		Inventory: &outbound.ConsoleInventoryService{Logger: logger},
		Audit:     &outbound.ConsoleAuditLog{Logger: logger},
	})
	if err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	api := httpapi.NewServer(m, tracker, registry)
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("orders API listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}
