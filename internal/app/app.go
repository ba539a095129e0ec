package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/sensorlog/internal/controllers/restserver"
	"github.com/chrissnell/sensorlog/internal/readings"
	"github.com/chrissnell/sensorlog/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// NewService builds the query service described by the configuration
func NewService(cfg *config.ConfigData, logger *zap.SugaredLogger) (*readings.Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return readings.NewService(
		readings.NewFileSource(cfg.Sensor.LogFile),
		readings.SystemClock{Location: loc},
		logger.Named("readings"),
		readings.WithMaxDays(cfg.Sensor.MaxDays),
	), nil
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if _, err := os.Stat(a.cfg.Sensor.LogFile); err != nil {
		// The logger process may not have created it yet; queries will report it
		a.logger.Warnf("sensor log %s is not readable yet: %v", a.cfg.Sensor.LogFile, err)
	}

	svc, err := NewService(a.cfg, a.logger)
	if err != nil {
		return err
	}

	ctrl, err := restserver.NewController(ctx, &wg, a.cfg.REST, svc, a.logger.Named("rest"))
	if err != nil {
		return fmt.Errorf("could not create REST server: %w", err)
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	a.logger.Infow("Application started successfully", "sensor_log", a.cfg.Sensor.LogFile, "addr", ctrl.Server.Addr)

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		a.logger.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	a.logger.Info("waiting for all workers to terminate...")
	wg.Wait()
	a.logger.Info("shutdown complete")

	return nil
}
