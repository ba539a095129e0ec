package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/sensorlog/internal/readings"
	"github.com/chrissnell/sensorlog/pkg/config"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ReadingService answers the sensor queries served by the controller
type ReadingService interface {
	LastReading(ctx context.Context) (readings.Reading, error)
	HourlyReadings(ctx context.Context, date string) ([]readings.HourlyBucket, error)
	DailyAverages(ctx context.Context, days string) ([]readings.DailyBucket, error)
}

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	service    ReadingService
	logger     *zap.SugaredLogger
	handlers   *Handlers
	limiter    *clientLimiter
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData, svc ReadingService, logger *zap.SugaredLogger) (*Controller, error) {
	if svc == nil {
		return nil, fmt.Errorf("REST server requires a reading service")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Infof("rest.listen_addr not provided; defaulting to %s (all interfaces)", config.DefaultListenAddr)
		rc.ListenAddr = config.DefaultListenAddr
	}

	if rc.Port == 0 {
		logger.Infof("rest.port not provided; defaulting to %d", config.DefaultHTTPPort)
		rc.Port = config.DefaultHTTPPort
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		service:    svc,
		logger:     logger,
	}

	if rc.RateLimit.RequestsPerSecond > 0 {
		trusted, err := rc.RateLimit.TrustedProxyPrefixes()
		if err != nil {
			return nil, err
		}
		ctrl.limiter = newClientLimiter(rc.RateLimit.RequestsPerSecond, rc.RateLimit.Burst, trusted)
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = ctrl.Handler()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	c.logger.Infof("Starting REST server controller on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.restConfig.TLSCertPath != "" && c.restConfig.TLSKeyPath != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.TLSCertPath, c.restConfig.TLSKeyPath); err != http.ErrServerClosed {
				c.logger.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				c.logger.Errorf("REST server error: %v", err)
			}
		}
	}()

	if c.limiter != nil {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.limiter.janitor(c.ctx, time.Minute)
		}()
	}

	go func() {
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Handler returns the complete HTTP handler: router wrapped in middleware
func (c *Controller) Handler() http.Handler {
	return c.withMiddleware(c.setupRouter())
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/last-reading", c.handlers.GetLastReading).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/hourly-readings", c.handlers.GetHourlyReadings).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/daily-averages", c.handlers.GetDailyAverages).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet, http.MethodHead)

	router.NotFoundHandler = http.HandlerFunc(c.handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(c.handlers.MethodNotAllowed)

	return router
}
