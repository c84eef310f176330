package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/zynerotech/apiserver/api"
	"github.com/zynerotech/apiserver/database"
	"github.com/zynerotech/apiserver/healthcheck"
	"github.com/zynerotech/apiserver/logger"
	"github.com/zynerotech/apiserver/metrics"
	"github.com/zynerotech/apiserver/notify"
	"github.com/zynerotech/apiserver/response"
	"github.com/zynerotech/apiserver/server"
)

// ErrNoServer is returned when routes or Run need an HTTP server that was not built.
var ErrNoServer = errors.New("app: HTTP server is not configured")

// ConfigProvider describes configuration required to bootstrap the
// application. Only the logger is mandatory.
type ConfigProvider interface {
	Validate() error
	LoggerConfig() logger.Config
}

// OptionalConfigProvider describes optional configuration methods. A method
// returning nil means the component is not needed.
type OptionalConfigProvider interface {
	MetricsConfig() *metrics.Config
	HealthcheckConfig() *healthcheck.Config
	ServerConfig() *server.Config
	DatabaseConfig() *database.Config
	NotifyConfig() *notify.Config
}

// App contains the initialized components. Only Logger is guaranteed to be
// present, other components may be nil.
type App struct {
	Config      ConfigProvider
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
	Healthcheck *healthcheck.Healthcheck
	Server      *server.Server
	Database    *database.Database
	Hub         *notify.Hub
	Relay       *notify.RedisRelay
	Broadcaster *notify.Broadcaster

	stopRelay context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// AppBuilder provides a fluent interface for building App instances
type AppBuilder struct {
	config      ConfigProvider
	logger      *logger.Logger
	metrics     *metrics.Metrics
	healthcheck *healthcheck.Healthcheck
	server      *server.Server
	database    *database.Database
	hub         *notify.Hub
	relay       *notify.RedisRelay
	broadcaster *notify.Broadcaster
	stopRelay   context.CancelFunc
	routes      bool
	errors      []error
}

// NewBuilder creates a new AppBuilder with the given configuration
func NewBuilder(cfg ConfigProvider) *AppBuilder {
	return &AppBuilder{
		config: cfg,
		errors: make([]error, 0),
	}
}

// initOptionalComponent initializes optional component based on configuration
// provided by OptionalConfigProvider. It appends initialization errors to the
// builder and logs successful initialization.
func initOptionalComponent[T any, C any](b *AppBuilder, field *T, getCfg func(OptionalConfigProvider) *C, initFn func(C) (T, error), name, successMsg string) {
	optCfg, ok := b.config.(OptionalConfigProvider)
	if !ok {
		return
	}

	cfg := getCfg(optCfg)
	if cfg == nil {
		return
	}

	component, err := initFn(*cfg)
	if err != nil {
		b.errors = append(b.errors, fmt.Errorf("init %s: %w", name, err))
		return
	}

	*field = component
	logger.Info().Msg(successMsg)
}

// failed сообщает, были ли ошибки на предыдущих шагах
func (b *AppBuilder) failed() bool {
	return len(b.errors) > 0
}

// WithLogger validates the configuration and initializes the logger
// (required component).
func (b *AppBuilder) WithLogger() *AppBuilder {
	if b.logger != nil {
		return b
	}

	if err := b.config.Validate(); err != nil {
		b.errors = append(b.errors, err)
		return b
	}

	l, err := logger.New(b.config.LoggerConfig())
	if err != nil {
		b.errors = append(b.errors, fmt.Errorf("init logger: %w", err))
		return b
	}

	logger.SetGlobal(l)
	b.logger = l
	logger.Info().Str("level", l.Level().String()).Msg("Logger initialized")
	return b
}

// WithDatabase connects to the store and blocks until the connection is
// verified. Nothing after it is initialized when the connection fails.
func (b *AppBuilder) WithDatabase(ctx context.Context) *AppBuilder {
	if b.database != nil || b.failed() {
		return b
	}
	initOptionalComponent(b, &b.database, func(o OptionalConfigProvider) *database.Config { return o.DatabaseConfig() }, func(cfg database.Config) (*database.Database, error) {
		logger.Info().Msg(response.MessageDBPending)
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg(response.MessageDBError)
			return nil, err
		}
		return db, nil
	}, "database", response.MessageDBSuccess)
	return b
}

// WithMetrics initializes metrics if configuration is provided
func (b *AppBuilder) WithMetrics() *AppBuilder {
	if b.metrics != nil || b.failed() {
		return b
	}
	initOptionalComponent(b, &b.metrics, func(o OptionalConfigProvider) *metrics.Config { return o.MetricsConfig() }, func(cfg metrics.Config) (*metrics.Metrics, error) {
		return metrics.New(cfg, b.logger)
	}, "metrics", "Metrics initialized")
	return b
}

// WithHealthcheck initializes healthcheck if configuration is provided.
// The database, when connected, is pinged on every check.
func (b *AppBuilder) WithHealthcheck() *AppBuilder {
	if b.healthcheck != nil || b.failed() {
		return b
	}
	initOptionalComponent(b, &b.healthcheck, func(o OptionalConfigProvider) *healthcheck.Config { return o.HealthcheckConfig() }, func(cfg healthcheck.Config) (*healthcheck.Healthcheck, error) {
		var pinger healthcheck.Pinger
		if b.database != nil {
			pinger = b.database
		}
		return healthcheck.New(cfg, pinger, b.logger)
	}, "healthcheck", "Healthcheck initialized")
	return b
}

// WithServer initializes HTTP server if configuration is provided
func (b *AppBuilder) WithServer() *AppBuilder {
	if b.server != nil || b.failed() {
		return b
	}
	initOptionalComponent(b, &b.server, func(o OptionalConfigProvider) *server.Config { return o.ServerConfig() }, func(cfg server.Config) (*server.Server, error) {
		s, err := server.New(cfg, b.logger)
		if err != nil {
			return nil, err
		}
		if b.metrics != nil {
			s.App().Use(b.metrics.FiberMiddleware())
		}
		return s, nil
	}, "server", "HTTP server initialized")
	return b
}

// WithNotifier creates the WebSocket hub and starts the broadcaster on it.
// With a Redis URL configured, alerts go through the Redis relay instead.
func (b *AppBuilder) WithNotifier(ctx context.Context) *AppBuilder {
	if b.broadcaster != nil || b.failed() {
		return b
	}
	initOptionalComponent(b, &b.broadcaster, func(o OptionalConfigProvider) *notify.Config { return o.NotifyConfig() }, func(cfg notify.Config) (*notify.Broadcaster, error) {
		hub := notify.NewHub(cfg, b.logger)
		var emitter notify.Emitter = hub

		if cfg.RedisURL != "" {
			relay, err := notify.NewRedisRelay(ctx, cfg, hub, b.logger)
			if err != nil {
				return nil, err
			}
			relayCtx, cancel := context.WithCancel(context.Background())
			go func() {
				if err := relay.Run(relayCtx); err != nil {
					logger.Error().Err(err).Msg("Redis relay stopped")
				}
			}()
			b.relay = relay
			b.stopRelay = cancel
			emitter = relay
		}

		var observer notify.AlertObserver
		if b.metrics != nil {
			observer = b.metrics
		}
		broadcaster := notify.NewBroadcaster(observer)
		if err := broadcaster.Start(emitter); err != nil {
			return nil, err
		}
		b.hub = hub
		return broadcaster, nil
	}, "notifier", "Notifier initialized")
	return b
}

// WithRoutes mounts the API on the HTTP server
func (b *AppBuilder) WithRoutes() *AppBuilder {
	if b.routes || b.failed() {
		return b
	}
	if b.server == nil {
		b.errors = append(b.errors, fmt.Errorf("init routes: %w", ErrNoServer))
		return b
	}

	if b.hub != nil {
		api.RegisterRoutes(b.server.App(), b.hub.Handler())
	} else {
		api.RegisterRoutes(b.server.App(), nil)
	}
	b.routes = true
	logger.Info().Msg("Routes registered")
	return b
}

// WithAll initializes all components in startup order
func (b *AppBuilder) WithAll(ctx context.Context) *AppBuilder {
	return b.WithLogger().
		WithDatabase(ctx).
		WithMetrics().
		WithHealthcheck().
		WithServer().
		WithNotifier(ctx).
		WithRoutes()
}

// Build creates the App instance and returns any errors that occurred during
// initialization. Components created before the failure are released.
func (b *AppBuilder) Build() (*App, error) {
	// Logger is required
	if b.logger == nil && !b.failed() {
		b.WithLogger()
	}

	a := &App{
		Config:      b.config,
		Logger:      b.logger,
		Metrics:     b.metrics,
		Healthcheck: b.healthcheck,
		Server:      b.server,
		Database:    b.database,
		Hub:         b.hub,
		Relay:       b.relay,
		Broadcaster: b.broadcaster,
		stopRelay:   b.stopRelay,
	}

	if b.failed() {
		a.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to build app: %w", errors.Join(b.errors...))
	}

	logger.Info().Msg("All requested application components initialized successfully")
	return a, nil
}

// New initializes every component the configuration asks for
func New(ctx context.Context, cfg ConfigProvider) (*App, error) {
	return NewBuilder(cfg).WithAll(ctx).Build()
}

// NewWithLogger initializes only the logger (minimal setup)
func NewWithLogger(cfg ConfigProvider) (*App, error) {
	return NewBuilder(cfg).WithLogger().Build()
}

// SendAlert broadcasts payload to every connected client. It fails with
// notify.ErrNotInitialized when the notifier was not built.
func (a *App) SendAlert(payload any) error {
	if a.Broadcaster == nil {
		return notify.ErrNotInitialized
	}
	return a.Broadcaster.SendAlert(payload)
}

// Run listens on the configured address until ctx is cancelled, then closes
// every component.
func (a *App) Run(ctx context.Context) error {
	if a.Server == nil {
		return ErrNoServer
	}
	ln, err := net.Listen("tcp", a.Server.Address())
	if err != nil {
		a.Close() //nolint:errcheck
		return fmt.Errorf("listen %s: %w", a.Server.Address(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an already open listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if a.Server == nil {
		return ErrNoServer
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Listener(ln)
	}()

	port := 0
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	logger.Info().Msgf(response.MessageListening, port)

	select {
	case <-ctx.Done():
		return a.Close()
	case err := <-errCh:
		return errors.Join(err, a.Close())
	}
}

// Close stops the server first, then the notifier, the store and the
// auxiliary servers. It is safe to call more than once.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.closeOnce.Do(func() {
		a.closeErr = a.close()
	})
	return a.closeErr
}

func (a *App) close() error {
	logger.Info().Msg("Shutting down application components")

	var errs []error
	stop := func(name string, fn func() error) {
		if err := fn(); err != nil {
			logger.Error().Err(err).Msgf("Failed to stop %s", name)
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
			return
		}
		logger.Info().Msgf("%s stopped", name)
	}

	if a.Server != nil {
		stop("HTTP server", a.Server.Stop)
	}
	if a.stopRelay != nil {
		a.stopRelay()
	}
	if a.Relay != nil {
		stop("Redis relay", a.Relay.Close)
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.Database != nil {
		stop("Database", a.Database.Close)
	}
	if a.Metrics != nil {
		stop("Metrics", a.Metrics.Stop)
	}
	if a.Healthcheck != nil {
		stop("Healthcheck", a.Healthcheck.Stop)
	}

	logger.Info().Msg("Application shutdown completed")
	return errors.Join(errs...)
}
