package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zynerotech/apiserver/logger"
)

// DefaultServiceName используется как префикс метрик, если имя сервиса не задано
const DefaultServiceName = "apiserver"

// Config представляет конфигурацию метрик
type Config struct {
	Enabled     bool   `mapstructure:"enabled"`
	Path        string `mapstructure:"path"`
	Port        int    `mapstructure:"port"`
	ServiceName string `mapstructure:"service_name"`
}

// Metrics представляет собой менеджер метрик
type Metrics struct {
	config   Config
	registry *prometheus.Registry
	server   *http.Server
	listener net.Listener
	log      *logger.Logger

	// HTTP метрики
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Уведомления, отправленные подключенным клиентам
	alertsTotal prometheus.Counter
}

// New создает и запускает новый экземпляр менеджера метрик.
// Ошибка занятого порта возвращается сразу, а не из горутины.
func New(cfg Config, log *logger.Logger) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}
	if log == nil {
		log = logger.GetGlobal()
	}
	if cfg.Path == "" {
		cfg.Path = "/metrics"
	}
	prefix := ServiceName(cfg.ServiceName)

	m := &Metrics{
		config:   cfg,
		registry: prometheus.NewRegistry(),
		log:      log.WithField("component", "metrics"),
	}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.httpRequestsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
		[]string{"method", "path"},
	)
	m.alertsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_alerts_sent_total",
		Help: "Total number of alerts broadcast to connected clients",
	})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpRequestsInFlight,
		m.alertsTotal,
	)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}
	m.listener = ln

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, m.Handler())
	m.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		m.log.Info().Msgf("Starting metrics server on %s", ln.Addr())
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	return m, nil
}

// ServiceName приводит имя к допустимому префиксу метрик Prometheus
func ServiceName(name string) string {
	var b strings.Builder
	for i, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if strings.Trim(b.String(), "_") == "" {
		return DefaultServiceName
	}
	return b.String()
}

// Enabled сообщает, собираются ли метрики
func (m *Metrics) Enabled() bool {
	return m.config.Enabled
}

// Addr возвращает адрес сервера метрик или пустую строку
func (m *Metrics) Addr() string {
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

// Handler отдает метрики из собственного реестра
func (m *Metrics) Handler() http.Handler {
	if !m.config.Enabled {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Stop останавливает HTTP-сервер метрик
func (m *Metrics) Stop() error {
	if !m.config.Enabled || m.server == nil {
		return nil
	}
	return m.server.Close()
}

// ObserveAlert учитывает отправленное уведомление
func (m *Metrics) ObserveAlert() {
	if !m.config.Enabled {
		return
	}
	m.alertsTotal.Inc()
}

// FiberMiddleware возвращает middleware для Fiber
func (m *Metrics) FiberMiddleware() fiber.Handler {
	if !m.config.Enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := c.Method()

		// До маршрутизации путь неизвестен, поэтому gauge считается по методу
		m.httpRequestsInFlight.WithLabelValues(method, "").Inc()
		defer m.httpRequestsInFlight.WithLabelValues(method, "").Dec()

		err := c.Next()

		// Шаблон маршрута вместо сырого пути, чтобы не плодить серии на каждый id
		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()

		return err
	}
}
