package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/zynerotech/apiserver/logger"
)

// pingTimeout ограничивает проверку хранилища в одном запросе
const pingTimeout = 2 * time.Second

// Config представляет конфигурацию healthcheck
type Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Port    int    `mapstructure:"port"`
}

// Pinger проверяет доступность зависимости
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck представляет менеджер проверок здоровья
type Healthcheck struct {
	config   Config
	pinger   Pinger
	server   *http.Server
	listener net.Listener
	log      *logger.Logger
}

// New создает экземпляр health-check сервера. pinger может быть nil,
// тогда сервер отвечает OK, пока процесс жив.
func New(cfg Config, pinger Pinger, log *logger.Logger) (*Healthcheck, error) {
	if !cfg.Enabled {
		return &Healthcheck{config: cfg}, nil
	}
	if log == nil {
		log = logger.GetGlobal()
	}
	if cfg.Path == "" {
		cfg.Path = "/health"
	}

	h := &Healthcheck{
		config: cfg,
		pinger: pinger,
		log:    log.WithField("component", "healthcheck"),
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to start healthcheck server: %w", err)
	}
	h.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Path, h.handleHealthcheck)
	h.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		h.log.Info().Msgf("Starting healthcheck server on %s", ln.Addr())
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.Error().Err(err).Msg("Healthcheck server stopped")
		}
	}()

	return h, nil
}

// Addr возвращает адрес сервера или пустую строку
func (h *Healthcheck) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Stop останавливает HTTP-сервер проверок здоровья
func (h *Healthcheck) Stop() error {
	if !h.config.Enabled || h.server == nil {
		return nil
	}
	return h.server.Close()
}

// handleHealthcheck обрабатывает запрос на проверку здоровья
func (h *Healthcheck) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Msg("Healthcheck failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("UNAVAILABLE")) //nolint:errcheck
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK")) //nolint:errcheck
}
