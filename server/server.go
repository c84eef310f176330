package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/zynerotech/apiserver/helpers"
	"github.com/zynerotech/apiserver/logger"
	"github.com/zynerotech/apiserver/response"
)

const (
	// DefaultBodyLimit ограничивает тело запроса (JSON и urlencoded) одним мегабайтом
	DefaultBodyLimit = 1 << 20

	// DefaultShutdownTimeout используется, если таймаут остановки не задан
	DefaultShutdownTimeout = 10 * time.Second
)

// Config представляет конфигурацию веб-сервера
type Config struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	BodyLimit       int           `mapstructure:"body_limit"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Server представляет веб-сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config Config
	log    *logger.Logger
}

// New создает новый экземпляр веб-сервера
func New(cfg Config, log *logger.Logger) (*Server, error) {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if log == nil {
		log = logger.GetGlobal()
	}

	fiberConfig := fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          ErrorHandler,
		JSONEncoder: func(v any) ([]byte, error) {
			return sonic.Marshal(v)
		},
		JSONDecoder: func(data []byte, v any) error {
			return sonic.Unmarshal(data, v)
		},
	}

	app := fiber.New(fiberConfig)

	app.Use(recover.New())
	// Любой источник отражается в Access-Control-Allow-Origin, cookies разрешены
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(string) bool { return true },
		AllowCredentials: true,
	}))
	app.Use(compress.New())

	return &Server{
		app:    app,
		config: cfg,
		log:    log.WithField("component", "server"),
	}, nil
}

// ErrorHandler отвечает конвертом ошибки на любую ошибку обработчика
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message := fe.Message
		switch fe.Code {
		case fiber.StatusRequestEntityTooLarge:
			message = response.MessagePayloadTooLarge
		case fiber.StatusNotFound:
			message = response.MessageNotFound
		}
		return response.Write(c, response.Error(response.Code(fe.Code), message, nil))
	}

	normalized := helpers.LogErrors(helpers.FromError(err), response.MessageServerError)
	return response.Write(c, normalized.Envelope())
}

// Start запускает веб-сервер
func (s *Server) Start() error {
	s.log.Info().Msgf("Starting HTTP server on %s", s.config.Address)
	return s.app.Listen(s.config.Address)
}

// Listener обслуживает запросы на уже открытом listener
func (s *Server) Listener(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Stop останавливает веб-сервер
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.app.ShutdownWithContext(ctx)
}

// App возвращает экземпляр приложения Fiber
func (s *Server) App() *fiber.App {
	return s.app
}

// Address возвращает адрес, на котором слушает сервер
func (s *Server) Address() string {
	return s.config.Address
}
