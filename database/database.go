package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/zynerotech/apiserver/logger"
)

var (
	ErrEmptyURI          = errors.New("database uri is empty")
	ErrUnsupportedScheme = errors.New("unsupported database uri scheme")
	ErrWrongDriver       = errors.New("operation not supported by the configured driver")
)

// Driver определяет используемый драйвер хранилища
type Driver string

const (
	DriverMongo    Driver = "mongodb"
	DriverPostgres Driver = "postgres"
)

// DefaultTimeout время на подключение и первый ping
const DefaultTimeout = 30 * time.Second

// Config представляет конфигурацию подключения к базе данных
type Config struct {
	URI     string        `mapstructure:"uri"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Database представляет менеджер подключения к базе данных
type Database struct {
	config Config
	driver Driver
	client *mongo.Client
	db     *mongo.Database
	pool   *pgxpool.Pool
}

// DriverFor определяет драйвер по схеме URI
func DriverFor(uri string) (Driver, error) {
	switch {
	case uri == "":
		return "", ErrEmptyURI
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return DriverMongo, nil
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, redact(uri))
	}
}

// Connect подключается к хранилищу и проверяет соединение ping-запросом.
// Вызывающий код блокируется до успешного ping или ошибки.
func Connect(ctx context.Context, cfg Config) (*Database, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	driver, err := DriverFor(cfg.URI)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	d := &Database{config: cfg, driver: driver}
	switch driver {
	case DriverMongo:
		err = d.connectMongo(ctx)
	case DriverPostgres:
		err = d.connectPostgres(ctx)
	}
	if err != nil {
		return nil, err
	}

	logger.Component("database").Debug().Str("driver", string(driver)).Msgf("Connected to %s", redact(cfg.URI))
	return d, nil
}

func (d *Database) connectMongo(ctx context.Context) error {
	cs, err := connstring.ParseAndValidate(d.config.URI)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(d.config.URI).
		SetConnectTimeout(d.config.Timeout).
		SetServerSelectionTimeout(d.config.Timeout))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.client = client
	d.db = client.Database(cs.Database)
	return nil
}

func (d *Database) connectPostgres(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(d.config.URI)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.ConnConfig.ConnectTimeout = d.config.Timeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.pool = pool
	return nil
}

// Driver возвращает используемый драйвер
func (d *Database) Driver() Driver {
	return d.driver
}

// Mongo возвращает базу данных MongoDB из пути URI
func (d *Database) Mongo() *mongo.Database {
	return d.db
}

// Pool возвращает пул соединений PostgreSQL
func (d *Database) Pool() *pgxpool.Pool {
	return d.pool
}

// Begin начинает транзакцию PostgreSQL
func (d *Database) Begin(ctx context.Context) (pgx.Tx, error) {
	if d.pool == nil {
		return nil, ErrWrongDriver
	}
	return d.pool.Begin(ctx)
}

// Ping проверяет подключение к базе данных
func (d *Database) Ping(ctx context.Context) error {
	switch {
	case d.client != nil:
		return d.client.Ping(ctx, readpref.Primary())
	case d.pool != nil:
		return d.pool.Ping(ctx)
	default:
		return ErrWrongDriver
	}
}

// Close закрывает соединения
func (d *Database) Close() error {
	if d.pool != nil {
		d.pool.Close()
	}
	if d.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), d.config.Timeout)
		defer cancel()
		return d.client.Disconnect(ctx)
	}
	return nil
}

// redact hides credentials in a connection string before it is logged.
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return "***"
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}
