package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting of the canteen binaries.
type Config struct {
	Server   ServerConfig   `envPrefix:"HTTP_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
	Owner    OwnerConfig    `envPrefix:"OWNER_"`
	Events   EventsConfig   `envPrefix:"EVENTS_"`
	RabbitMQ RabbitMQConfig `envPrefix:"RABBITMQ_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`

	PickupTimezone string `env:"PICKUP_TIMEZONE" envDefault:"Local"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

type ServerConfig struct {
	Port            int           `env:"PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"canteen"`
	Password string `env:"PASSWORD"`
	Database string `env:"NAME" envDefault:"canteen"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	MaxConns int    `env:"MAX_CONNS" envDefault:"10"`
}

func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Database,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// RedisConfig with an empty Addr selects the in-process session store.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type SessionConfig struct {
	Secret     string        `env:"SECRET" envDefault:"canteen_secret_key_final"`
	TTL        time.Duration `env:"TTL" envDefault:"30m"`
	CookieName string        `env:"COOKIE_NAME" envDefault:"canteen_session"`
	Secure     bool          `env:"SECURE" envDefault:"false"`
}

// OwnerConfig is the single owner account created at bootstrap. Its username
// is reserved and cannot be registered.
type OwnerConfig struct {
	Username string `env:"USERNAME" envDefault:"canteen_admin"`
	Password string `env:"PASSWORD" envDefault:"admin123"`
}

const (
	EventsNone     = "none"
	EventsRabbitMQ = "rabbitmq"
	EventsKafka    = "kafka"
)

type EventsConfig struct {
	Backend string `env:"BACKEND" envDefault:"none"`
}

type RabbitMQConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5672"`
	User     string `env:"USER" envDefault:"guest"`
	Password string `env:"PASSWORD" envDefault:"guest"`
	VHost    string `env:"VHOST" envDefault:"/"`
	UseTLS   bool   `env:"USE_TLS" envDefault:"false"`
	Exchange string `env:"EXCHANGE" envDefault:"canteen_notifications"`
	Queue    string `env:"QUEUE" envDefault:"canteen_notifications.q"`
	Prefetch int    `env:"PREFETCH" envDefault:"10"`
}

type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"canteen_orders"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		for _, f := range envFiles {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load env file %s: %w", f, err)
			}
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Events.Backend) {
	case EventsNone, EventsRabbitMQ, EventsKafka:
		c.Events.Backend = strings.ToLower(c.Events.Backend)
	default:
		return fmt.Errorf("invalid EVENTS_BACKEND %q: want none | rabbitmq | kafka", c.Events.Backend)
	}
	if strings.TrimSpace(c.Owner.Username) == "" || c.Owner.Password == "" {
		return fmt.Errorf("owner credentials must not be empty")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the zone used to interpret pickup clock times.
func (c *Config) Location() (*time.Location, error) {
	if c.PickupTimezone == "" || c.PickupTimezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.PickupTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid PICKUP_TIMEZONE %q: %w", c.PickupTimezone, err)
	}
	return loc, nil
}
