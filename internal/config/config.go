// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PricingAPI              `yaml:"pricing_api"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Checkout                `yaml:"checkout"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	// WriteTimeout должен покрывать оформление подписки целиком, см. CheckoutBudget.
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"45s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
	// RateLimit — число запросов оформления в секунду на одного партнёра.
	RateLimit float64 `yaml:"rate_limit" env-default:"1"`
	RateBurst int     `yaml:"rate_burst" env-default:"3"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	StatsTTL     time.Duration `yaml:"stats_ttl" env-default:"1h"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// PricingAPI настройки внешнего API тарифов и оформления подписок.
//
// Mode "http" — реальный клиент, "fake" — фиксированные ответы для отладки.
type PricingAPI struct {
	Mode           string        `yaml:"mode" env-default:"http"`
	BaseURL        string        `yaml:"base_url"`
	BearerToken    string        `yaml:"bearer_token"`
	CatalogTimeout time.Duration `yaml:"catalog_timeout" env-default:"2s"`
	SubmitTimeout  time.Duration `yaml:"submit_timeout" env-default:"10s"`
}

// RabbitMQ настройки подключения к брокеру событий.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP настройки почтового сервера для уведомлений о продажах.
type SMTP struct {
	SMTPHost string `yaml:"host"`
	SMTPPort string `yaml:"port" env-default:"587"`
	SMTPUser string `yaml:"user"`
	SMTPPass string `yaml:"password"`
}

// Checkout настройки оформления подписок.
type Checkout struct {
	// RecordTimeout ограничивает запись продажи после оформления во внешнем сервисе.
	RecordTimeout time.Duration `yaml:"record_timeout" env-default:"10s"`
}

// Режимы клиента тарифов.
const (
	PricingModeHTTP = "http"
	PricingModeFake = "fake"
)

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает и проверяет конфиг из файла.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case PricingModeHTTP:
		if c.BaseURL == "" {
			return fmt.Errorf("pricing_api.base_url is required in %q mode", PricingModeHTTP)
		}
	case PricingModeFake:
	default:
		return fmt.Errorf("unknown pricing_api.mode %q", c.Mode)
	}
	if budget := c.CheckoutBudget(); c.WriteTimeout <= budget {
		return fmt.Errorf("http_server.write_timeout %s must exceed checkout budget %s", c.WriteTimeout, budget)
	}
	return nil
}

// CheckoutBudget — наибольшая длительность оформления подписки: каталог,
// расчёт и оформление во внешнем сервисе, затем запись продажи.
func (c *Config) CheckoutBudget() time.Duration {
	return c.CatalogTimeout + 2*c.SubmitTimeout + c.RecordTimeout
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  WriteTimeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"PricingAPI:\n"+
			"  Mode: %s\n"+
			"  BaseURL: %s\n"+
			"  CatalogTimeout: %s\n"+
			"  SubmitTimeout: %s\n",
		c.Env,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.WriteTimeout,
		c.IdleTimeout,
		c.Mode,
		c.BaseURL,
		c.CatalogTimeout,
		c.SubmitTimeout,
	)
}
