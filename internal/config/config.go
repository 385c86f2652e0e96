package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env            string         `yaml:"env" env:"APP_ENV" env-default:"local"`
	Log            Log            `yaml:"log"`
	Http           Http           `yaml:"http"`
	Upload         Upload         `yaml:"upload"`
	Webhooks       []Webhook      `yaml:"webhooks"`
	Results        Results        `yaml:"results"`
	Infrastructure Infrastructure `yaml:"infrastructure"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Http struct {
	Addr         string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"90s"`
}

type Upload struct {
	// MaxFileSize is the largest accepted spreadsheet in bytes.
	MaxFileSize int64         `yaml:"max_file_size" env:"UPLOAD_MAX_FILE_SIZE" env-default:"20971520"`
	Timeout     time.Duration `yaml:"timeout" env:"UPLOAD_TIMEOUT" env-default:"60s"`
	// DefaultWebhookURL registers a webhook named "default" when set.
	DefaultWebhookURL string `yaml:"default_webhook_url" env:"WEBHOOK_URL"`
}

type Webhook struct {
	Name string `yaml:"name"`
	Url  string `yaml:"url"`
}

type Results struct {
	Query string `yaml:"query" env:"RESULTS_QUERY" env-default:"SELECT * FROM upload_records ORDER BY created_at DESC"`
}

type Infrastructure struct {
	Db     Db     `yaml:"db"`
	Redis  Redis  `yaml:"redis"`
	Rabbit Rabbit `yaml:"rabbit"`
}

type Db struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"sheet_relay"`
	SslMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
}

type Redis struct {
	// Addr left empty disables the results cache.
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	Db       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	Ttl      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"30s"`
}

type Rabbit struct {
	// Url left empty disables upload events.
	Url      string `yaml:"url" env:"RABBIT_URL"`
	Exchange string `yaml:"exchange" env:"RABBIT_EXCHANGE" env-default:"sheet-relay"`
}

// WebhookUrls merges the configured webhook list with the default webhook.
func (this *Config) WebhookUrls() map[string]string {
	out := make(map[string]string, len(this.Webhooks)+1)
	if this.Upload.DefaultWebhookURL != "" {
		out["default"] = this.Upload.DefaultWebhookURL
	}
	for _, w := range this.Webhooks {
		out[w.Name] = w.Url
	}
	return out
}

func (this *Config) validate() error {
	for _, w := range this.Webhooks {
		if w.Name == "" || w.Url == "" {
			return fmt.Errorf("webhook entries need both name and url, got %q -> %q", w.Name, w.Url)
		}
	}
	if this.Upload.Timeout <= 0 {
		return errors.New("upload timeout must be positive")
	}
	switch this.Infrastructure.Db.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported db driver %q", this.Infrastructure.Db.Driver)
	}
	return nil
}

// Load reads the YAML file at path when it exists and falls back to the
// environment otherwise. Environment variables override file values.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
			if err := cfg.validate(); err != nil {
				return nil, err
			}
			return &cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
