package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	AppEnv         string `yaml:"app_env"         env:"APP_ENV"         env-default:"development"`
	AppPort        string `yaml:"app_port"        env:"APP_PORT"        env-default:"8080"`
	AllowedOrigins string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"*"`

	DBDriver       string `yaml:"db_driver"         env:"DB_DRIVER"         env-default:"postgres"`
	DBHost         string `yaml:"db_host"           env:"DB_HOST"           env-default:"localhost"`
	DBPort         string `yaml:"db_port"           env:"DB_PORT"           env-default:"5432"`
	DBUser         string `yaml:"db_user"           env:"DB_USER"           env-default:"studysync"`
	DBPassword     string `yaml:"db_password"       env:"DB_PASSWORD"       env-default:"studysync"`
	DBName         string `yaml:"db_name"           env:"DB_NAME"           env-default:"studysync"`
	DBSQLitePath   string `yaml:"db_sqlite_path"    env:"DB_SQLITE_PATH"    env-default:"studysync.db"`
	DBMaxIdleConns int    `yaml:"db_max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DBMaxOpenConns int    `yaml:"db_max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"100"`

	NATSURL           string        `yaml:"nats_url"            env:"NATS_URL"            env-default:"nats://localhost:4222"`
	NATSSubjectPrefix string        `yaml:"nats_subject_prefix" env:"NATS_SUBJECT_PREFIX" env-default:"studysync"`
	EventPollInterval time.Duration `yaml:"event_poll_interval" env:"EVENT_POLL_INTERVAL" env-default:"1s"`

	JWTSecret          string `yaml:"jwt_secret"           env:"JWT_SECRET"           env-default:"your-super-secret-key-change-this-in-production"`
	JWTExpirationHours int    `yaml:"jwt_expiration_hours" env:"JWT_EXPIRATION_HOURS" env-default:"24"`

	LogLevel  string `yaml:"log_level"  env:"LOG_LEVEL"  env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"console"`
}

// Load reads configuration from an optional YAML file and the environment.
// Environment values win over the file; unset fields take their env-default.
// The file path comes from CONFIG_PATH, falling back to ./config.yaml when present.
func Load() (Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return Config{}, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if c.JWTExpirationHours <= 0 {
		return errors.New("jwt expiration must be positive")
	}
	if c.EventPollInterval <= 0 {
		return errors.New("event poll interval must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
