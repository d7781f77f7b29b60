package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	ConnectModePool   = "pool"
	ConnectModeDirect = "direct"
)

type Config struct {
	ServiceName string `yaml:"service_name"`

	// DatabaseURL takes precedence over the individual DB* parts.
	DatabaseURL string `yaml:"database_url"`
	DBHost      string `yaml:"db_host"`
	DBPort      int    `yaml:"db_port"`
	DBName      string `yaml:"db_name"`
	DBUser      string `yaml:"db_user"`
	DBPassword  string `yaml:"db_password"`
	DBSSLMode   string `yaml:"db_sslmode"`

	// DBConnectMode selects how request connections are obtained: "pool"
	// checks them out of a pgxpool, "direct" dials a new connection per request.
	DBConnectMode    string        `yaml:"db_connect_mode"`
	DBMaxConns       int           `yaml:"db_max_conns"`
	DBConnectTimeout time.Duration `yaml:"db_connect_timeout"`

	HTTPListenAddr    string `yaml:"http_listen_addr"`
	MetricsListenAddr string `yaml:"metrics_listen_addr"`
	LogLevel          string `yaml:"log_level"`
}

func defaults() *Config {
	return &Config{
		ServiceName:      "customer-api",
		DBHost:           "localhost",
		DBPort:           5432,
		DBName:           "ecom",
		DBUser:           "root",
		DBSSLMode:        "disable",
		DBConnectMode:    ConnectModePool,
		DBMaxConns:       10,
		DBConnectTimeout: 5 * time.Second,
		HTTPListenAddr:   ":8080",
		LogLevel:         "info",
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.DBConnectMode = getEnv("DB_CONNECT_MODE", cfg.DBConnectMode)
	cfg.HTTPListenAddr = getEnv("HTTP_LISTEN_ADDR", cfg.HTTPListenAddr)
	cfg.MetricsListenAddr = getEnv("METRICS_LISTEN_ADDR", cfg.MetricsListenAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	var err error
	if cfg.DBPort, err = getEnvInt("DB_PORT", cfg.DBPort); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", cfg.DBMaxConns); err != nil {
		return nil, err
	}
	if v := os.Getenv("DB_CONNECT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("DB_CONNECT_TIMEOUT: %w", err)
		}
		cfg.DBConnectTimeout = d
	}

	return cfg, nil
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	if c.DatabaseURL == "" {
		if c.DBHost == "" {
			problems = append(problems, "DB_HOST")
		}
		if c.DBName == "" {
			problems = append(problems, "DB_NAME")
		}
		if c.DBUser == "" {
			problems = append(problems, "DB_USER")
		}
		if c.DBPort <= 0 || c.DBPort > 65535 {
			problems = append(problems, "DB_PORT (must be 1-65535)")
		}
	}
	if c.DBConnectMode != ConnectModePool && c.DBConnectMode != ConnectModeDirect {
		problems = append(problems, fmt.Sprintf("DB_CONNECT_MODE (must be %q or %q)", ConnectModePool, ConnectModeDirect))
	}
	if c.DBConnectMode == ConnectModePool && c.DBMaxConns <= 0 {
		problems = append(problems, "DB_MAX_CONNS (must be positive)")
	}
	if c.DBConnectTimeout <= 0 {
		problems = append(problems, "DB_CONNECT_TIMEOUT (must be positive)")
	}
	if c.HTTPListenAddr == "" {
		problems = append(problems, "HTTP_LISTEN_ADDR")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL (%s)", err))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, ", "))
	}
	return nil
}

// DatabaseDSN returns DatabaseURL if set, otherwise a postgres URL assembled
// from the connection parts.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:   "/" + c.DBName,
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.DBSSLMode}}.Encode()
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
