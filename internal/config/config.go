package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration. Values come from an
// optional yaml file, are overridden by environment variables and finally by
// command line flags bound in cmd.
type Config struct {
	// Environment selects the logger flavour (development, production).
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set.
	LogLevel string `env:"LOG_LEVEL" env-default:"" yaml:"logLevel"`

	// Registry configures the company registry HTTP client.
	Registry struct {
		// BaseURL is the root of the registry REST API.
		BaseURL string `env:"REGISTRY_BASE_URL" env-default:"https://api.company-information.service.gov.uk" yaml:"baseUrl"` //nolint: lll
		// APIKey authenticates every request. Required for scanning.
		APIKey string `env:"API_KEY" yaml:"apiKey"`
		// Timeout bounds a single HTTP request.
		Timeout time.Duration `env:"REGISTRY_TIMEOUT" env-default:"30s" yaml:"timeout"`
		// RateLimitFreeze is how long to pause, in seconds, after the registry answers 429.
		RateLimitFreeze int `env:"REGISTRY_RATELIMIT_FREEZE" env-default:"50" yaml:"rateLimitFreeze"`
	} `yaml:"registry"`

	// Scan configures the range scan.
	Scan struct {
		// LastFile is the progress file holding the last confirmed numbers.
		LastFile string `env:"SCAN_LAST_FILE" env-default:"last.json" yaml:"lastFile"`
		// OutFile is the CSV file qualified companies are appended to.
		OutFile string `env:"SCAN_OUT_FILE" env-default:"result.csv" yaml:"outFile"`
		// EmptyLimit is the number of consecutive empty identifiers ending a range.
		EmptyLimit int `env:"SCAN_EMPTY_LIMIT" env-default:"20" yaml:"emptyLimit"`
		// RetryDelay is the pause before the single retry of a transient failure.
		RetryDelay time.Duration `env:"SCAN_RETRY_DELAY" env-default:"15s" yaml:"retryDelay"`
	} `yaml:"scan"`

	// Metrics configures the optional status and metrics HTTP server.
	Metrics struct {
		// Addr enables the server when not empty, e.g. ":9090".
		Addr string `env:"METRICS_ADDR" env-default:"" yaml:"addr"`
		// Path is where Prometheus metrics are exposed.
		Path string `env:"METRICS_PATH" env-default:"/metrics" yaml:"path"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers.
		ReadHeaderTimeout time.Duration `env:"METRICS_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
	} `yaml:"metrics"`

	// Database configures the optional PostgreSQL mirror of emitted rows.
	Database struct {
		// Enabled turns the mirror on.
		Enabled bool `env:"DATABASE_ENABLED" env-default:"false" yaml:"enabled"`
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"companyscan" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"4" yaml:"maxOpenConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// GracefulShutdownTimeout bounds the shutdown of the metrics server and the
	// final progress write after an interrupt.
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads the yaml file at configPath and then the environment. A missing
// file is not an error: the configuration then comes from the environment and
// defaults alone.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		_, err := os.Stat(configPath)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("could not read config: %w", err)
			}

			return &cfg, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("could not stat config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}

	return &cfg, nil
}

// RateLimitFreeze returns Registry.RateLimitFreeze as a duration.
func (c *Config) RateLimitFreeze() time.Duration {
	return time.Duration(c.Registry.RateLimitFreeze) * time.Second
}

// ValidationErrors collects every problem found by Validate.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return "invalid configuration: " + strings.Join(v, "; ")
}

// Validate checks the settings a scan needs.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(c.Registry.APIKey) == "" {
		errs = append(errs, "registry API key is required (API_KEY)")
	}
	if strings.TrimSpace(c.Registry.BaseURL) == "" {
		errs = append(errs, "registry base URL is required")
	}
	if c.Registry.RateLimitFreeze < 0 {
		errs = append(errs, "rate limit freeze must not be negative")
	}
	if c.Scan.EmptyLimit < 1 {
		errs = append(errs, "empty limit must be at least 1")
	}
	if c.Scan.RetryDelay <= 0 {
		errs = append(errs, "retry delay must be positive")
	}
	if strings.TrimSpace(c.Scan.LastFile) == "" {
		errs = append(errs, "progress file path is required")
	}
	if strings.TrimSpace(c.Scan.OutFile) == "" {
		errs = append(errs, "output file path is required")
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
