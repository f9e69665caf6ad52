// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for the
// HTTP server, logging, the cat store, the image API client, rate limiting,
// the Telegram notifier, load generation, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DBConfig defines how the cat store is opened and bounded.
type DBConfig struct {
	Driver string // sqlite|postgres
	Path   string // SQLite file path (DB_PATH)

	// Postgres connection, libpq-style variables.
	Host     string // PGHOST
	Port     int    // PGPORT
	Name     string // PGDATABASE
	User     string // PGUSER
	Password string // PGPASSWORD
	SSLMode  string // PGSSLMODE

	MaxOpenConns int           // pool ceiling (0 = driver default)
	MaxIdleConns int           // idle pool size
	QueryTimeout time.Duration // per-call bound applied by the query surface
	Skip         bool          // SKIP_DB: serve without a store
}

// CatAPIConfig defines the upstream image API.
type CatAPIConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// RateLimitConfig defines the per-client token bucket.
type RateLimitConfig struct {
	Enabled bool
	RPS     float64 // tokens per second (>= 0)
	Burst   int     // bucket size (>= 1)
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// TelegramConfig defines the alert notifier's bot credentials.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIURL   string
}

// LoadTestConfig defines defaults for the load generator.
type LoadTestConfig struct {
	BaseURL string
	Scale   float64 // multiplier applied to every scenario duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Host              string        // bind address
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 60s; test routes may sleep
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful drain window
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	DB        DBConfig
	CatAPI    CatAPIConfig
	RateLimit RateLimitConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	Telegram TelegramConfig
	LoadTest LoadTestConfig

	// Observability
	OTEL OTELConfig
}

// Addr returns the host:port pair the HTTP server binds to.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// DSN renders the Postgres connection string in key=value form.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Host:              getenv("HOST", "0.0.0.0"),
		Port:              getenv("PORT", "3000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", true),

		DB: DBConfig{
			Driver:       strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
			Path:         getenv("DB_PATH", "cats.db"),
			Host:         getenv("PGHOST", "localhost"),
			Port:         getint("PGPORT", 5432),
			Name:         getenv("PGDATABASE", "cats"),
			User:         getenv("PGUSER", "postgres"),
			Password:     getenv("PGPASSWORD", ""),
			SSLMode:      getenv("PGSSLMODE", "disable"),
			MaxOpenConns: getint("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getint("DB_MAX_IDLE_CONNS", 5),
			QueryTimeout: getdur("DB_QUERY_TIMEOUT", 5*time.Second),
			Skip:         getbool("SKIP_DB", false),
		},

		CatAPI: CatAPIConfig{
			URL:     getenv("CAT_API_URL", "https://api.thecatapi.com/v1/images/search"),
			APIKey:  getenv("CAT_API_KEY", ""),
			Timeout: getdur("CAT_API_TIMEOUT", 5*time.Second),
		},

		RateLimit: RateLimitConfig{
			Enabled: getbool("RATE_LIMIT_ENABLED", false),
			RPS:     getfloat("RATE_RPS", 50.0),
			Burst:   getint("RATE_BURST", 100),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		Telegram: TelegramConfig{
			BotToken: getenv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getenv("TELEGRAM_CHAT_ID", ""),
			APIURL:   strings.TrimRight(getenv("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
		},

		LoadTest: LoadTestConfig{
			BaseURL: strings.TrimRight(getenv("LOADTEST_BASE_URL", "http://localhost:3000"), "/"),
			Scale:   getfloat("LOADTEST_SCALE", 1.0),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-cat-service"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "postgresql" || cfg.DB.Driver == "pg" {
		cfg.DB.Driver = DriverPostgres
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 ||
		cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case DriverSQLite:
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case DriverPostgres:
		if strings.TrimSpace(cfg.DB.Host) == "" || strings.TrimSpace(cfg.DB.Name) == "" {
			return cfg, errors.New("PGHOST and PGDATABASE must not be empty")
		}
		if cfg.DB.Port <= 0 || cfg.DB.Port > 65535 {
			return cfg, errors.New("PGPORT must be in [1,65535]")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.DB.MaxOpenConns < 0 || cfg.DB.MaxIdleConns < 0 {
		return cfg, errors.New("DB pool sizes must be >= 0")
	}
	if cfg.DB.QueryTimeout <= 0 {
		return cfg, errors.New("DB_QUERY_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(cfg.CatAPI.URL) == "" {
		return cfg, errors.New("CAT_API_URL must not be empty")
	}
	if cfg.CatAPI.Timeout <= 0 {
		return cfg, errors.New("CAT_API_TIMEOUT must be > 0")
	}
	if cfg.RateLimit.RPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateLimit.Burst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.LoadTest.Scale <= 0 {
		return cfg, errors.New("LOADTEST_SCALE must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
