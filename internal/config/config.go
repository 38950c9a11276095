// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// database settings, authentication secrets, payment-gateway credentials,
// rate limiting, and observability switches.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// DBConfig selects the database backend. When DSN is set the server connects
// to PostgreSQL; otherwise it falls back to a local SQLite file (dev/tests).
type DBConfig struct {
	DSN  string // DATABASE_DSN (PostgreSQL)
	Path string // DB_PATH (SQLite fallback)
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string        // JWT_SECRET
	AccessTTL  time.Duration // JWT_ACCESS_TTL
	RefreshTTL time.Duration // JWT_REFRESH_TTL
}

// PaystackConfig holds payment-gateway credentials and endpoint.
type PaystackConfig struct {
	SecretKey   string // PAYSTACK_SECRET_KEY (also signs webhooks)
	PublicKey   string // PAYSTACK_PUBLIC_KEY
	BaseURL     string // PAYSTACK_BASE_URL (overridable for tests)
	Currency    string // PAYSTACK_CURRENCY (e.g. "NGN")
	CallbackURL string // PAYSTACK_CALLBACK_URL (post-checkout redirect)
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool
	LogRedact bool // scrub PII from access logs (production posture)

	// API
	APIBasePath string

	// Storage
	DB        DBConfig
	UploadDir string // where menu images land; served under /uploads

	// Auth
	JWT JWTConfig

	// Payments
	Paystack PaystackConfig

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency (POST /orders retry window)
	IdempotencyTTL time.Duration

	// WebSocket fan-out
	WSSendBuffer  int           // per-client outbound queue size
	WSPingPeriod  time.Duration // keepalive ping interval
	WSWriteWait   time.Duration // per-message write deadline
	WSMaxMsgBytes int64         // inbound frame cap

	// Observability
	OTEL OTELConfig
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
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),
		LogRedact: getbool("LOG_REDACT", false),

		// API
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Storage
		DB: DBConfig{
			DSN:  getenv("DATABASE_DSN", ""),
			Path: getenv("DB_PATH", "restaurant.db"),
		},
		UploadDir: getenv("UPLOAD_DIR", "uploads"),

		// Auth
		JWT: JWTConfig{
			Secret:     getenv("JWT_SECRET", ""),
			AccessTTL:  getdur("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: getdur("JWT_REFRESH_TTL", 12*time.Hour),
		},

		// Payments
		Paystack: PaystackConfig{
			SecretKey:   getenv("PAYSTACK_SECRET_KEY", ""),
			PublicKey:   getenv("PAYSTACK_PUBLIC_KEY", ""),
			BaseURL:     getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			Currency:    strings.ToUpper(getenv("PAYSTACK_CURRENCY", "NGN")),
			CallbackURL: getenv("PAYSTACK_CALLBACK_URL", ""),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 10.0),
		RateBurst: getint("RATE_BURST", 20),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// WebSocket fan-out
		WSSendBuffer:  getint("WS_SEND_BUFFER", 64),
		WSPingPeriod:  getdur("WS_PING_PERIOD", 30*time.Second),
		WSWriteWait:   getdur("WS_WRITE_WAIT", 10*time.Second),
		WSMaxMsgBytes: int64(getint("WS_MAX_MSG_BYTES", 4<<10)),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "restaurant-backend"),
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
	if cfg.JWT.Secret == "" {
		// Dev fallback; production deploys must set JWT_SECRET.
		cfg.JWT.Secret = "dev-secret-change-me"
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
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.DB.DSN == "" && strings.TrimSpace(cfg.DB.Path) == "" {
		return cfg, errors.New("either DATABASE_DSN or DB_PATH must be set")
	}
	if strings.TrimSpace(cfg.UploadDir) == "" {
		return cfg, errors.New("UPLOAD_DIR must not be empty")
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return cfg, errors.New("JWT TTLs must be positive durations")
	}
	if cfg.JWT.RefreshTTL <= cfg.JWT.AccessTTL {
		return cfg, errors.New("JWT_REFRESH_TTL must exceed JWT_ACCESS_TTL")
	}
	if !strings.HasPrefix(cfg.Paystack.BaseURL, "http") {
		return cfg, errors.New("PAYSTACK_BASE_URL must be an http(s) URL")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.WSSendBuffer < 1 {
		return cfg, errors.New("WS_SEND_BUFFER must be >= 1")
	}
	if cfg.WSPingPeriod <= 0 || cfg.WSWriteWait <= 0 {
		return cfg, errors.New("WS_PING_PERIOD and WS_WRITE_WAIT must be positive durations")
	}
	if cfg.WSMaxMsgBytes <= 0 {
		return cfg, errors.New("WS_MAX_MSG_BYTES must be > 0")
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

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
