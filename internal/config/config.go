package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Identity  IdentityConfig
	Upload    UploadConfig
	Inference InferenceConfig
	Relay     RelayConfig
	Site      SiteConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
	VerifySecret    string
	VerifyExpiresIn time.Duration
}

// IdentityConfig selects the account backend. "local" keeps users in Postgres,
// "supabase" delegates to Supabase Auth.
type IdentityConfig struct {
	Provider    string
	SupabaseURL string
	SupabaseKey string
}

type UploadConfig struct {
	CloudName string
	Preset    string
	ResumeURL string
	MaxBytes  int64
	Timeout   time.Duration
}

type InferenceConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
}

type RelayConfig struct {
	Inbox   string
	BaseURL string
	Timeout time.Duration
}

type SiteConfig struct {
	BrandName     string
	PublicBaseURL string
	AdminPath     string
}

type RateLimitConfig struct {
	ChatPerMinute    int
	ContactPerMinute int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads .env (when present) and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optFloat := func(key string, def float64) float64 {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Log = LogConfig{
		Level:  optDefault("LOG_LEVEL", "info"),
		Format: optDefault("LOG_FORMAT", "json"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     optDefault("DB_PORT", "5432"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
		TTL:      optDuration("REDIS_TTL", 10*time.Minute),
	}

	cfg.Identity = IdentityConfig{
		Provider:    strings.ToLower(optDefault("IDENTITY_PROVIDER", "local")),
		SupabaseURL: opt("SUPABASE_URL"),
		SupabaseKey: opt("SUPABASE_KEY"),
	}

	switch cfg.Identity.Provider {
	case "local":
		cfg.JWT = JWTConfig{
			AccessSecret:    req("JWT_ACCESS_SECRET"),
			AccessExpiresIn: optDuration("JWT_ACCESS_EXPIRES_IN", 24*time.Hour),
			VerifySecret:    req("JWT_VERIFY_SECRET"),
			VerifyExpiresIn: optDuration("JWT_VERIFY_EXPIRES_IN", 48*time.Hour),
		}
	case "supabase":
		req("SUPABASE_URL")
		req("SUPABASE_KEY")
	default:
		invalid = append(invalid, "IDENTITY_PROVIDER")
	}

	cfg.Upload = UploadConfig{
		CloudName: req("CLOUDINARY_CLOUD_NAME"),
		Preset:    req("CLOUDINARY_PRESET"),
		ResumeURL: opt("CLOUDINARY_URL"),
		MaxBytes:  int64(optInt("UPLOAD_MAX_BYTES", 5<<20)),
		Timeout:   optDuration("UPLOAD_TIMEOUT", 30*time.Second),
	}

	// The API key stays optional: the chat endpoint answers with its
	// failure reply instead of refusing to boot.
	cfg.Inference = InferenceConfig{
		APIKey:          opt("GEMINI_API_KEY"),
		BaseURL:         optDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		Model:           optDefault("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		Temperature:     optFloat("GEMINI_TEMPERATURE", 0.3),
		MaxOutputTokens: optInt("GEMINI_MAX_OUTPUT_TOKENS", 256),
		Timeout:         optDuration("GEMINI_TIMEOUT", 20*time.Second),
	}

	cfg.Relay = RelayConfig{
		Inbox:   opt("CONTACT_INBOX"),
		BaseURL: optDefault("FORMSUBMIT_BASE_URL", "https://formsubmit.co/ajax"),
		Timeout: optDuration("FORMSUBMIT_TIMEOUT", 10*time.Second),
	}

	cfg.Site = SiteConfig{
		BrandName:     optDefault("SITE_BRAND_NAME", "SwadeshIntern"),
		PublicBaseURL: strings.TrimRight(optDefault("SITE_PUBLIC_BASE_URL", "https://swadeshintern.me"), "/"),
		AdminPath:     optDefault("SITE_ADMIN_PATH", "/controlhub"),
	}

	cfg.RateLimit = RateLimitConfig{
		ChatPerMinute:    optInt("RATE_LIMIT_CHAT_PER_MINUTE", 20),
		ContactPerMinute: optInt("RATE_LIMIT_CONTACT_PER_MINUTE", 5),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
