package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Feed     FeedConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	AllowOrigins   []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds the secret used to verify bearer tokens. An empty secret
// disables identity resolution and every request is served anonymously.
type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// FeedConfig tunes the feed orchestration layer.
type FeedConfig struct {
	OracleBackend string // postgres | rpc
	RPCURL        string
	RPCKey        string
	CacheBackend  string // memory | redis
	CacheTTL      time.Duration
	MaxAttempts   int
	BackoffBase   time.Duration
	DefaultMode   string // basic | personalized
	ConfigFile    string

	// OracleTimeout must leave room inside the request timeout for the
	// fallback search.
	OracleTimeout   time.Duration
	FallbackTimeout time.Duration
}

type TracingConfig struct {
	Enabled      bool
	Endpoint     string
	ServiceName  string
	SampleRate   float64
	InsecureConn bool
}

const (
	DefaultFeedCacheTTL    = 60 * time.Second
	DefaultFeedAttempts    = 3
	DefaultFeedBackoffBase = 500 * time.Millisecond
	DefaultFeedMode        = "basic"
	DefaultOracleTimeout   = 4 * time.Second
	DefaultFallbackTimeout = 3 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	sampleRate, err := strconv.ParseFloat(getEnv("TRACING_SAMPLE_RATE", "1.0"), 64)
	if err != nil {
		return nil, errors.New("invalid tracing sample rate")
	}

	requestTimeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", DefaultRequestTimeout.String()))
	if err != nil {
		return nil, errors.New("invalid request timeout")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Resale Market Feed API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: requestTimeout,
			AllowOrigins:   []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "resale_market"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Feed: FeedConfig{
			OracleBackend:   getEnv("ORACLE_BACKEND", "postgres"),
			RPCURL:          getEnv("ORACLE_RPC_URL", ""),
			RPCKey:          getEnv("ORACLE_RPC_KEY", ""),
			CacheBackend:    getEnv("FEED_CACHE_BACKEND", "memory"),
			CacheTTL:        DefaultFeedCacheTTL,
			MaxAttempts:     DefaultFeedAttempts,
			BackoffBase:     DefaultFeedBackoffBase,
			OracleTimeout:   DefaultOracleTimeout,
			FallbackTimeout: DefaultFallbackTimeout,
			DefaultMode:     DefaultFeedMode,
			ConfigFile:      getEnv("FEED_CONFIG_FILE", ""),
		},
		Tracing: TracingConfig{
			Enabled:      getEnv("TRACING_ENABLED", "false") == "true",
			Endpoint:     getEnv("TRACING_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("TRACING_SERVICE_NAME", "resale-feed-api"),
			SampleRate:   sampleRate,
			InsecureConn: getEnv("TRACING_INSECURE", "true") == "true",
		},
	}

	if err := applyFeedOverrides(&cfg.Feed); err != nil {
		return nil, err
	}

	if cfg.Feed.OracleTimeout >= cfg.Server.RequestTimeout {
		return nil, fmt.Errorf("feed oracle timeout %s must be below request timeout %s", cfg.Feed.OracleTimeout, cfg.Server.RequestTimeout)
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Feed.OracleBackend != "postgres" && cfg.Feed.OracleBackend != "rpc" {
		return nil, fmt.Errorf("unknown oracle backend %q", cfg.Feed.OracleBackend)
	}

	if cfg.Feed.OracleBackend == "rpc" && cfg.Feed.RPCURL == "" {
		return nil, errors.New("missing oracle rpc url")
	}

	if cfg.Feed.CacheBackend != "memory" && cfg.Feed.CacheBackend != "redis" {
		return nil, fmt.Errorf("unknown feed cache backend %q", cfg.Feed.CacheBackend)
	}

	return cfg, nil
}

// applyFeedOverrides layers the optional YAML file and then the FEED_*
// environment variables on top of the compiled defaults. Env wins.
func applyFeedOverrides(fc *FeedConfig) error {
	k := koanf.New(".")

	if fc.ConfigFile != "" {
		if err := k.Load(file.Provider(fc.ConfigFile), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load feed config file %s: %w", fc.ConfigFile, err)
		}
	}

	if k.Exists("feed.cache_ttl") {
		fc.CacheTTL = k.Duration("feed.cache_ttl")
	}
	if k.Exists("feed.max_attempts") {
		fc.MaxAttempts = k.Int("feed.max_attempts")
	}
	if k.Exists("feed.backoff_base") {
		fc.BackoffBase = k.Duration("feed.backoff_base")
	}
	if k.Exists("feed.oracle_timeout") {
		fc.OracleTimeout = k.Duration("feed.oracle_timeout")
	}
	if k.Exists("feed.fallback_timeout") {
		fc.FallbackTimeout = k.Duration("feed.fallback_timeout")
	}
	if k.Exists("feed.default_mode") {
		fc.DefaultMode = k.String("feed.default_mode")
	}

	if val := os.Getenv("FEED_CACHE_TTL"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return errors.New("invalid FEED_CACHE_TTL")
		}
		fc.CacheTTL = d
	}
	if val := os.Getenv("FEED_MAX_ATTEMPTS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return errors.New("invalid FEED_MAX_ATTEMPTS")
		}
		fc.MaxAttempts = n
	}
	if val := os.Getenv("FEED_BACKOFF_BASE"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return errors.New("invalid FEED_BACKOFF_BASE")
		}
		fc.BackoffBase = d
	}
	if val := os.Getenv("FEED_ORACLE_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return errors.New("invalid FEED_ORACLE_TIMEOUT")
		}
		fc.OracleTimeout = d
	}
	if val := os.Getenv("FEED_FALLBACK_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return errors.New("invalid FEED_FALLBACK_TIMEOUT")
		}
		fc.FallbackTimeout = d
	}
	fc.DefaultMode = getEnv("FEED_DEFAULT_MODE", fc.DefaultMode)

	if fc.CacheTTL <= 0 {
		return errors.New("feed cache ttl must be positive")
	}
	if fc.OracleTimeout <= 0 || fc.FallbackTimeout <= 0 {
		return errors.New("feed oracle and fallback timeouts must be positive")
	}
	if fc.MaxAttempts < 1 {
		return errors.New("feed max attempts must be at least 1")
	}
	if fc.DefaultMode != "basic" && fc.DefaultMode != "personalized" {
		return fmt.Errorf("unknown feed default mode %q", fc.DefaultMode)
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
