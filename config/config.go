package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	ErrWeakJWTSecret    = errors.New("JWT secret must be at least 32 characters in production")
	ErrInvalidRateLimit = errors.New("rate limits must allow at least one request per positive window")
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	AI        AIConfig        `mapstructure:"ai"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Surah     SurahConfig     `mapstructure:"surah"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	BindAddress string `mapstructure:"bind_address"`
	Env         string `mapstructure:"env"` // development, test, production
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

// AIConfig points at an OpenAI-compatible chat completions endpoint.
type AIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	QuizListTTL  time.Duration `mapstructure:"quiz_list_ttl"`
	DashboardTTL time.Duration `mapstructure:"dashboard_ttl"`
}

type RateLimitConfig struct {
	MaxRequests     int           `mapstructure:"max_requests"`
	Window          time.Duration `mapstructure:"window"`
	AuthMaxRequests int           `mapstructure:"auth_max_requests"`
	QuizMaxRequests int           `mapstructure:"quiz_max_requests"`
}

func (r RateLimitConfig) validate() error {
	if r.Window <= 0 || r.MaxRequests <= 0 || r.AuthMaxRequests <= 0 || r.QuizMaxRequests <= 0 {
		return fmt.Errorf("%w: max_requests=%d auth_max_requests=%d quiz_max_requests=%d window=%s",
			ErrInvalidRateLimit, r.MaxRequests, r.AuthMaxRequests, r.QuizMaxRequests, r.Window)
	}
	return nil
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
	ServiceName       string `mapstructure:"service_name"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type SurahConfig struct {
	DatasetURL   string        `mapstructure:"dataset_url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Load reads .env, an optional config.yaml and the environment, in that order of precedence.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.IsProduction() && len(cfg.JWT.Secret) < 32 {
		return nil, ErrWeakJWTSecret
	}
	if err := cfg.RateLimit.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.bind_address", "")
	v.SetDefault("server.env", "development")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "quranstudy")
	v.SetDefault("database.password", "quranstudy")
	v.SetDefault("database.name", "quranstudy")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_ttl", "30m")
	v.SetDefault("jwt.refresh_ttl", "720h")

	v.SetDefault("ai.base_url", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("ai.model", "gemini-2.0-flash-001")
	v.SetDefault("ai.timeout", "60s")

	v.SetDefault("cache.quiz_list_ttl", "5m")
	v.SetDefault("cache.dashboard_ttl", "24h")

	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.auth_max_requests", 20)
	v.SetDefault("rate_limit.quiz_max_requests", 10)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "quranstudy")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("surah.dataset_url", "https://raw.githubusercontent.com/fardanahmed/recite-ml/refs/heads/master/data/data-uthmani.json")
	v.SetDefault("surah.fetch_timeout", "15s")

	v.SetDefault("log.file", "logs/app.log")
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT", "SERVER_PORT")
	_ = v.BindEnv("server.bind_address", "BIND_ADDRESS")
	_ = v.BindEnv("server.env", "APP_ENV", "NODE_ENV")

	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")

	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")

	_ = v.BindEnv("jwt.secret", "JWT_SECRET")

	_ = v.BindEnv("ai.base_url", "AI_BASE_URL")
	_ = v.BindEnv("ai.api_key", "AI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("ai.model", "AI_MODEL")
	_ = v.BindEnv("ai.timeout", "AI_TIMEOUT")

	_ = v.BindEnv("rate_limit.max_requests", "RATE_LIMIT_MAX_REQUESTS")
	_ = v.BindEnv("rate_limit.auth_max_requests", "RATE_LIMIT_AUTH_MAX_REQUESTS")
	_ = v.BindEnv("rate_limit.quiz_max_requests", "RATE_LIMIT_QUIZ_MAX_REQUESTS")

	_ = v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	_ = v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	_ = v.BindEnv("surah.dataset_url", "SURAH_DATASET_URL")
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Database.Host, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		cfg.Database.Port, cfg.Database.SSLMode)

	logLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func InitRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
