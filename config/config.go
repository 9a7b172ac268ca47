package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config holds all configuration for the scoring service
type Config struct {
	Database   DatabaseConfig
	Kafka      KafkaConfig
	Logging    LoggingConfig
	Service    ServiceConfig
	Admin      AdminConfig
	RateLimit  RateLimitConfig
	Classifier ClassifierConfig
	Batch      BatchConfig
	Redis      RedisConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled               bool
	Brokers               []string
	GroupID               string
	TopicArticlesIngested string
	TopicTopicsScored     string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name     string
	Env      string
	Port     string
	GRPCPort string
}

// IsProduction reports whether internal error details must be hidden
func (c *ServiceConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// AdminConfig holds admin API configuration
type AdminConfig struct {
	APIKey string
}

// TierConfig describes a single rate limit tier
type TierConfig struct {
	Window time.Duration
	Max    int
}

// RateLimitConfig holds rate limiter tiers
type RateLimitConfig struct {
	Read            TierConfig
	Write           TierConfig
	Batch           TierConfig
	CleanupInterval time.Duration
	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For
	// header is believed. Empty means the socket address is always used.
	TrustedProxies []string
}

// ClassifierConfig holds external classifier client configuration
type ClassifierConfig struct {
	URL                   string
	APIKey                string
	Timeout               time.Duration
	MaxRetries            int
	RetryBackoff          time.Duration
	BatchSize             int
	GroupSize             int
	AggregationPolicyFile string
}

// BatchConfig holds scheduled batch configuration
type BatchConfig struct {
	ScheduleEnabled bool
	Interval        time.Duration
	RunTimeout      time.Duration
}

// RedisConfig holds read cache configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether the read cache is configured
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Result is fx.Out struct for providing config dependencies
type Result struct {
	fx.Out

	Config           *Config
	DatabaseConfig   *DatabaseConfig
	KafkaConfig      *KafkaConfig
	LoggingConfig    *LoggingConfig
	ServiceConfig    *ServiceConfig
	AdminConfig      *AdminConfig
	RateLimitConfig  *RateLimitConfig
	ClassifierConfig *ClassifierConfig
	BatchConfig      *BatchConfig
	RedisConfig      *RedisConfig
}

// Out returns fx-compatible config result
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:           cfg,
		DatabaseConfig:   &cfg.Database,
		KafkaConfig:      &cfg.Kafka,
		LoggingConfig:    &cfg.Logging,
		ServiceConfig:    &cfg.Service,
		AdminConfig:      &cfg.Admin,
		RateLimitConfig:  &cfg.RateLimit,
		ClassifierConfig: &cfg.Classifier,
		BatchConfig:      &cfg.Batch,
		RedisConfig:      &cfg.Redis,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:           getEnv("DATABASE_HOST", "localhost"),
			Port:           getEnv("DATABASE_PORT", "5432"),
			User:           getEnv("DATABASE_USER", "ecoticker"),
			Password:       getEnv("DATABASE_PASSWORD", "ecoticker"),
			DBName:         getEnv("DATABASE_NAME", "ecoticker"),
			SSLMode:        getEnv("DATABASE_SSLMODE", "disable"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		},
		Kafka: KafkaConfig{
			Enabled:               getEnvBool("KAFKA_ENABLED", false),
			Brokers:               splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			GroupID:               getEnv("KAFKA_GROUP_ID", "scoring-service-group"),
			TopicArticlesIngested: getEnv("KAFKA_TOPIC_ARTICLES_INGESTED", "articles.ingested"),
			TopicTopicsScored:     getEnv("KAFKA_TOPIC_TOPICS_SCORED", "topics.scored"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name:     getEnv("SERVICE_NAME", "scoring-service"),
			Env:      getEnv("APP_ENV", EnvDevelopment),
			Port:     getEnv("SERVICE_PORT", "8080"),
			GRPCPort: getEnv("GRPC_PORT", "9090"),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
		RateLimit: RateLimitConfig{
			Read: TierConfig{
				Window: getEnvDuration("RATE_LIMIT_READ_WINDOW", 60*time.Second),
				Max:    getEnvInt("RATE_LIMIT_READ_MAX", 100),
			},
			Write: TierConfig{
				Window: getEnvDuration("RATE_LIMIT_WRITE_WINDOW", 60*time.Second),
				Max:    getEnvInt("RATE_LIMIT_WRITE_MAX", 10),
			},
			Batch: TierConfig{
				Window: getEnvDuration("RATE_LIMIT_BATCH_WINDOW", time.Hour),
				Max:    getEnvInt("RATE_LIMIT_BATCH_MAX", 2),
			},
			CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
			TrustedProxies:  splitList(getEnv("TRUSTED_PROXIES", "")),
		},
		Classifier: ClassifierConfig{
			URL:                   getEnv("CLASSIFIER_URL", "http://localhost:8000"),
			APIKey:                getEnv("CLASSIFIER_API_KEY", ""),
			Timeout:               getEnvDuration("CLASSIFIER_TIMEOUT", 60*time.Second),
			MaxRetries:            getEnvInt("CLASSIFIER_MAX_RETRIES", 3),
			RetryBackoff:          getEnvDuration("CLASSIFIER_RETRY_BACKOFF", 2*time.Second),
			BatchSize:             getEnvInt("CLASSIFIER_BATCH_SIZE", 10),
			GroupSize:             getEnvInt("CLASSIFIER_GROUP_SIZE", 4),
			AggregationPolicyFile: getEnv("AGGREGATION_POLICY_FILE", ""),
		},
		Batch: BatchConfig{
			ScheduleEnabled: getEnvBool("BATCH_SCHEDULE_ENABLED", false),
			Interval:        getEnvDuration("BATCH_INTERVAL", 6*time.Hour),
			RunTimeout:      getEnvDuration("BATCH_RUN_TIMEOUT", 30*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DATABASE_USER is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	for name, tier := range map[string]TierConfig{
		"READ":  c.RateLimit.Read,
		"WRITE": c.RateLimit.Write,
		"BATCH": c.RateLimit.Batch,
	} {
		if tier.Window <= 0 || tier.Max <= 0 {
			return fmt.Errorf("RATE_LIMIT_%s_WINDOW and RATE_LIMIT_%s_MAX must be positive", name, name)
		}
	}

	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("RATE_LIMIT_CLEANUP_INTERVAL must be positive")
	}

	for _, proxy := range c.RateLimit.TrustedProxies {
		if _, _, err := net.ParseCIDR(proxy); err != nil && net.ParseIP(proxy) == nil {
			return fmt.Errorf("TRUSTED_PROXIES: %q is neither an IP nor a CIDR", proxy)
		}
	}

	if c.Classifier.BatchSize <= 0 {
		return fmt.Errorf("CLASSIFIER_BATCH_SIZE must be positive")
	}

	if c.Classifier.GroupSize <= 0 {
		return fmt.Errorf("CLASSIFIER_GROUP_SIZE must be positive")
	}

	if c.Classifier.MaxRetries < 0 {
		return fmt.Errorf("CLASSIFIER_MAX_RETRIES must not be negative")
	}

	if c.Batch.ScheduleEnabled && c.Batch.Interval <= 0 {
		return fmt.Errorf("BATCH_INTERVAL must be positive when BATCH_SCHEDULE_ENABLED is set")
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets environment variable as int with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvBool gets environment variable as bool with default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvDuration gets environment variable as duration with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
