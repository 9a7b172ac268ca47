package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("RATE_LIMIT_BATCH_MAX", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.RateLimit.Read.Window)
	assert.Equal(t, 100, cfg.RateLimit.Read.Max)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Write.Window)
	assert.Equal(t, 10, cfg.RateLimit.Write.Max)
	assert.Equal(t, time.Hour, cfg.RateLimit.Batch.Window)
	assert.Equal(t, 2, cfg.RateLimit.Batch.Max)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.CleanupInterval)
	assert.Empty(t, cfg.RateLimit.TrustedProxies)

	assert.Equal(t, 60*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 10, cfg.Classifier.BatchSize)
	assert.Equal(t, 4, cfg.Classifier.GroupSize)

	assert.False(t, cfg.Service.IsProduction())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("RATE_LIMIT_WRITE_MAX", "25")
	t.Setenv("CLASSIFIER_TIMEOUT", "15s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Service.IsProduction())
	assert.Equal(t, 25, cfg.RateLimit.Write.Max)
	assert.Equal(t, 15*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_READ_MAX", "many")
	t.Setenv("BATCH_INTERVAL", "often")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.RateLimit.Read.Max)
	assert.Equal(t, 6*time.Hour, cfg.Batch.Interval)
}

func TestValidate_RejectsNonPositiveTier(t *testing.T) {
	t.Setenv("RATE_LIMIT_BATCH_MAX", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_BATCH")
}

func TestValidate_KafkaBrokersRequiredWhenEnabled(t *testing.T) {
	cfg := &Config{
		Database:   DatabaseConfig{Host: "h", User: "u", DBName: "d"},
		Kafka:      KafkaConfig{Enabled: true},
		RateLimit:  RateLimitConfig{Read: TierConfig{1, 1}, Write: TierConfig{1, 1}, Batch: TierConfig{1, 1}},
		Classifier: ClassifierConfig{BatchSize: 10, GroupSize: 4},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestValidate_BatchIntervalRequiredWhenScheduled(t *testing.T) {
	t.Setenv("BATCH_SCHEDULE_ENABLED", "true")
	t.Setenv("BATCH_INTERVAL", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_INTERVAL")
}

func TestValidate_CleanupIntervalMustBePositive(t *testing.T) {
	t.Setenv("RATE_LIMIT_CLEANUP_INTERVAL", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_CLEANUP_INTERVAL")
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.RateLimit.TrustedProxies)
}

func TestValidate_RejectsMalformedTrustedProxy(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,gateway")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway")
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "eco", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=eco sslmode=disable TimeZone=UTC", cfg.GetDSN())
}
