package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	return Config{
		ServiceName: "transaction-service",
		Port:        "8084",
		Database:    DatabaseConfig{Driver: "postgres", URL: "postgres://localhost/ledger"},
		Redis:       RedisConfig{Addr: "localhost:6379"},
		Events:      EventsConfig{Broker: "redis"},
		Remote:      RemoteConfig{AccountServiceURL: "http://localhost:8083"},
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	testChdir(t, t.TempDir())

	cfg, err := Load(defaults())
	require.NoError(t, err)
	assert.Equal(t, "8084", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 1, cfg.EnrichConcurrency)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
database:
  driver: sqlite
  url: "file:ledger.db"
remote:
  accountServiceURL: "http://accounts:8083/"
  timeout: 3s
enrichConcurrency: 8
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load(defaults())
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port, "environment wins over the file")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:ledger.db", cfg.Database.URL)
	assert.Equal(t, "http://accounts:8083", cfg.Remote.AccountServiceURL)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 8, cfg.EnrichConcurrency)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr, "untouched keys keep their defaults")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EVENT_BROKER=none\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("EVENT_BROKER") })

	cfg, err := Load(defaults())
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Events.Broker)
}

func TestLoad_InvalidValues(t *testing.T) {
	testChdir(t, t.TempDir())

	t.Run("timeout", func(t *testing.T) {
		t.Setenv("REMOTE_TIMEOUT", "soon")
		_, err := Load(defaults())
		assert.ErrorContains(t, err, "REMOTE_TIMEOUT")
	})
	t.Run("concurrency", func(t *testing.T) {
		t.Setenv("ENRICH_CONCURRENCY", "many")
		_, err := Load(defaults())
		assert.ErrorContains(t, err, "ENRICH_CONCURRENCY")
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("LEDGER_TEST_KEY", "")
	assert.Equal(t, "fallback", GetEnv("LEDGER_TEST_KEY", "fallback"))
	t.Setenv("LEDGER_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnv("LEDGER_TEST_KEY", "fallback"))
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}
