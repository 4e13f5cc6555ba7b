package arcadedb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := (&Config{Database: "testdb", Username: "root", Password: "pw"}).withDefaults()
	require.Equal(t, "localhost", cfg.Host)
	require.Equal(t, DefaultPort, cfg.Port)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	require.Equal(t, DefaultPageSize, cfg.PageSize)
	require.Equal(t, DefaultBatchSize, cfg.BatchSize)
	require.NotNil(t, cfg.Logger)
	require.Equal(t, "http://localhost:2480", cfg.baseURL())
	require.Equal(t, "http://localhost:2480/api/v1", cfg.apiURL())
}

func TestConfigValidate(t *testing.T) {
	_, err := NewClient(&Config{Username: "root", Password: "pw"})
	require.Error(t, err)
	require.True(t, IsKind(err, ErrConfiguration))

	_, err = NewClient(&Config{Database: "testdb"})
	require.Error(t, err)
	require.True(t, IsKind(err, ErrConfiguration))

	_, err = NewClient(&Config{Database: "testdb", Username: "root", Password: "pw", Port: 99999})
	require.Error(t, err)
	require.True(t, IsKind(err, ErrConfiguration))
}

func TestConfigSSL(t *testing.T) {
	cfg := (&Config{Database: "testdb", Username: "root", Password: "pw", UseSSL: true, Host: "db.example.com", Port: 2481}).withDefaults()
	require.Equal(t, "https://db.example.com:2481", cfg.baseURL())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ARCADEDB_HOST", "db.internal")
	t.Setenv("ARCADEDB_NAME", "utacs")
	t.Setenv("ARCADEDB_USER", "root")
	t.Setenv("ARCADEDB_PASS", "secret")
	t.Setenv("ARCADEDB_PORT", "2481")
	t.Setenv("ARCADEDB_USE_SSL", "yes")
	t.Setenv("ARCADEDB_TIMEOUT", "10")
	t.Setenv("ARCADEDB_MAX_RETRIES", "5")
	t.Setenv("ARCADEDB_PAGE_SIZE", "500")
	t.Setenv("ARCADEDB_BATCH_SIZE", "100")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, "db.internal", cfg.Host)
	require.Equal(t, "utacs", cfg.Database)
	require.Equal(t, "root", cfg.Username)
	require.Equal(t, "secret", cfg.Password)
	require.Equal(t, 2481, cfg.Port)
	require.True(t, cfg.UseSSL)
	require.Equal(t, 10*time.Second, cfg.Timeout)
	require.Equal(t, 5, cfg.MaxRetries)
	require.Equal(t, 500, cfg.PageSize)
	require.Equal(t, 100, cfg.BatchSize)
}

func TestConfigFromEnvMissingRequired(t *testing.T) {
	t.Setenv("ARCADEDB_NAME", "utacs")
	t.Setenv("ARCADEDB_USER", "")
	t.Setenv("ARCADEDB_PASS", "")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	require.True(t, IsKind(err, ErrConfiguration))
	require.Contains(t, err.Error(), "ARCADEDB_USER")
	require.Contains(t, err.Error(), "ARCADEDB_PASS")
}

func TestConfigFromEnvInvalidInt(t *testing.T) {
	t.Setenv("ARCADEDB_NAME", "utacs")
	t.Setenv("ARCADEDB_USER", "root")
	t.Setenv("ARCADEDB_PASS", "secret")
	t.Setenv("ARCADEDB_PORT", "not-a-port")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	require.True(t, IsKind(err, ErrConfiguration))
}
