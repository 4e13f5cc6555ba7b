package arcadedb

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultPort is the default HTTP port of an ArcadeDB server.
	DefaultPort = 2480
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the default number of retries for transient failures.
	DefaultMaxRetries = 3
	// DefaultPageSize is the default number of rows fetched per page.
	DefaultPageSize = 20000
	// DefaultBatchSize is the default number of rows rendered per INSERT batch.
	DefaultBatchSize = 1000
)

// Config defines the connection settings for an ArcadeDB server.
type Config struct {
	// Host is the ArcadeDB server host.
	Host string
	// Port is the ArcadeDB server HTTP port.
	Port int
	// Database is the name of the database to operate on. Required.
	Database string
	// Username is the username for basic authentication. Required.
	Username string
	// Password is the password for basic authentication. Required.
	Password string
	// UseSSL selects https instead of http.
	UseSSL bool
	// Timeout is the per-request timeout.
	Timeout time.Duration
	// MaxRetries is the number of retries for transient failures (429/5xx and
	// connection errors). Retries apply uniformly to all commands, including
	// non-idempotent ones; see the package documentation for the implications.
	MaxRetries int
	// PageSize is the number of rows fetched per page by paginated reads.
	PageSize int
	// BatchSize is the number of rows rendered per INSERT batch. The effective
	// batch size shrinks for wide rows; see InsertRows.
	BatchSize int
	// IndexableColumns is the set of column names that get an index when a
	// dataset schema is inferred from an Arrow record.
	IndexableColumns []string
	// Logger receives structured logs from the client. Defaults to the
	// standard logrus logger.
	Logger logrus.FieldLogger
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Host == "" {
		out.Host = "localhost"
	}
	if out.Port == 0 {
		out.Port = DefaultPort
	}
	if out.Timeout == 0 {
		out.Timeout = DefaultTimeout
	}
	if out.MaxRetries == 0 {
		out.MaxRetries = DefaultMaxRetries
	}
	if out.PageSize == 0 {
		out.PageSize = DefaultPageSize
	}
	if out.BatchSize == 0 {
		out.BatchSize = DefaultBatchSize
	}
	if out.Logger == nil {
		out.Logger = logrus.StandardLogger()
	}
	return &out
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return newError(ErrConfiguration, "host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return newErrorf(ErrConfiguration, "port out of range: %d", c.Port)
	}
	if c.Database == "" {
		return newError(ErrConfiguration, "database must not be empty")
	}
	if c.Username == "" || c.Password == "" {
		return newError(ErrConfiguration, "username and password must not be empty")
	}
	if c.Timeout < 0 || c.MaxRetries < 0 || c.PageSize < 0 || c.BatchSize < 0 {
		return newError(ErrConfiguration, "timeout, retries, page size and batch size must not be negative")
	}
	return nil
}

// baseURL returns the scheme://host:port prefix of the server.
func (c *Config) baseURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}

// apiURL returns the base URL of the HTTP API.
func (c *Config) apiURL() string {
	return c.baseURL() + "/api/v1"
}

// ConfigFromEnv builds a Config from ARCADEDB_* environment variables,
// optionally loading them from the given .env files first.
//
// Recognized variables: ARCADEDB_HOST, ARCADEDB_PORT, ARCADEDB_NAME,
// ARCADEDB_USER, ARCADEDB_PASS, ARCADEDB_USE_SSL, ARCADEDB_TIMEOUT,
// ARCADEDB_MAX_RETRIES, ARCADEDB_PAGE_SIZE, ARCADEDB_BATCH_SIZE.
func ConfigFromEnv(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, wrapError(ErrConfiguration, err, "failed to load env file")
		}
	} else {
		// Best effort: a missing .env in the working directory is fine.
		_ = godotenv.Load()
	}

	var missing []string
	requireEnv := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	config := &Config{
		Host:     os.Getenv("ARCADEDB_HOST"),
		Database: requireEnv("ARCADEDB_NAME"),
		Username: requireEnv("ARCADEDB_USER"),
		Password: requireEnv("ARCADEDB_PASS"),
	}
	if len(missing) > 0 {
		return nil, newErrorf(ErrConfiguration, "missing required environment variables: %s", strings.Join(missing, ", "))
	}

	intEnvs := map[string]*int{
		"ARCADEDB_PORT":        &config.Port,
		"ARCADEDB_MAX_RETRIES": &config.MaxRetries,
		"ARCADEDB_PAGE_SIZE":   &config.PageSize,
		"ARCADEDB_BATCH_SIZE":  &config.BatchSize,
	}
	for key, dst := range intEnvs {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, newErrorf(ErrConfiguration, "invalid integer value for %s: %q", key, v)
			}
			*dst = n
		}
	}
	if v := os.Getenv("ARCADEDB_USE_SSL"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "y", "yes", "on":
			config.UseSSL = true
		}
	}
	if v := os.Getenv("ARCADEDB_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, newErrorf(ErrConfiguration, "invalid integer value for ARCADEDB_TIMEOUT: %q", v)
		}
		config.Timeout = time.Duration(secs) * time.Second
	}
	return config, nil
}
