package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "settlement-service", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 100, cfg.Event.BatchSize)
		assert.Equal(t, 5*time.Second, cfg.Event.PollInterval)
		assert.Equal(t, 24*time.Hour, cfg.Event.IdempotencyTTL)
		assert.True(t, cfg.Settlement.InlinePosting)
		assert.Equal(t, 5*time.Second, cfg.Settlement.PostingTimeout)
		assert.Equal(t, uint32(5), cfg.Settlement.BreakerMaxFailures)
		assert.Equal(t, "JE-", cfg.Settlement.DocumentPrefix)
		assert.Equal(t, "settlement-service", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with ERP prefix", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ERP_APP_PORT", "9000")
		t.Setenv("ERP_DATABASE_DRIVER", "sqlite")
		t.Setenv("ERP_DATABASE_SQLITE_PATH", "/tmp/x.db")
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("ERP_SETTLEMENT_INLINE_POSTING", "false")
		t.Setenv("ERP_SETTLEMENT_POSTING_TIMEOUT", "2s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "/tmp/x.db", cfg.Database.SQLitePath)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Settlement.InlinePosting)
		assert.Equal(t, 2*time.Second, cfg.Settlement.PostingTimeout)
	})

	t.Run("rejects idle pool above open pool", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		assert.ErrorContains(t, err, "cannot exceed")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ERP_DATABASE_DRIVER", "mysql")

		_, err := Load()
		assert.ErrorContains(t, err, "database.driver")
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[app]
name = "pos-settlement"

[event]
batch_size = 20
poll_interval = "1s"

[settlement]
breaker_max_failures = 3
breaker_open_timeout = "10s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "pos-settlement", cfg.App.Name)
	assert.Equal(t, 20, cfg.Event.BatchSize)
	assert.Equal(t, time.Second, cfg.Event.PollInterval)
	assert.Equal(t, uint32(3), cfg.Settlement.BreakerMaxFailures)
	assert.Equal(t, 10*time.Second, cfg.Settlement.BreakerOpenTimeout)
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}}
		applyDefaults(cfg)
		cfg.JWT = JWTConfig{Enabled: true, Secret: "0123456789abcdef0123456789abcdef"}
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	t.Run("valid production config", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"short jwt secret", func(c *Config) { c.JWT.Secret = "short" }, "at least 32"},
		{"jwt disabled", func(c *Config) { c.JWT.Enabled = false }, "jwt.enabled"},
		{"sqlite driver", func(c *Config) { c.Database.Driver = "sqlite" }, "postgres in production"},
		{"ssl disabled", func(c *Config) { c.Database.SSLMode = "disable" }, "sslmode"},
		{"auto migrate", func(c *Config) { c.Database.AutoMigrate = true }, "auto_migrate"},
		{"wildcard cors", func(c *Config) { c.HTTP.CORSAllowOrigins = []string{"*"} }, "cors_allow_origins"},
		{"open swagger", func(c *Config) { c.Swagger.Enabled = true }, "swagger"},
		{"full sql logging", func(c *Config) { c.Telemetry.DBLogFullSQL = true }, "db_log_full_sql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.validate(), tt.want)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := &DatabaseConfig{Host: "db", Port: 5432, User: "erp", Password: "p@ss/word", DBName: "erp", SSLMode: "require"}
	assert.Equal(t, "postgres://erp:p%40ss%2Fword@db:5432/erp?sslmode=require", d.DSN())
}
