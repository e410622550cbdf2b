package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "marketplace-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.True(t, cfg.App.IsDevelopment())
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "marketplace", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "local", cfg.Storage.Driver)
		assert.Equal(t, int64(10<<20), cfg.Storage.MaxFileSize)
		assert.Equal(t, 10, cfg.Storage.MaxFiles)
		assert.Equal(t, 0.10, cfg.Order.TaxRate)
		assert.Equal(t, 100.0, cfg.Order.FreeShippingThreshold)
		assert.Equal(t, 10.0, cfg.Order.ShippingFee)
		assert.Equal(t, 24*time.Hour, cfg.Order.IdempotencyTTL)
		assert.Equal(t, 30*24*time.Hour, cfg.Cart.TTL)
		assert.True(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, "marketplace-backend", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with MKT prefix", func(t *testing.T) {
		t.Setenv("MKT_APP_NAME", "shop")
		t.Setenv("MKT_APP_ENV", "testing")
		t.Setenv("MKT_DATABASE_HOST", "db.local")
		t.Setenv("MKT_DATABASE_PORT", "5433")
		t.Setenv("MKT_REDIS_ENABLED", "true")
		t.Setenv("MKT_ORDER_SHIPPING_FEE", "7.5")
		t.Setenv("MKT_CART_TTL", "48h")
		t.Setenv("MKT_TELEMETRY_METRICS_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shop", cfg.App.Name)
		assert.False(t, cfg.App.IsDevelopment())
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, 7.5, cfg.Order.ShippingFee)
		assert.Equal(t, 48*time.Hour, cfg.Cart.TTL)
		assert.False(t, cfg.Telemetry.MetricsEnabled)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("MKT_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("MKT_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("s3 driver requires a bucket", func(t *testing.T) {
		t.Setenv("MKT_STORAGE_DRIVER", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		t.Setenv("MKT_STORAGE_DRIVER", "ftp")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects tax rate out of range", func(t *testing.T) {
		t.Setenv("MKT_ORDER_TAX_RATE", "1.5")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}}
		applyDefaults(cfg)
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "jwt.secret is required"},
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "at least 32"},
		{"missing db password", func(c *Config) { c.Database.Password = "" }, "database.password"},
		{"ssl disabled", func(c *Config) { c.Database.SSLMode = "disable" }, "sslmode"},
		{"wildcard cors", func(c *Config) { c.HTTP.CORSAllowOrigins = []string{"*"} }, "cors_allow_origins"},
		{"open swagger", func(c *Config) { c.Swagger.Enabled = true }, "swagger"},
		{"full sql", func(c *Config) { c.Telemetry.DBLogFullSQL = true }, "db_log_full_sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/shop?sslmode=disable", d.DSN())
}
