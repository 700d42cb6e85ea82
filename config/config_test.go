package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8088", cfg.App.Port)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.Equal(t, "cricbook.notifications", cfg.RabbitMQ.Queue)
	assert.Equal(t, "*/5 * * * *", cfg.Scheduler.ReconcileCron)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "250ms")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, int64(250), cfg.RateLimit.RefillInterval.Milliseconds())
	assert.Equal(t, 5, cfg.JWT.AccessTokenExpiryMinutes)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.App.Env = "development"
		c.DB.Driver = DriverPostgres
		c.JWT.AccessTokenSecret = defaultAccessSecret
		c.JWT.AccessTokenExpiryMinutes = 15
		c.RateLimit.Enabled = true
		c.RateLimit.Capacity = 10
		return c
	}
	require.NoError(t, valid().Validate())

	c := valid()
	c.DB.Driver = "mysql"
	assert.Error(t, c.Validate())

	c = valid()
	c.App.Env = "production"
	assert.Error(t, c.Validate())

	c = valid()
	c.JWT.AccessTokenExpiryMinutes = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.RateLimit.Capacity = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.Admin.Username = "root"
	assert.Error(t, c.Validate())
}

func TestConnectDB_SQLite(t *testing.T) {
	cfg := Config{}
	cfg.App.Env = "test"
	cfg.DB.Driver = DriverSQLite
	cfg.DB.Path = ":memory:"

	db, err := ConnectDB(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.Same(t, db, DB)
}

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient(RedisConfig{}))
}
