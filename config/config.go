package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultAccessSecret = "your-very-strong-access-secret"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type AppConfig struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	Port            string        `envconfig:"PORT" default:"8088"`
	FrontendURL     string        `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"password"`
	Name     string `envconfig:"DB_NAME" default:"cricbook"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	// Path is the sqlite file, ":memory:" for an ephemeral database.
	Path string `envconfig:"DB_PATH" default:"cricbook.db"`
}

type JWTConfig struct {
	AccessTokenSecret        string `envconfig:"JWT_ACCESS_TOKEN_SECRET" default:"your-very-strong-access-secret"`
	AccessTokenExpiryMinutes int    `envconfig:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES" default:"60"`
	RefreshTokenExpiryDays   int    `envconfig:"JWT_REFRESH_TOKEN_EXPIRY_DAYS" default:"7"`
}

type RedisConfig struct {
	Addr          string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password      string        `envconfig:"REDIS_PASSWORD" default:""`
	DB            int           `envconfig:"REDIS_DB" default:"0"`
	ScoreCacheTTL time.Duration `envconfig:"REDIS_SCORE_CACHE_TTL" default:"6h"`
	ScoreStream   string        `envconfig:"REDIS_SCORE_STREAM" default:"cricbook.scores"`
	StreamMaxLen  int64         `envconfig:"REDIS_STREAM_MAXLEN" default:"10000"`
	TrendingTTL   time.Duration `envconfig:"REDIS_TRENDING_TTL" default:"15m"`
}

type RabbitMQConfig struct {
	// URL empty disables the queue; notifications are then written directly.
	URL   string `envconfig:"RABBITMQ_URL" default:""`
	Queue string `envconfig:"RABBITMQ_NOTIFICATION_QUEUE" default:"cricbook.notifications"`
}

type RateLimitConfig struct {
	Enabled        bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Capacity       int           `envconfig:"RATE_LIMIT_CAPACITY" default:"60"`
	RefillTokens   int           `envconfig:"RATE_LIMIT_REFILL_TOKENS" default:"1"`
	RefillInterval time.Duration `envconfig:"RATE_LIMIT_REFILL_INTERVAL" default:"1s"`
	TTL            time.Duration `envconfig:"RATE_LIMIT_TTL" default:"10m"`
	Prefix         string        `envconfig:"RATE_LIMIT_PREFIX" default:"cricbook:rl"`
}

type SchedulerConfig struct {
	Enabled               bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	ReconcileCron         string        `envconfig:"SCORE_RECONCILE_CRON" default:"*/5 * * * *"`
	TrendingCron          string        `envconfig:"TRENDING_REFRESH_CRON" default:"*/10 * * * *"`
	PruneCron             string        `envconfig:"NOTIFICATION_PRUNE_CRON" default:"0 3 * * *"`
	NotificationRetention time.Duration `envconfig:"NOTIFICATION_RETENTION" default:"720h"`
}

type AdminConfig struct {
	Username string `envconfig:"ADMIN_USERNAME" default:""`
	Password string `envconfig:"ADMIN_PASSWORD" default:""`
	Name     string `envconfig:"ADMIN_NAME" default:"Administrator"`
}

type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
	Admin     AdminConfig
}

// Global DB instance, accessible after ConnectDB() is called via Initialize.
var DB *gorm.DB

var appConfig *Config
var once sync.Once

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on system environment variables")
	}

	cfg := &Config{}
	sections := []interface{}{&cfg.App, &cfg.DB, &cfg.JWT, &cfg.Redis, &cfg.RabbitMQ, &cfg.RateLimit, &cfg.Scheduler, &cfg.Admin}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to process environment config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.JWT.AccessTokenSecret == defaultAccessSecret {
		log.Warn().Msg("Using default JWT secret. Set JWT_ACCESS_TOKEN_SECRET outside development.")
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DB.Driver)
	}
	if c.IsProduction() && c.JWT.AccessTokenSecret == defaultAccessSecret {
		return errors.New("JWT_ACCESS_TOKEN_SECRET must be changed in production")
	}
	if c.JWT.AccessTokenExpiryMinutes < 1 {
		return errors.New("JWT_ACCESS_TOKEN_EXPIRY_MINUTES must be at least 1")
	}
	if c.RateLimit.Enabled && c.RateLimit.Capacity < 1 {
		return errors.New("RATE_LIMIT_CAPACITY must be at least 1")
	}
	if (c.Admin.Username == "") != (c.Admin.Password == "") {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port, c.DB.SSLMode, c.DB.TimeZone,
	)
}

// ConnectDB opens the configured database and sets the global DB.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	if cfg.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DB.Path)
	default:
		dialector = postgres.Open(cfg.DatabaseDSN())
	}

	gormDB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gormDB
	log.Info().Str("driver", cfg.DB.Driver).Msg("Successfully connected to database")
	return gormDB, nil
}

// Initialize loads all configurations and connects to the database.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		appConfig = loadedCfg

		if _, err = ConnectDB(*appConfig); err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
func GetConfig() *Config {
	if appConfig == nil {
		log.Fatal().Msg("Configuration not loaded. Call config.Initialize() first.")
	}
	return appConfig
}
