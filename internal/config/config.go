package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// MinJWTSecretLength is the shortest HS256 signing key accepted at startup.
const MinJWTSecretLength = 32

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Redis      RedisConfig      `mapstructure:"redis"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	Adherence  AdherenceConfig  `mapstructure:"adherence"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

const (
	DriverPostgres = "postgres"
	// DriverMemory keeps all data in process; for local runs only.
	DriverMemory = "memory"
)

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	Issuer        string `mapstructure:"issuer"`
	Audience      string `mapstructure:"audience"`
	ExpiryMinutes int    `mapstructure:"expiry_minutes"`
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	RPS     float64       `mapstructure:"rps"`
	Burst   int           `mapstructure:"burst"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

type SchedulingConfig struct {
	// RegenerateOnFrequencyChange replaces a medication's dose slots when an
	// update changes its frequency. Off by default: slots are generated once.
	RegenerateOnFrequencyChange bool `mapstructure:"regenerate_on_frequency_change"`
}

type AdherenceConfig struct {
	// StrictSlotOwnership rejects a dose slot that belongs to a different
	// medication than the one named in the request.
	StrictSlotOwnership bool `mapstructure:"strict_slot_ownership"`
}

// secrets are read from MEDTRACK_* variables and win over the file.
type secrets struct {
	JWTSecret        string `envconfig:"JWT_SECRET"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	RedisPassword    string `envconfig:"REDIS_PASSWORD"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "medtrack")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "medtrack-api")
	v.SetDefault("jwt.audience", "medtrack-clients")
	v.SetDefault("jwt.expiry_minutes", 60)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.ttl", 10*time.Minute)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "medtrack")

	v.SetDefault("scheduling.regenerate_on_frequency_change", false)
	v.SetDefault("adherence.strict_slot_ownership", false)
}

// LoadConfig reads config.yml from the usual locations (or from path when
// set), applies environment overrides and validates the result. A missing
// config file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app")
		v.AddConfigPath("/app/config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var s secrets
	if err := envconfig.Process("medtrack", &s); err != nil {
		return nil, fmt.Errorf("failed to read secrets from environment: %w", err)
	}
	if s.JWTSecret != "" {
		cfg.JWT.Secret = s.JWTSecret
	}
	if s.DatabasePassword != "" {
		cfg.Database.Password = s.DatabasePassword
	}
	if s.RedisPassword != "" {
		cfg.Redis.Password = s.RedisPassword
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if len(c.JWT.Secret) < MinJWTSecretLength {
		return fmt.Errorf("jwt.secret must be at least %d characters", MinJWTSecretLength)
	}
	if c.JWT.ExpiryMinutes <= 0 {
		return fmt.Errorf("jwt.expiry_minutes must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	return nil
}
