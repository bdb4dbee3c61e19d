package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	SourceDatabase DatabaseConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	Batch          BatchConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// Addr returns the host:port the HTTP server listens on
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL          string // overrides the individual fields when set
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	CatalogTopic string
	GroupID      string
}

// RedisConfig holds the checkpoint store configuration
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// BatchConfig holds defaults for synthesis runs
type BatchConfig struct {
	Workers         int
	PageSize        int
	MaxRetries      int
	ContinueOnError bool
}

// env maps config keys to the environment variables that set them
var env = map[string]string{
	"server.port":             "SERVER_PORT",
	"server.host":             "SERVER_HOST",
	"database.url":            "DATABASE_URL",
	"database.host":           "DB_HOST",
	"database.port":           "DB_PORT",
	"database.user":           "DB_USER",
	"database.password":       "DB_PASSWORD",
	"database.name":           "DB_NAME",
	"database.sslmode":        "DB_SSLMODE",
	"database.max_open_conns": "DB_MAX_OPEN_CONNS",
	"source_database.url":     "SOURCE_DATABASE_URL",
	"kafka.enabled":           "KAFKA_ENABLED",
	"kafka.brokers":           "KAFKA_BROKERS",
	"kafka.topic":             "KAFKA_TOPIC",
	"kafka.catalog_topic":     "KAFKA_CATALOG_TOPIC",
	"kafka.group_id":          "KAFKA_GROUP_ID",
	"redis.enabled":           "REDIS_ENABLED",
	"redis.addr":              "REDIS_ADDR",
	"redis.password":          "REDIS_PASSWORD",
	"redis.db":                "REDIS_DB",
	"batch.workers":           "BATCH_WORKERS",
	"batch.page_size":         "BATCH_PAGE_SIZE",
	"batch.max_retries":       "BATCH_MAX_RETRIES",
	"batch.continue_on_error": "BATCH_CONTINUE_ON_ERROR",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "aionysus")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "wine-investment-events")
	v.SetDefault("kafka.catalog_topic", "wine-events")
	v.SetDefault("kafka.group_id", "wine-investment-service")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.page_size", 500)
	v.SetDefault("batch.max_retries", 3)
	v.SetDefault("batch.continue_on_error", false)
}

// Load reads configuration from defaults, an optional config file, and
// environment variables, in increasing order of precedence. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", name, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("server.port"),
			Host: v.GetString("server.host"),
		},
		Database: DatabaseConfig{
			URL:          v.GetString("database.url"),
			Host:         v.GetString("database.host"),
			Port:         v.GetString("database.port"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			DBName:       v.GetString("database.name"),
			SSLMode:      v.GetString("database.sslmode"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		SourceDatabase: DatabaseConfig{
			URL: v.GetString("source_database.url"),
		},
		Kafka: KafkaConfig{
			Enabled:      v.GetBool("kafka.enabled"),
			Brokers:      splitList(v.GetString("kafka.brokers")),
			Topic:        v.GetString("kafka.topic"),
			CatalogTopic: v.GetString("kafka.catalog_topic"),
			GroupID:      v.GetString("kafka.group_id"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Batch: BatchConfig{
			Workers:         v.GetInt("batch.workers"),
			PageSize:        v.GetInt("batch.page_size"),
			MaxRetries:      v.GetInt("batch.max_retries"),
			ContinueOnError: v.GetBool("batch.continue_on_error"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no run could use
func (c *Config) Validate() error {
	var errs []error
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("batch workers must be at least 1, got %d", c.Batch.Workers))
	}
	if c.Batch.PageSize < 1 {
		errs = append(errs, fmt.Errorf("batch page size must be at least 1, got %d", c.Batch.PageSize))
	}
	if c.Batch.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("batch max retries cannot be negative, got %d", c.Batch.MaxRetries))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka is enabled but no brokers are configured"))
	}
	return errors.Join(errs...)
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	if d.URL != "" {
		return d.URL
	}
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
