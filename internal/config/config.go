// Package config provides configuration structures and validation for the wallet ledger.
// It handles environment-based configuration for both binaries: the HTTP wallet API and the
// ledger auditor, covering storage backends, the simulated transport and event streaming.
package config

import (
	"errors"
	"strings"
	"time"
)

// Store backends accepted by STORE_BACKEND
const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
)

// Config holds the complete application configuration.
// Sections that only one binary uses are still loaded and validated so a single env file
// can drive a whole deployment.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Store       StoreConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	Transport   TransportConfig
	Breaker     BreakerConfig
	Transfer    TransferConfig
	Scheduler   SchedulerConfig
	WorkerPool  WorkerPoolConfig
	Metrics     MetricsConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// StoreConfig selects the key-value backend holding the persisted overlay
type StoreConfig struct {
	Backend          string        // memory, postgres or redis
	KeyPrefix        string        // Namespace prepended to every persisted key
	OperationTimeout time.Duration // Upper bound for a single store call
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// RedisConfig contains Redis configuration for the key-value backend
type RedisConfig struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Enabled           bool // Publish ledger events from the wallet API
	Brokers           string
	LedgerTopic       string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
}

// TransportConfig tunes the simulated transport
type TransportConfig struct {
	DefaultDelay  time.Duration // Delay applied to every call unless overridden
	TransferDelay time.Duration // Delay applied to transfer submissions
	FailureRate   float64       // Probability in [0,1] that a call fails
}

// BreakerConfig configures the circuit breaker around the key-value backend
type BreakerConfig struct {
	MaxRequests      uint32        // Requests allowed through while half-open
	Interval         time.Duration // Closed-state window after which counts reset
	Timeout          time.Duration // Open-state duration before probing again
	FailureThreshold uint32        // Consecutive failures that trip the breaker
}

// TransferConfig contains transfer behaviour switches
type TransferConfig struct {
	RequireKnownContact bool // Reject transfers to contacts that do not exist
	RecentLimit         int  // Size of each contact's recent-transfer ring
}

// SchedulerConfig contains the scheduled-transfer executor configuration
type SchedulerConfig struct {
	Enabled         bool
	PollingInterval time.Duration
	BatchSize       int
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// MetricsConfig contains Prometheus configuration
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Store config
	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendPostgres, StoreBackendRedis:
	default:
		validationErrors = append(validationErrors, "STORE_BACKEND must be one of memory, postgres, redis")
	}
	if c.Store.OperationTimeout <= 0 {
		validationErrors = append(validationErrors, "STORE_OPERATION_TIMEOUT must be greater than 0")
	}

	// Backend specific settings are only required when selected
	if c.Store.Backend == StoreBackendPostgres {
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	}
	if c.Store.Backend == StoreBackendRedis {
		if c.Redis.Addr == "" {
			validationErrors = append(validationErrors, "REDIS_ADDR is required")
		}
		if c.Redis.DialTimeout <= 0 {
			validationErrors = append(validationErrors, "REDIS_DIAL_TIMEOUT must be greater than 0")
		}
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.LedgerTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_LEDGER_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.Kafka.DLQTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required")
	}

	// Validate Transport config
	if c.Transport.DefaultDelay < 0 {
		validationErrors = append(validationErrors, "TRANSPORT_DEFAULT_DELAY must not be negative")
	}
	if c.Transport.TransferDelay < 0 {
		validationErrors = append(validationErrors, "TRANSPORT_TRANSFER_DELAY must not be negative")
	}
	if c.Transport.FailureRate < 0 || c.Transport.FailureRate > 1 {
		validationErrors = append(validationErrors, "TRANSPORT_FAILURE_RATE must be between 0 and 1")
	}

	// Validate Breaker config
	if c.Breaker.MaxRequests == 0 {
		validationErrors = append(validationErrors, "BREAKER_MAX_REQUESTS must be greater than 0")
	}
	if c.Breaker.Timeout <= 0 {
		validationErrors = append(validationErrors, "BREAKER_TIMEOUT must be greater than 0")
	}
	if c.Breaker.FailureThreshold == 0 {
		validationErrors = append(validationErrors, "BREAKER_FAILURE_THRESHOLD must be greater than 0")
	}

	// Validate Transfer config
	if c.Transfer.RecentLimit <= 0 {
		validationErrors = append(validationErrors, "TRANSFER_RECENT_LIMIT must be greater than 0")
	}

	// Validate Scheduler config
	if c.Scheduler.Enabled {
		if c.Scheduler.PollingInterval <= 0 {
			validationErrors = append(validationErrors, "SCHEDULER_POLLING_INTERVAL must be greater than 0")
		}
		if c.Scheduler.BatchSize <= 0 {
			validationErrors = append(validationErrors, "SCHEDULER_BATCH_SIZE must be greater than 0")
		}
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		validationErrors = append(validationErrors, "METRICS_NAMESPACE is required when metrics are enabled")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
