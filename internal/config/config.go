package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds service-level settings
type Service struct {
	Environment     string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort         string `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host            string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
	HealthCheckPort string `envconfig:"SERVICE_HEALTH_CHECK_PORT" default:"8081"`
}

// SQS holds queue settings
type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_QUEUE_URL" required:"true"`
	Region   string `envconfig:"SQS_REGION" required:"true"`
}

// Postgres holds event log and metric store settings
type Postgres struct {
	URL string `envconfig:"POSTGRES_URL" required:"true"`
}

// ClickHouse holds search index settings
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port            string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	Database        string `envconfig:"CLICKHOUSE_DB" required:"true"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// Redis holds unique-viewer tracking settings
type Redis struct {
	URL               string `envconfig:"REDIS_URL" required:"true"`
	ViewerSetTTLHours int    `envconfig:"REDIS_VIEWER_SET_TTL_HOURS" default:"48"`
}

// Consumer holds intake pipeline settings
type Consumer struct {
	Workers         int `envconfig:"CONSUMER_WORKERS" default:"4"`
	MaxMessages     int `envconfig:"CONSUMER_MAX_MESSAGES" default:"10"`
	WaitTimeSeconds int `envconfig:"CONSUMER_WAIT_TIME_SEC" default:"20"`
	BufferSize      int `envconfig:"CONSUMER_BUFFER_SIZE" default:"100"`
}

// Dispatch holds per-call timeout settings for the dispatcher
type Dispatch struct {
	AggregateTimeoutSec int `envconfig:"DISPATCH_AGGREGATE_TIMEOUT_SEC" default:"10"`
	IndexTimeoutSec     int `envconfig:"DISPATCH_INDEX_TIMEOUT_SEC" default:"5"`
}

type Config struct {
	Service    Service
	SQS        SQS
	Postgres   Postgres
	ClickHouse ClickHouse
	Redis      Redis
	Consumer   Consumer
	Dispatch   Dispatch
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
