// Package config centralises configuration parsing for the roster service.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures runtime configuration values, with defaults suited to local dev.
type Config struct {
	HTTPAddress    string `env:"HTTP_ADDRESS" envDefault:":8080"`
	MetricsAddress string `env:"METRICS_ADDRESS" envDefault:":9091"`
	StaticDir      string `env:"STATIC_DIR" envDefault:"web/static"`

	// Kafka publishing is disabled while KafkaBrokers is empty.
	KafkaBrokers    []string      `env:"KAFKA_BROKERS"`
	RosterTopic     string        `env:"ROSTER_TOPIC" envDefault:"roster_events"`
	AuditGroupID    string        `env:"AUDIT_GROUP_ID" envDefault:"roster-audit"`
	PublishInterval time.Duration `env:"PUBLISH_INTERVAL" envDefault:"2s"`
	PublishBatch    int           `env:"PUBLISH_BATCH_SIZE" envDefault:"25"`
	JournalCapacity int           `env:"JOURNAL_CAPACITY" envDefault:"256"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// PublishEnabled reports whether roster changes should be delivered to Kafka.
func (c Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
