// Package redis connects fernspiel to a redis server: machine events are
// published to a channel and dial input can be pushed onto a list.
package redis

import (
	"github.com/aretw0/fernspiel/pkg/adapters/process"
	backend "github.com/redis/go-redis/v9"
)

const (
	// DefaultChannel receives one summary per machine event.
	DefaultChannel = "fernspiel:events"
	// DefaultDialList is popped for remote dial input.
	DefaultDialList = "fernspiel:dial"
	// DefaultPrefix is prepended to stored keys.
	DefaultPrefix = "fernspiel:"
)

// NewClient creates a client from the backend configuration, filling in defaults.
func NewClient(cfg *process.RedisConfig) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
