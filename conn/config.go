package conn

import (
	"fmt"
	"time"
)

// Config describes the single Redis connection this process owns. It is
// consumed once at client construction; there is no runtime reconfiguration.
type Config struct {
	// Addr is "host:port".
	Addr string

	// Password is optional.
	Password string

	// DB is the database number (0-15).
	DB int

	// PoolSize is the connection pool size. 0 keeps the client default.
	PoolSize int

	// DialTimeout bounds each connection attempt (default 10s).
	DialTimeout time.Duration

	// MaxAttempts caps reconnect probes before the manager settles into
	// StateDisconnected (default 3).
	MaxAttempts int

	// BackoffBase is the delay before the second attempt (default 250ms).
	BackoffBase time.Duration

	// BackoffCap bounds the backoff delay (default 3s).
	BackoffCap time.Duration
}

func (c *Config) ApplyDefaults() {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 250 * time.Millisecond
	}
	if c.BackoffCap <= 0 {
		c.BackoffCap = 3 * time.Second
	}
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}
	if c.DB < 0 || c.DB > 15 {
		return fmt.Errorf("db must be between 0 and 15, got: %d", c.DB)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("pool_size must be >= 0, got: %d", c.PoolSize)
	}
	if c.BackoffBase > c.BackoffCap {
		return fmt.Errorf("backoff base %v exceeds cap %v", c.BackoffBase, c.BackoffCap)
	}
	return nil
}
