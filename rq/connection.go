package rq

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/thefeij/redisq/config"
)

const DefaultPort = 6379

var _ asynq.RedisConnOpt = (*Connection)(nil)

// Connection is a lazy Redis connection for one queue. The go-redis client
// is created on first use and owned by the Connection.
type Connection struct {
	queue string
	opts  redis.Options

	mu     sync.Mutex
	client *redis.Client
}

// NewConnection builds the connection of the named queue. A configured URL
// wins over the discrete settings; a configured DB always overrides the
// database index of the URL.
func NewConnection(store config.Store, name string) (*Connection, error) {
	cfg, err := ResolveQueueConfig(store, name)
	if err != nil {
		return nil, err
	}
	return connectionFromConfig(store, cfg)
}

func connectionFromConfig(store config.Store, cfg *QueueConfig) (*Connection, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, &ConfigurationError{Queue: cfg.Name, Key: Key(store, cfg.Name, SettingURL), Err: fmt.Errorf("%w: %v", ErrInvalidURL, err)}
		}
		if cfg.DB != nil {
			opts.DB = *cfg.DB
		}
		return &Connection{queue: cfg.Name, opts: *opts}, nil
	}

	if cfg.Host == "" {
		return nil, &ConfigurationError{Queue: cfg.Name, Key: Key(store, cfg.Name, SettingHost), Err: ErrMissingSetting}
	}
	port := DefaultPort
	if cfg.Port != nil {
		port = *cfg.Port
	}
	db := 0
	if cfg.DB != nil {
		db = *cfg.DB
	}

	return &Connection{
		queue: cfg.Name,
		opts: redis.Options{
			Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
			Password: cfg.Password,
			DB:       db,
		},
	}, nil
}

// Queue returns the name the connection was resolved for.
func (c *Connection) Queue() string { return c.queue }

// Options returns a copy of the go-redis options.
func (c *Connection) Options() redis.Options { return c.opts }

// MakeRedisClient implements asynq.RedisConnOpt. Each call returns a new
// client owned by the caller.
func (c *Connection) MakeRedisClient() interface{} {
	opts := c.opts
	return redis.NewClient(&opts)
}

// Client returns the connection's shared go-redis client.
func (c *Connection) Client() *redis.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		opts := c.opts
		c.client = redis.NewClient(&opts)
	}
	return c.client
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.Client().Ping(ctx).Err()
}

func (c *Connection) Close() error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Close()
}

// ServerURL renders the server of the named queue for display. The
// password is embedded as is.
func ServerURL(store config.Store, name string) (string, error) {
	cfg, err := ResolveQueueConfig(store, name)
	if err != nil {
		return "", err
	}

	if cfg.URL != "" {
		if _, err := redis.ParseURL(cfg.URL); err != nil {
			return "", &ConfigurationError{Queue: cfg.Name, Key: Key(store, cfg.Name, SettingURL), Err: fmt.Errorf("%w: %v", ErrInvalidURL, err)}
		}
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return "", &ConfigurationError{Queue: cfg.Name, Key: Key(store, cfg.Name, SettingURL), Err: fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)}
		}
		netloc := u.Host
		if u.User != nil {
			netloc = u.User.String() + "@" + netloc
		}
		return u.Scheme + "://" + netloc, nil
	}

	if cfg.Host == "" {
		return "", &ConfigurationError{Queue: cfg.Name, Key: Key(store, cfg.Name, SettingHost), Err: ErrMissingSetting}
	}
	netloc := cfg.Host
	if cfg.Password != "" {
		netloc = ":" + cfg.Password + "@" + cfg.Host
	}
	return "redis://" + netloc, nil
}
