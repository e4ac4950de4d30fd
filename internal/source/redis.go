package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis reads the table from a key holding the JSON array.
type Redis struct {
	logger  *zap.Logger
	options *redis.Options
	key     string
}

// NewRedis parses a redis://[user:pass@]host:port/db[?key=name] location.
// The key query parameter overrides opts.RedisKey.
func NewRedis(logger *zap.Logger, location string, opts Options) (*Redis, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid redis location %q: %w", location, err)
	}

	key := opts.RedisKey
	query := u.Query()
	if k := query.Get("key"); k != "" {
		key = k
	}
	query.Del("key")
	u.RawQuery = query.Encode()

	redisOpts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("invalid redis location %q: %w", location, err)
	}
	redisOpts.DialTimeout = opts.Timeout
	redisOpts.ReadTimeout = opts.Timeout
	redisOpts.MaxRetries = opts.Retries

	return &Redis{logger: logger, options: redisOpts, key: key}, nil
}

// Load opens a short-lived client, reads the key and decodes its value.
func (r *Redis) Load(ctx context.Context) ([]brackets.Bracket, error) {
	client := redis.NewClient(r.options)
	defer func() {
		if err := client.Close(); err != nil {
			r.logger.Warn("failed to close redis client",
				zap.String("op", "source.Redis.Load"),
				zap.Error(err),
			)
		}
	}()

	data, err := client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: key not found: %w", r.Describe(), ErrEmptyDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.Describe(), err)
	}

	r.logger.Debug("read financing table from redis",
		zap.String("op", "source.Redis.Load"),
		zap.String("addr", r.options.Addr),
		zap.String("key", r.key),
		zap.Int("bytes", len(data)),
	)

	rows, err := DecodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Describe(), err)
	}
	return rows, nil
}

// Describe names the source for logs and status output.
func (r *Redis) Describe() string {
	return fmt.Sprintf("redis %s/%d key %s", r.options.Addr, r.options.DB, r.key)
}
