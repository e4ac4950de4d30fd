// Package source loads the financing bracket table from the places it is
// published: a JSON file, an HTTP endpoint, a Redis key or a SQLite table.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
	"github.com/iwvelando/mortgage-simulator/pkg/constants"
	"go.uber.org/zap"
)

// ErrEmptyDocument is returned when a source holds no JSON document at all.
var ErrEmptyDocument = errors.New("empty financing table document")

// Source produces the raw bracket rows. Implementations must not cache rows
// between calls.
type Source interface {
	Load(ctx context.Context) ([]brackets.Bracket, error)
	Describe() string
}

// Options tunes the sources that need it.
type Options struct {
	Timeout     time.Duration
	Retries     int
	RedisKey    string
	SQLiteTable string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = constants.DefaultTableTimeoutSeconds * time.Second
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.RedisKey == "" {
		o.RedisKey = constants.DefaultRedisKey
	}
	if o.SQLiteTable == "" {
		o.SQLiteTable = constants.DefaultSQLiteTable
	}
	return o
}

// New picks the source implementation from the location scheme:
// http(s)://, redis(s)://, sqlite:// or a plain/file:// path.
func New(logger *zap.Logger, location string, opts Options) (Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	location = strings.TrimSpace(location)
	if location == "" {
		location = constants.DefaultTableSource
	}

	scheme := ""
	if idx := strings.Index(location, "://"); idx > 0 {
		scheme = strings.ToLower(location[:idx])
	}

	switch scheme {
	case "http", "https":
		return NewHTTP(logger, location, opts), nil
	case "redis", "rediss":
		return NewRedis(logger, location, opts)
	case "sqlite", "sqlite3":
		return NewSQLite(logger, location, opts)
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid table location %q: %w", location, err)
		}
		return NewFile(logger, u.Host+u.Path), nil
	case "":
		return NewFile(logger, location), nil
	default:
		return nil, fmt.Errorf("unsupported table source scheme %q", scheme)
	}
}

// DecodeRows parses a JSON array of bracket records.
func DecodeRows(data []byte) ([]brackets.Bracket, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyDocument
	}

	var rows []brackets.Bracket
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode financing table: %w", err)
	}
	return rows, nil
}
