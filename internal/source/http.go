package source

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
	"go.uber.org/zap"
)

// HTTP fetches the table from a URL serving the JSON array.
type HTTP struct {
	logger *zap.Logger
	url    string
	client *resty.Client
}

// NewHTTP creates an HTTP source. Transport failures and 5xx responses are
// retried opts.Retries times.
func NewHTTP(logger *zap.Logger, url string, opts Options) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= 500
		})

	return &HTTP{logger: logger, url: url, client: client}
}

// Load performs the GET request and decodes the body.
func (h *HTTP) Load(ctx context.Context) ([]brackets.Bracket, error) {
	resp, err := h.client.R().SetContext(ctx).Get(h.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", h.Describe(), err)
	}

	h.logger.Debug("fetched financing table",
		zap.String("op", "source.HTTP.Load"),
		zap.String("url", h.url),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()),
	)

	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", h.Describe(), resp.Status())
	}

	rows, err := DecodeRows(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.Describe(), err)
	}
	return rows, nil
}

// Describe names the source for logs and status output.
func (h *HTTP) Describe() string {
	return "url " + h.url
}
