// Package backend fetches articles from the news proxy.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"

	"news/aggregator/internal/domain"
	"news/aggregator/internal/query"
)

var ErrBackend = errors.New("news backend error")

type Client struct {
	baseURL    string
	httpClient *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) URL(mode query.Mode) string {
	return c.baseURL + "/api/news?" + mode.ProxyQuery()
}

// Fetch implements browse.Fetcher.
func (c *Client) Fetch(ctx context.Context, mode query.Mode) (*domain.NewsResponse, error) {
	url := c.URL(mode)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}

	var news domain.NewsResponse
	decodeErr := json.Unmarshal([]byte(resp.String()), &news)

	if resp.IsError() {
		msg := resp.Status()
		if decodeErr == nil && news.Error != "" {
			msg = news.Error
		}
		return nil, fmt.Errorf("%w: %s", ErrBackend, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding response: %w", decodeErr)
	}

	log.Debugf("Fetched %d articles for %s", len(news.Articles), mode.Key())
	return &news, nil
}
