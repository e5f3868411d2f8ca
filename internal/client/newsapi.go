package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"news/aggregator/internal/config"
	"news/aggregator/internal/query"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

var (
	ErrUpstreamStatus = errors.New("upstream returned an error status")
	ErrMalformedBody  = errors.New("upstream returned a malformed body")
)

type NewsAPIClient interface {
	// Fetch returns the raw upstream JSON body for mode.
	Fetch(ctx context.Context, mode query.Mode) ([]byte, error)
}

type newsAPIClient struct {
	config     config.NewsAPIConfig
	baseURL    string
	httpClient *resty.Client
}

func NewNewsAPIClient(cfg config.NewsAPIConfig) NewsAPIClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "news-aggregator/1.0").
		SetHeader("X-Api-Key", cfg.APIKey)

	return &newsAPIClient{
		config:     cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: client,
	}
}

// URL returns the upstream URL for mode. The API key travels in a header
// so it never shows up here.
func (c *newsAPIClient) URL(mode query.Mode) string {
	return fmt.Sprintf("%s%s?%s",
		c.baseURL,
		mode.UpstreamPath(),
		mode.Encode(c.config.Country, c.config.PageSize))
}

func (c *newsAPIClient) Fetch(ctx context.Context, mode query.Mode) ([]byte, error) {
	url := c.URL(mode)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	body := []byte(resp.String())
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %d %s", ErrUpstreamStatus, resp.StatusCode(), upstreamMessage(body))
	}

	if !json.Valid(body) {
		return nil, ErrMalformedBody
	}

	log.Debugf("Fetched %s page %d (%d bytes)", mode.UpstreamPath(), mode.PageNumber(), len(body))
	return body, nil
}

// upstreamMessage extracts the news API error message, if any.
func upstreamMessage(body []byte) string {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return ""
	}
	return payload.Code + ": " + payload.Message
}
