// Package elasticsearch connects to the alert store and runs the incident
// queries the report pipeline consumes.
package elasticsearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/logger"
	"github.com/jonesrussell/incident-insight/internal/retry"
)

// Client wraps the Elasticsearch client with the incident search operations.
type Client struct {
	esClient *es.Client
	cfg      config.SearchConfig
	log      logger.Logger
}

// NewClient creates a client for the alert store and verifies the connection
// with retries. Alert clusters commonly run self-signed TLS, so certificate
// verification is switchable via config.
func NewClient(ctx context.Context, cfg config.SearchConfig, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewNop()
	}

	url := normalizeURL(cfg.URL)
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // self-signed alert clusters
		},
	}

	clientConfig := es.Config{
		Addresses:  []string{url},
		Transport:  transport,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	esClient, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	c := &Client{esClient: esClient, cfg: cfg, log: log}

	log.Info("Verifying search backend connection", logger.String("url", url))
	retryCfg := retry.Config{MaxAttempts: cfg.MaxRetries}
	if err := retry.Retry(ctx, retryCfg, func() error {
		return c.ping(ctx)
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to search backend after retries: %w", err)
	}
	log.Info("Search backend connection established", logger.String("url", url))

	return c, nil
}

// Search executes one query against the given index pattern and returns the
// raw response. The caller owns the response body.
func (c *Client) Search(ctx context.Context, indexPattern string, body map[string]any) (*esapi.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	c.log.Debug("Executing incident query",
		logger.String("index_pattern", indexPattern),
		logger.Int("body_bytes", buf.Len()),
	)

	res, err := c.esClient.Search(
		c.esClient.Search.WithContext(ctx),
		c.esClient.Search.WithIndex(indexPattern),
		c.esClient.Search.WithBody(&buf),
		c.esClient.Search.WithTimeout(c.cfg.Timeout),
		// Daily indices may not exist yet for quiet days.
		c.esClient.Search.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return nil, fmt.Errorf("incident search failed: %w", err)
	}

	if res.IsError() {
		respBody, _ := io.ReadAll(res.Body)
		_ = res.Body.Close()
		return nil, fmt.Errorf("search backend returned error [%d]: %s", res.StatusCode, string(respBody))
	}

	return res, nil
}

// GetClient returns the underlying Elasticsearch client.
func (c *Client) GetClient() *es.Client {
	return c.esClient
}

func (c *Client) ping(ctx context.Context) error {
	res, err := c.esClient.Ping(c.esClient.Ping.WithContext(ctx))
	if err != nil {
		c.log.Debug("Search backend ping failed", logger.Error(err))
		return fmt.Errorf("ping failed: %w", err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.log.Debug("Failed to close ping response body", logger.Error(closeErr))
		}
	}()

	if res.IsError() {
		body, readErr := io.ReadAll(res.Body)
		msg := string(body)
		if readErr != nil {
			msg = fmt.Sprintf("error reading response body: %v", readErr)
		}
		return fmt.Errorf("ping returned error [%s]: %s", res.Status(), msg)
	}

	return nil
}

func normalizeURL(url string) string {
	if url == "" {
		return "https://localhost:9200"
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "https://" + url
	}
	return url
}
