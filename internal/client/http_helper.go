package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// fetchJSON performs a GET request and unmarshals the response body. Non-2xx
// responses become errors carrying the upstream body for diagnostics.
func fetchJSON[T any](ctx context.Context, client *http.Client, endpoint, errorPrefix string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", errorPrefix, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", errorPrefix, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", errorPrefix, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s: unexpected status code %d: %s", errorPrefix, resp.StatusCode, string(body))
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%s: failed to parse response: %w", errorPrefix, err)
	}

	return &result, nil
}
