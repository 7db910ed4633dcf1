//nolint:testpackage // shares the package to build clients against test servers
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/domain"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

const searchResultsPage = `<!DOCTYPE html>
<html><body>
<div class="results">
  <div class="result result--ad">
    <a class="result__a" href="https://ads.example.com">Sponsored result</a>
    <a class="result__snippet">Buy now</a>
  </div>
  <div class="result">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwazuh.com%2F&amp;rut=abc123">Wazuh - Open Source XDR</a>
    <a class="result__snippet">Wazuh is a free and open source security platform.</a>
  </div>
  <div class="result">
    <a class="result__a" href="https://docs.wazuh.com/guide">Wazuh documentation</a>
    <a class="result__snippet">Installation guide and reference.</a>
  </div>
  <div class="result">
    <a class="result__a" href="https://example.org/third">Third result</a>
    <a class="result__snippet">Another page.</a>
  </div>
</div>
</body></html>`

func webSearchClientFor(srv *httptest.Server) *WebSearchClient {
	return NewWebSearchClient(config.WebSearchConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}, logger.NewNop())
}

func TestWebSearchClient_Search(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "wazuh siem", r.PostForm.Get("q"))
		assert.Equal(t, "wt-wt", r.PostForm.Get("kl"))
		fmt.Fprint(w, searchResultsPage)
	}))
	defer srv.Close()

	params := domain.WebSearchParams{Query: "wazuh siem", MaxResults: 5, Region: "wt-wt"}
	hits, err := webSearchClientFor(srv).Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 1, hits[0].Position)
	assert.Equal(t, "Wazuh - Open Source XDR", hits[0].Title)
	assert.Equal(t, "https://wazuh.com/", hits[0].URL)
	assert.Equal(t, "Wazuh is a free and open source security platform.", hits[0].Snippet)

	assert.Equal(t, 2, hits[1].Position)
	assert.Equal(t, "https://docs.wazuh.com/guide", hits[1].URL)
}

func TestWebSearchClient_Search_RespectsMaxResults(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, searchResultsPage)
	}))
	defer srv.Close()

	params := domain.WebSearchParams{Query: "wazuh", MaxResults: 2, Region: "wt-wt"}
	hits, err := webSearchClientFor(srv).Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Wazuh - Open Source XDR", hits[0].Title)
	assert.Equal(t, "Wazuh documentation", hits[1].Title)
}

func TestWebSearchClient_Search_UpstreamFailure(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	params := domain.WebSearchParams{Query: "wazuh", MaxResults: 5, Region: "wt-wt"}
	_, err := webSearchClientFor(srv).Search(context.Background(), params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestResolveRedirect(t *testing.T) {
	t.Helper()
	tests := []struct {
		name     string
		href     string
		expected string
	}{
		{
			name:     "protocol relative redirect",
			href:     "//duckduckgo.com/l/?uddg=https%3A%2F%2Fwazuh.com%2F&rut=abc",
			expected: "https://wazuh.com/",
		},
		{
			name:     "path relative redirect",
			href:     "/l/?uddg=https%3A%2F%2Fexample.org%2Fpage",
			expected: "https://example.org/page",
		},
		{
			name:     "direct link passes through",
			href:     "https://docs.wazuh.com/guide",
			expected: "https://docs.wazuh.com/guide",
		},
		{
			name:     "redirect without uddg passes through",
			href:     "//duckduckgo.com/l/?rut=abc",
			expected: "//duckduckgo.com/l/?rut=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveRedirect(tt.href))
		})
	}
}
