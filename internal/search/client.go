// Package search implements the SearXNG search provider client.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const noResultsMessage = "未找到相关结果。您可以尝试：\n- 使用不同的关键词\n- 简化搜索查询\n- 检查拼写错误"

// Config holds the search provider configuration.
type Config struct {
	// BaseURL is the SearXNG instance, e.g. https://searx.bndkt.io.
	BaseURL string
	// Format selects the response format to request: "html" or "json".
	Format string
	// UserAgent sent with every request; some instances reject the Go
	// default.
	UserAgent string
	Timeout   time.Duration
}

// Result is one parsed search hit.
type Result struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Engines     []string `json:"engines,omitempty"`
}

// Client queries a SearXNG instance and formats results as plain text
// for prompt injection. The provider is otherwise opaque to callers.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a search client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Probe checks provider connectivity with a trivial query. A reachable
// provider returns a non-empty result page.
func (c *Client) Probe(ctx context.Context) bool {
	result, err := c.Search(ctx, "test")
	if err != nil {
		c.logger.Warn("search probe failed", zap.Error(err))
		return false
	}
	return strings.TrimSpace(result) != ""
}

// Search runs the query and returns formatted result text. Empty output
// with a nil error means the provider answered but found nothing.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query must not be empty")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "auto")
	params.Set("time_range", "")
	params.Set("safe_search", "1")
	params.Set("categories", "general")
	params.Set("theme", "simple")
	params.Set("format", c.cfg.Format)

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var results []Result
	if c.cfg.Format == "json" {
		results, err = parseJSONResults(body)
	} else {
		results, err = parseHTMLResults(body)
	}
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		return "", nil
	}
	return formatResults(results), nil
}

type jsonResponse struct {
	Results []struct {
		Title   string   `json:"title"`
		URL     string   `json:"url"`
		Content string   `json:"content"`
		Engines []string `json:"engines"`
	} `json:"results"`
}

func parseJSONResults(body []byte) ([]Result, error) {
	var parsed jsonResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Title == "" && r.URL == "" {
			continue
		}
		results = append(results, Result{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Content,
			Engines:     r.Engines,
		})
	}
	return results, nil
}

// formatResults renders hits as plain text blocks for prompt injection.
func formatResults(results []Result) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		if r.Description != "" {
			b.WriteString(r.Description)
			b.WriteString("\n")
		}
		if len(r.Engines) > 0 {
			fmt.Fprintf(&b, "搜索引擎: %s\n", strings.Join(r.Engines, ", "))
		}
		b.WriteString(r.URL)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// NoResultsMessage is the provider's localized empty-result notice.
func NoResultsMessage() string {
	return noResultsMessage
}
