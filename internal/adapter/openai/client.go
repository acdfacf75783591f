// Package openai implements the embedding, chat and translation adapters on
// top of an OpenAI-compatible HTTP API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"docbot/internal/domain"
	"docbot/internal/logger"
)

// Client is a minimal OpenAI-compatible API client shared by the embedding
// and chat adapters. Requests are rate limited with a token bucket and
// retried a bounded number of times with exponential backoff on transient
// failures.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewClient creates a client. The API key is read from the environment
// variable named by apiKeyEnv.
func NewClient(apiKeyEnv, baseURL string, requestsPerSecond float64, maxRetries int) (*Client, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}

	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		maxRetries: maxRetries,
	}, nil
}

// postJSON sends a JSON POST to baseURL+path and decodes the response into
// out. All failures are wrapped in domain.ErrProvider.
func (c *Client) postJSON(path string, reqBody, out any) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
			logger.Debug("retrying %s after %v (attempt %d/%d): %v", path, backoff, attempt, c.maxRetries, lastErr)
			time.Sleep(backoff)
		}

		if err := c.limiter.Wait(context.Background()); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", domain.ErrProvider, err)
		}

		retryable, err := c.doOnce(path, jsonData, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return fmt.Errorf("%w: %v", domain.ErrProvider, lastErr)
}

// doOnce performs a single HTTP round trip. The bool reports whether the
// failure is worth retrying (network errors, 429 and 5xx).
func (c *Client) doOnce(path string, jsonData []byte, out any) (bool, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return false, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200]
		}
		return retryable, fmt.Errorf("API returned status %d: %s", resp.StatusCode, bodyPreview)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("failed to parse response: %v", err)
	}

	return false, nil
}
