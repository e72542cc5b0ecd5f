package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mailcraft-backend/metrics"

	"github.com/sethvargo/go-retry"
)

const defaultHTTPTimeout = 60 * time.Second

// HTTPGenerator posts the request as JSON to a remote generation service
// and reads the body from the "email" field of the response.
type HTTPGenerator struct {
	url        string
	httpClient *http.Client
	retry      RetryPolicy
}

// HTTPOption configures an HTTPGenerator.
type HTTPOption func(*HTTPGenerator)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(g *HTTPGenerator) {
		g.httpClient = client
	}
}

// WithHTTPRetry sets the retry policy.
func WithHTTPRetry(policy RetryPolicy) HTTPOption {
	return func(g *HTTPGenerator) {
		g.retry = policy
	}
}

// NewHTTPGenerator creates a generator calling url.
func NewHTTPGenerator(url string, timeout time.Duration, opts ...HTTPOption) *HTTPGenerator {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	g := &HTTPGenerator{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		retry:      RetryPolicy{MaxRetries: defaultMaxRetries},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements Generator.
func (g *HTTPGenerator) Name() string { return "http" }

type httpGenerateResponse struct {
	Email string `json:"email"`
}

// Generate implements Generator. Network errors and 5xx responses are retried.
func (g *HTTPGenerator) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var email string
	err = g.retry.do(ctx, func(ctx context.Context) error {
		start := time.Now()
		result, status, callErr := g.call(ctx, body)
		metrics.RecordGeneratorCall(g.Name(), status, time.Since(start))
		if callErr != nil {
			return callErr
		}
		email = result
		return nil
	})
	if err != nil {
		return "", upstreamError(err)
	}
	return email, nil
}

func (g *HTTPGenerator) call(ctx context.Context, body []byte) (string, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", "error", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", "error", retry.RetryableError(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "error", retry.RetryableError(fmt.Errorf("failed to read response: %w", err))
	}

	status := fmt.Sprintf("%d", resp.StatusCode)
	if resp.StatusCode >= http.StatusInternalServerError {
		return "", "5xx", retry.RetryableError(fmt.Errorf("generation service error: %d - %s", resp.StatusCode, string(respBody)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", status, fmt.Errorf("generation service error: %d - %s", resp.StatusCode, string(respBody))
	}

	var decoded httpGenerateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", status, fmt.Errorf("failed to decode response: %w", err)
	}
	return decoded.Email, "success", nil
}
