// Package platforms holds one adapter per social platform. An adapter
// translates a content.Record into the platform's request shape and folds the
// platform's response into a uniform Result. Failures never escape an adapter
// as errors, and no adapter's failure blocks another's attempt.
package platforms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"

	"github.com/cruizviquez/multi-platform-blog-poster/internal/content"
	"github.com/cruizviquez/multi-platform-blog-poster/pkg/clients"
)

// Result is the uniform publish outcome. Exactly one of Success/Error is
// meaningful: a success carries the platform-assigned ID (and URL when the
// platform returns one), a failure carries the error message.
type Result struct {
	Success   bool   `json:"success"`
	ID        string `json:"id,omitempty"`
	URL       string `json:"url,omitempty"`
	Subreddit string `json:"subreddit,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Adapter publishes one record to one platform.
type Adapter interface {
	Name() string
	Publish(ctx context.Context, rec content.Record) Result
}

func failure(err error) Result {
	return Result{Error: err.Error()}
}

func failuref(format string, args ...interface{}) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// apiClient bundles the HTTP client and retry executor shared by the
// adapters. Requests are rebuilt per attempt so retried calls get a fresh
// body.
type apiClient struct {
	client      *http.Client
	executor    failsafe.Executor[*http.Response]
	shouldRetry func(resp *http.Response, err error) bool
}

func newAPIClient(httpClient *http.Client) apiClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg := clients.DefaultHTTPExecutorConfig()
	return apiClient{
		client:      httpClient,
		executor:    clients.NewHTTPExecutor(cfg),
		shouldRetry: cfg.ShouldRetry,
	}
}

func (c apiClient) do(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	return clients.ExecuteHTTP(ctx, c.executor, func() (*http.Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if c.shouldRetry != nil && c.shouldRetry(resp, err) {
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
		}
		return resp, err
	})
}
