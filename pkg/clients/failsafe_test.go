package clients

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		resp *http.Response
		err  error
		want bool
	}{
		{"transport error", nil, errors.New("connection reset"), true},
		{"nil response", nil, nil, true},
		{"server error", &http.Response{StatusCode: 503}, nil, true},
		{"rate limited", &http.Response{StatusCode: 429}, nil, true},
		{"client error", &http.Response{StatusCode: 403}, nil, false},
		{"success", &http.Response{StatusCode: 201}, nil, false},
	}
	for _, tc := range cases {
		if got := DefaultShouldRetry(tc.resp, tc.err); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestExecuteHTTPRetriesUntilSuccess(t *testing.T) {
	cfg := DefaultHTTPExecutorConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	executor := NewHTTPExecutor(cfg)

	var attempts int32
	resp, err := ExecuteHTTP(context.Background(), executor, func() (*http.Response, error) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return &http.Response{StatusCode: 502}, nil
		}
		return &http.Response{StatusCode: 200}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected eventual success, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestExecuteHTTPDoesNotRetryClientErrors(t *testing.T) {
	cfg := DefaultHTTPExecutorConfig()
	cfg.BaseDelay = time.Millisecond
	executor := NewHTTPExecutor(cfg)

	var attempts int32
	resp, err := ExecuteHTTP(context.Background(), executor, func() (*http.Response, error) {
		atomic.AddInt32(&attempts, 1)
		return &http.Response{StatusCode: 401}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected the response back, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("client errors must not retry, got %d attempts", got)
	}
}

func TestNormalizeBoundsConfig(t *testing.T) {
	cfg := normalizeHTTPExecutorConfig(HTTPExecutorConfig{MaxRetries: -3})
	if cfg.MaxRetries < 0 {
		t.Fatalf("negative retries must be bounded, got %d", cfg.MaxRetries)
	}
	if cfg.BaseDelay <= 0 || cfg.MaxDelay < cfg.BaseDelay {
		t.Fatalf("delays not normalized: %v/%v", cfg.BaseDelay, cfg.MaxDelay)
	}
	if cfg.ShouldRetry == nil {
		t.Fatal("nil predicate must default")
	}
}
