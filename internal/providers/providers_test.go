package providers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMockClient(t *testing.T) {
	t.Run("chat", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseText = "hello world"

		result, err := c.Chat(context.Background(), &ChatRequest{
			Model: "test-model",
			Messages: []Message{
				{Role: RoleUser, Content: "test"},
			},
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Errorf("Success = false, want true")
		}
		if result.Content != "hello world" {
			t.Errorf("Content = %q, want %q", result.Content, "hello world")
		}
		if c.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, want 1", c.RequestCount())
		}
		if reqs := c.Requests(); len(reqs) != 1 || reqs[0].Model != "test-model" {
			t.Errorf("unexpected request history: %+v", reqs)
		}
	})

	t.Run("scripted respond", func(t *testing.T) {
		c := NewMockClient()
		c.Respond = func(req *ChatRequest) (string, error) {
			return "echo: " + req.Messages[len(req.Messages)-1].Content, nil
		}

		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: RoleUser, Content: "Tree"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "echo: Tree" {
			t.Errorf("Content = %q, want %q", result.Content, "echo: Tree")
		}
	})

	t.Run("scripted error", func(t *testing.T) {
		c := NewMockClient()
		c.Respond = func(*ChatRequest) (string, error) { return "", errors.New("boom") }

		result, err := c.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Fatal("expected error")
		}
		if result.Success || result.ErrorMessage != "boom" {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("failure", func(t *testing.T) {
		c := NewMockClient()
		c.ShouldFail = true

		result, err := c.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Error("expected error, got nil")
		}
		if result.Success {
			t.Error("expected Success = false")
		}
	})

	t.Run("fail after N", func(t *testing.T) {
		c := NewMockClient()
		c.FailAfter = 2

		// First two should succeed
		_, err := c.Chat(context.Background(), &ChatRequest{})
		if err != nil {
			t.Fatalf("first request should succeed: %v", err)
		}
		_, err = c.Chat(context.Background(), &ChatRequest{})
		if err != nil {
			t.Fatalf("second request should succeed: %v", err)
		}

		// Third should fail
		_, err = c.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Error("third request should fail")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		c := NewMockClient()
		c.Latency = 5 * time.Second

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := c.Chat(ctx, &ChatRequest{})
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("reset", func(t *testing.T) {
		c := NewMockClient()
		c.Chat(context.Background(), &ChatRequest{})
		c.Reset()
		if c.RequestCount() != 0 || len(c.Requests()) != 0 {
			t.Error("expected empty state after Reset")
		}
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows initial requests", func(t *testing.T) {
		limiter := NewRateLimiter(600) // 10 per second

		// Should allow 5 requests quickly
		start := time.Now()
		for i := 0; i < 5; i++ {
			if err := limiter.Wait(context.Background()); err != nil {
				t.Fatalf("request %d failed: %v", i, err)
			}
		}
		elapsed := time.Since(start)

		// Should complete quickly since we have burst capacity
		if elapsed > time.Second {
			t.Errorf("took too long: %v", elapsed)
		}
	})

	t.Run("status", func(t *testing.T) {
		limiter := NewRateLimiter(60)

		status := limiter.Status()
		if status.TokensLimit != 60 {
			t.Errorf("TokensLimit = %d, want 60", status.TokensLimit)
		}
		if status.TokensAvailable <= 0 {
			t.Error("expected positive tokens available")
		}
	})

	t.Run("record 429", func(t *testing.T) {
		limiter := NewRateLimiter(60)

		limiter.Record429(time.Second)

		status := limiter.Status()
		if status.Last429Time.IsZero() {
			t.Error("Last429Time should be set")
		}
		if status.TokensAvailable != 0 {
			t.Errorf("expected drained bucket, got %d tokens", status.TokensAvailable)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(1) // 1 per minute

		// Consume the one allowed token
		limiter.Wait(context.Background())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := limiter.Wait(ctx)
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("concurrent requests", func(t *testing.T) {
		limiter := NewRateLimiter(6000) // 100 per second

		var wg sync.WaitGroup
		var errs atomic.Int32

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := limiter.Wait(context.Background()); err != nil {
					errs.Add(1)
				}
			}()
		}

		wg.Wait()

		if errs.Load() > 0 {
			t.Errorf("had %d errors", errs.Load())
		}

		status := limiter.Status()
		if status.TotalConsumed != 10 {
			t.Errorf("TotalConsumed = %d, want 10", status.TotalConsumed)
		}
	})
}

// rateLimitedMock returns a 429 on every call.
type rateLimitedMock struct{ MockClient }

func (m *rateLimitedMock) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	return nil, &RateLimitError{Message: "slow down", RetryAfter: 2 * time.Second, StatusCode: 429}
}

func TestRateLimitedClient(t *testing.T) {
	t.Run("forwards requests", func(t *testing.T) {
		mock := NewMockClient()
		c := NewRateLimitedClient(mock, 600)

		if c.Name() != MockClientName {
			t.Errorf("Name() = %s, want %s", c.Name(), MockClientName)
		}
		if _, err := c.Chat(context.Background(), &ChatRequest{}); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if mock.RequestCount() != 1 {
			t.Errorf("expected 1 forwarded request, got %d", mock.RequestCount())
		}
		if c.Limiter().Status().TotalConsumed != 1 {
			t.Error("expected one consumed token")
		}
	})

	t.Run("records 429", func(t *testing.T) {
		c := NewRateLimitedClient(&rateLimitedMock{}, 600)

		_, err := c.Chat(context.Background(), &ChatRequest{})
		if _, ok := IsRateLimitError(err); !ok {
			t.Fatalf("expected RateLimitError, got %v", err)
		}
		if c.Limiter().Status().Last429Time.IsZero() {
			t.Error("expected 429 to be recorded")
		}
	})
}

func TestParseRetryAfter(t *testing.T) {
	cases := map[string]time.Duration{
		"":    0,
		"5":   5 * time.Second,
		"-1":  0,
		"abc": 0,
	}
	for in, want := range cases {
		if got := parseRetryAfter(in); got != want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", in, got, want)
		}
	}
}
