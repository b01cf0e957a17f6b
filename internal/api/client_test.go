package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"term":"Tree"}`))
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid input: empty term"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`upstream down`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	var got sample
	if err := client.Get(ctx, "/ok", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Term != "Tree" {
		t.Errorf("expected Tree, got %s", got.Term)
	}

	err := client.Get(ctx, "/bad", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest || statusErr.Message != "invalid input: empty term" {
		t.Errorf("unexpected status error: %+v", statusErr)
	}

	err = client.Get(ctx, "/other", nil)
	if !errors.As(err, &statusErr) || statusErr.Message != "upstream down" {
		t.Errorf("expected raw body in error, got %v", err)
	}
}

func TestClient_WaitReady(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"not ready"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if err := client.WaitReady(context.Background(), 5, 10*time.Millisecond); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestClient_WaitReady_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).WaitReady(context.Background(), 2, time.Millisecond)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected last StatusError, got %v", err)
	}
}
