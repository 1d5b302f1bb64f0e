package offchain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func constantBackOff() backoff.BackOff {
	return backoff.NewConstantBackOff(time.Millisecond)
}

func newTestFetcher(t *testing.T, url string, timeout time.Duration, maxRetries uint64) *Fetcher {
	t.Helper()
	f, err := NewFetcher(url, timeout, maxRetries, WithBackOff(constantBackOff))
	if err != nil {
		t.Fatalf("NewFetcher() failed: %v", err)
	}
	return f
}

func TestFetcher_PassesHeight(t *testing.T) {
	var gotN string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotN = r.URL.Query().Get("n")
		_, _ = w.Write([]byte(`{"sum":"12.50"}`))
	}))
	defer srv.Close()

	sum, err := newTestFetcher(t, srv.URL+"/sum", time.Second, 0).Fetch(context.Background(), 42)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if gotN != "42" {
		t.Fatalf("expected n=42, got %q", gotN)
	}
	if sum.String() != "12.5" {
		t.Fatalf("expected canonical sum 12.5, got %s", sum)
	}
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"sum":7}`))
	}))
	defer srv.Close()

	sum, err := newTestFetcher(t, srv.URL, time.Second, 3).Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if sum.IntPart() != 7 {
		t.Fatalf("expected sum 7, got %s", sum)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFetcher_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := newTestFetcher(t, srv.URL, time.Second, 2).Fetch(context.Background(), 1); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 1 attempt plus 2 retries, got %d", got)
	}
}

func TestFetcher_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := newTestFetcher(t, srv.URL, time.Second, 5).Fetch(context.Background(), 1); err == nil {
		t.Fatalf("expected error for 404")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestFetcher_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `sum=1`},
		{name: "missing sum", body: `{"total":1}`},
		{name: "sum not a number", body: `{"sum":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := newTestFetcher(t, srv.URL, time.Second, 3).Fetch(context.Background(), 1); err == nil {
				t.Fatalf("expected error for body %q", tt.body)
			}
			if got := calls.Load(); got != 1 {
				t.Fatalf("malformed bodies must not be retried, got %d attempts", got)
			}
		})
	}
}

func TestFetcher_AttemptDeadline(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte(`{"sum":3}`))
	}))
	defer srv.Close()

	start := time.Now()
	sum, err := newTestFetcher(t, srv.URL, 50*time.Millisecond, 1).Fetch(context.Background(), 9)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if sum.IntPart() != 3 {
		t.Fatalf("expected sum 3, got %s", sum)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("slow attempt was not cut off, took %s", elapsed)
	}
}

func TestFetcher_StopsOnCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestFetcher(t, srv.URL, time.Second, 100).Fetch(ctx, 1); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestNewFetcher_InvalidEndpoint(t *testing.T) {
	if _, err := NewFetcher("not a url", time.Second, 1); err == nil {
		t.Fatalf("expected error for invalid endpoint")
	}
}
