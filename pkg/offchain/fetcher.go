// Package offchain runs the offchain worker: on every new block it fetches a value from an
// external HTTP endpoint and registers a claim derived from it through the public API.
package offchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"github.com/chainsafe/claims-registry/internal/metrics"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

const maxResponseSize = 1 << 16

// sumInfo is the body returned by the external endpoint.
type sumInfo struct {
	Sum *decimal.Decimal `json:"sum"`
}

// Fetcher queries GET {endpoint}?n={height}. Each attempt has its own deadline and
// failed attempts are retried with exponential backoff.
type Fetcher struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBackOff replaces the retry policy between attempts.
func WithBackOff(fn func() backoff.BackOff) FetcherOption {
	return func(f *Fetcher) {
		f.newBackOff = fn
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// NewFetcher creates a fetcher for endpoint.
func NewFetcher(endpoint string, timeout time.Duration, maxRetries uint64, opts ...FetcherOption) (*Fetcher, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	f := &Fetcher{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		timeout:    timeout,
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch returns the sum published for height.
func (f *Fetcher) Fetch(ctx context.Context, height claim.Height) (decimal.Decimal, error) {
	var sum decimal.Decimal
	op := func() error {
		v, err := f.fetchOnce(ctx, height)
		if err != nil {
			metrics.OffchainFetches.WithLabelValues("failed").Inc()
			return err
		}
		metrics.OffchainFetches.WithLabelValues("ok").Inc()
		sum = v
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(f.newBackOff(), f.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to fetch sum for height %d: %w", height, err)
	}
	return sum, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, height claim.Height) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	u, err := url.Parse(f.endpoint)
	if err != nil {
		return decimal.Decimal{}, backoff.Permanent(err)
	}
	q := u.Query()
	q.Set("n", strconv.FormatUint(uint64(height), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Decimal{}, backoff.Permanent(err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return decimal.Decimal{}, err
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError, resp.StatusCode == http.StatusTooManyRequests:
		return decimal.Decimal{}, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return decimal.Decimal{}, backoff.Permanent(fmt.Errorf("endpoint returned status %d", resp.StatusCode))
	}

	var info sumInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return decimal.Decimal{}, backoff.Permanent(fmt.Errorf("invalid response body: %w", err))
	}
	if info.Sum == nil {
		return decimal.Decimal{}, backoff.Permanent(errors.New("response has no sum"))
	}
	return *info.Sum, nil
}
