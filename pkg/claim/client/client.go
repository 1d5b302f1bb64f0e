// Package client is a Go client for the claims registry HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/chainsafe/claims-registry/pkg/app/errors"
	apphttp "github.com/chainsafe/claims-registry/pkg/app/http"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

// TokenSource returns the bearer token for the next request.
type TokenSource func() (string, error)

// Client calls the claims registry API on behalf of one caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithToken authenticates every request with a static bearer token.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = func() (string, error) { return token, nil }
	}
}

// WithTokenSource authenticates every request with a token from src.
func WithTokenSource(src TokenSource) Option {
	return func(cl *Client) {
		cl.token = src
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateClaim registers fp to the authenticated caller.
func (c *Client) CreateClaim(ctx context.Context, fp claim.Fingerprint) (*claim.Claim, error) {
	var resp claim.Response
	err := c.do(ctx, http.MethodPost, "/claims", &claim.CreateRequest{Fingerprint: fp.String()}, http.StatusCreated, &resp)
	if err != nil {
		return nil, err
	}
	return fromResponse(&resp)
}

// RevokeClaim removes the claim on fp.
func (c *Client) RevokeClaim(ctx context.Context, fp claim.Fingerprint) error {
	return c.do(ctx, http.MethodDelete, claimPath(fp), nil, http.StatusNoContent, nil)
}

// TransferClaim hands the claim on fp to newOwner.
func (c *Client) TransferClaim(ctx context.Context, fp claim.Fingerprint, newOwner claim.AccountID) (*claim.Claim, error) {
	var resp claim.Response
	err := c.do(ctx, http.MethodPost, claimPath(fp)+"/transfer",
		&claim.TransferRequest{NewOwner: string(newOwner)}, http.StatusOK, &resp)
	if err != nil {
		return nil, err
	}
	return fromResponse(&resp)
}

// GetClaim returns the claim on fp.
func (c *Client) GetClaim(ctx context.Context, fp claim.Fingerprint) (*claim.Claim, error) {
	var resp claim.Response
	if err := c.do(ctx, http.MethodGet, claimPath(fp), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return fromResponse(&resp)
}

// Health returns the server status and ledger height.
func (c *Client) Health(ctx context.Context) (*claim.HealthResponse, error) {
	var resp claim.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, wantStatus int, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token()
		if err != nil {
			return fmt.Errorf("failed to get token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response back into the categorized error the server returned,
// so errors.Is works against the claim sentinels on the client side.
func decodeError(resp *http.Response) error {
	var body apphttp.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &body); err != nil || body.ErrMsg == "" {
		body.ErrMsg = strings.TrimSpace(string(raw))
	}
	msg := body.ErrMsg

	// Only a kind set by the registry maps to a claim error; a bare 404 from an
	// unknown route must not read as a missing claim.
	cause := claim.ErrorOfKind(body.Kind)
	if cause == nil {
		cause = errors.New(msg)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apperrors.BadRequestError(cause, msg)
	case http.StatusUnauthorized:
		return apperrors.UnAuthorizedError(cause, msg)
	case http.StatusForbidden:
		return apperrors.ForbiddenError(cause, msg)
	case http.StatusNotFound:
		return apperrors.ResourceNotFoundError(cause, msg)
	case http.StatusConflict:
		return apperrors.ConflictError(cause, msg)
	default:
		return apperrors.DependencyError(fmt.Errorf("registry returned %d: %s", resp.StatusCode, msg), msg)
	}
}

func claimPath(fp claim.Fingerprint) string {
	return "/claims/" + url.PathEscape(fp.String())
}

func fromResponse(resp *claim.Response) (*claim.Claim, error) {
	fp, err := claim.ParseFingerprint(resp.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("invalid fingerprint in response: %w", err)
	}
	return &claim.Claim{
		Fingerprint:  fp,
		Owner:        claim.AccountID(resp.Owner),
		RegisteredAt: claim.Height(resp.RegisteredAt),
	}, nil
}
