package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/claims-registry/pkg/app/errors"
	"github.com/chainsafe/claims-registry/pkg/auth"
	"github.com/chainsafe/claims-registry/pkg/claim"
	"github.com/chainsafe/claims-registry/pkg/claim/service/mocks"
)

type headerAuthenticator struct{}

// Authenticate trusts the X-Caller header.
func (headerAuthenticator) Authenticate(r *http.Request) (claim.AccountID, error) {
	caller := r.Header.Get("X-Caller")
	if caller == "" {
		return "", errors.New("no caller")
	}
	return claim.AccountID(caller), nil
}

func (headerAuthenticator) ParseAccount(s string) (claim.AccountID, error) {
	return auth.ParseSubject(s)
}

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
	Kind  string `json:"kind"`
}

func newClaimsTestServer(svc Service) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc, headerAuthenticator{}, zap.NewNop())
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, caller, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if caller != "" {
		req.Header.Set("X-Caller", caller)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var got errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	return got
}

func TestClaimsHTTP_Create(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		CreateClaim(mock.Anything, claim.AccountID("alice"), claim.Fingerprint{0x01, 0x02}).
		Return(&claim.Claim{Fingerprint: claim.Fingerprint{0x01, 0x02}, Owner: "alice", RegisteredAt: 7}, nil).
		Once()

	rec := doRequest(t, newClaimsTestServer(svc), http.MethodPost, "/claims", "alice", `{"fingerprint":"0x0102"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	var got claim.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.Fingerprint != "0x0102" || got.Owner != "alice" || got.RegisteredAt != 7 {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestClaimsHTTP_Create_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"invalid json", "{invalid", "invalid JSON"},
		{"empty fingerprint", `{"fingerprint":""}`, "invalid fingerprint"},
		{"bad hex", `{"fingerprint":"0xzz"}`, "invalid fingerprint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewService(t)
			rec := doRequest(t, newClaimsTestServer(svc), http.MethodPost, "/claims", "alice", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
			if got := decodeError(t, rec); got.Error != tt.wantMsg {
				t.Fatalf("expected error %q, got %q", tt.wantMsg, got.Error)
			}
		})
	}
}

func TestClaimsHTTP_RequiresAuthentication(t *testing.T) {
	svc := mocks.NewService(t)
	h := newClaimsTestServer(svc)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/claims", `{"fingerprint":"0x01"}`},
		{http.MethodGet, "/claims/0x01", ""},
		{http.MethodDelete, "/claims/0x01", ""},
		{http.MethodPost, "/claims/0x01/transfer", `{"new_owner":"bob"}`},
	} {
		rec := doRequest(t, h, tc.method, tc.path, "", tc.body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected status %d, got %d", tc.method, tc.path, http.StatusUnauthorized, rec.Code)
		}
	}
}

func TestClaimsHTTP_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"too long", apperrors.BadRequestError(claim.ErrProofTooLong, "fingerprint exceeds 6 bytes"), http.StatusBadRequest, "proof_too_long"},
		{"already exists", apperrors.ConflictError(claim.ErrProofAlreadyExist, "proof already exists"), http.StatusConflict, "proof_already_exist"},
		{"store failure", apperrors.GeneralError(errors.New("connection refused")), http.StatusInternalServerError, ""},
		{"unclassified", errors.New("connection refused"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewService(t)
			svc.EXPECT().CreateClaim(mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := doRequest(t, newClaimsTestServer(svc), http.MethodPost, "/claims", "alice", `{"fingerprint":"0x01"}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			got := decodeError(t, rec)
			if got.Code != tt.wantStatus || got.Kind != tt.wantKind {
				t.Fatalf("expected code %d kind %q, got %+v", tt.wantStatus, tt.wantKind, got)
			}
		})
	}
}

func TestClaimsHTTP_Get(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		GetClaim(mock.Anything, claim.Fingerprint{0xca, 0xfe}).
		Return(&claim.Claim{Fingerprint: claim.Fingerprint{0xca, 0xfe}, Owner: "bob", RegisteredAt: 3}, nil).
		Once()
	svc.EXPECT().
		GetClaim(mock.Anything, claim.Fingerprint{0x01}).
		Return(nil, apperrors.ResourceNotFoundError(claim.ErrClaimNotExist, "claim does not exist")).
		Once()
	h := newClaimsTestServer(svc)

	rec := doRequest(t, h, http.MethodGet, "/claims/cafe", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/claims/0x01", "alice", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
	if got := decodeError(t, rec); got.Error != "claim does not exist" {
		t.Fatalf("unexpected error %q", got.Error)
	}
}

func TestClaimsHTTP_Revoke(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().RevokeClaim(mock.Anything, claim.AccountID("alice"), claim.Fingerprint{0x01}).Return(nil).Once()
	svc.EXPECT().
		RevokeClaim(mock.Anything, claim.AccountID("mallory"), claim.Fingerprint{0x01}).
		Return(apperrors.ForbiddenError(claim.ErrNotClaimOwner, "caller is not the claim owner")).
		Once()
	h := newClaimsTestServer(svc)

	if rec := doRequest(t, h, http.MethodDelete, "/claims/0x01", "alice", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if rec := doRequest(t, h, http.MethodDelete, "/claims/0x01", "mallory", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestClaimsHTTP_Transfer(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		TransferClaim(mock.Anything, claim.AccountID("alice"), claim.Fingerprint{0x01}, claim.AccountID("bob")).
		Return(&claim.Claim{Fingerprint: claim.Fingerprint{0x01}, Owner: "bob", RegisteredAt: 9}, nil).
		Once()

	rec := doRequest(t, newClaimsTestServer(svc), http.MethodPost, "/claims/0x01/transfer", "alice", `{"new_owner":"bob"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got claim.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.Owner != "bob" || got.RegisteredAt != 9 {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestClaimsHTTP_Transfer_InvalidNewOwner(t *testing.T) {
	for _, body := range []string{`{"new_owner":""}`, `{"new_owner":"   "}`, `{}`} {
		svc := mocks.NewService(t)
		rec := doRequest(t, newClaimsTestServer(svc), http.MethodPost, "/claims/0x01/transfer", "alice", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", body, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestClaimsHTTP_InvalidPathFingerprint(t *testing.T) {
	svc := mocks.NewService(t)
	rec := doRequest(t, newClaimsTestServer(svc), http.MethodDelete, "/claims/xyz", "alice", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestClaimsHTTP_Health(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().Height().Return(claim.Height(12)).Once()

	rec := doRequest(t, newClaimsTestServer(svc), http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got claim.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.Status != "ok" || got.Height != 12 {
		t.Fatalf("unexpected health response %+v", got)
	}
}
