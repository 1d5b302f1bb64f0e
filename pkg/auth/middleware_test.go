package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/chainsafe/claims-registry/pkg/claim"
)

type staticAuthenticator struct {
	caller claim.AccountID
	err    error
}

func (a staticAuthenticator) Authenticate(*http.Request) (claim.AccountID, error) {
	return a.caller, a.err
}

func (staticAuthenticator) ParseAccount(s string) (claim.AccountID, error) {
	return ParseSubject(s)
}

func TestMiddleware_SetsCaller(t *testing.T) {
	var got claim.AccountID
	h := Middleware(staticAuthenticator{caller: "alice"}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got != "alice" {
		t.Fatalf("expected caller alice, got %q", got)
	}
}

func TestMiddleware_Unauthorized(t *testing.T) {
	called := false
	h := Middleware(staticAuthenticator{err: errors.New("bad token")}, zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if called {
		t.Fatal("next handler must not run for unauthenticated requests")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Code != http.StatusUnauthorized || body.Error != "authentication failed" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestCallerFromContext_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := CallerFromContext(r.Context()); ok {
		t.Fatal("expected no caller")
	}
	if _, ok := CallerFromContext(WithCaller(r.Context(), "")); ok {
		t.Fatal("empty caller must not count as authenticated")
	}
}
