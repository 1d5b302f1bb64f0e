// Package auth turns request credentials into a verified caller identity.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/chainsafe/claims-registry/pkg/app/errors"
	apphttp "github.com/chainsafe/claims-registry/pkg/app/http"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

// ErrMissingCredentials is returned when a request carries no credentials at all.
var ErrMissingCredentials = errors.New("missing credentials")

// ErrInvalidAccount is returned when a string is not an identity this authenticator
// could ever produce.
var ErrInvalidAccount = errors.New("invalid account")

// Authenticator verifies the credentials of a request and returns the caller.
// ParseAccount converts a client supplied identity, such as a transfer recipient,
// into the exact form Authenticate returns for that account.
type Authenticator interface {
	Authenticate(r *http.Request) (claim.AccountID, error)
	ParseAccount(s string) (claim.AccountID, error)
}

// ParseSubject accepts any non-blank token subject unchanged.
func ParseSubject(s string) (claim.AccountID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidAccount)
	}
	return claim.AccountID(s), nil
}

// Middleware rejects unauthenticated requests with 401 and stores the caller in the
// request context for the next handler.
func Middleware(a Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := a.Authenticate(r)
			if err != nil {
				logger.Debug("Authentication failed",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(err, "authentication failed"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", ErrMissingCredentials
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("malformed authorization header")
	}
	return strings.TrimSpace(token), nil
}
