package auth

import (
	"context"

	"github.com/chainsafe/claims-registry/pkg/claim"
)

type contextKey string

// ContextKeyCaller is the context key for the authenticated caller
const ContextKeyCaller contextKey = "caller"

// WithCaller adds the authenticated caller to the context
func WithCaller(ctx context.Context, caller claim.AccountID) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, caller)
}

// CallerFromContext retrieves the authenticated caller from the context
func CallerFromContext(ctx context.Context) (claim.AccountID, bool) {
	caller, ok := ctx.Value(ContextKeyCaller).(claim.AccountID)
	return caller, ok && caller != ""
}
