// Package service exposes the claims registry to transports. Every state-changing
// operation is executed through the ledger so operations apply one at a time.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/chainsafe/claims-registry/internal/metrics"
	apperrors "github.com/chainsafe/claims-registry/pkg/app/errors"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

// Operation names used in logs and metrics.
const (
	OpCreate   = "create_claim"
	OpRevoke   = "revoke_claim"
	OpTransfer = "transfer_claim"
	OpGet      = "get_claim"
)

var errNoCaller = errors.New("no authenticated caller")

// Registry is the claim operation processor.
type Registry interface {
	CreateClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) (*claim.Claim, error)
	RevokeClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) error
	TransferClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint, newOwner claim.AccountID) (*claim.Claim, error)
	Get(ctx context.Context, fp claim.Fingerprint) (*claim.Claim, error)
}

// Executor runs operations in the single execution lane of the ledger.
type Executor interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	Height() claim.Height
}

// Service defines the interface for the claims registry business logic
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	CreateClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) (*claim.Claim, error)
	RevokeClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) error
	TransferClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint, newOwner claim.AccountID) (*claim.Claim, error)
	GetClaim(ctx context.Context, fp claim.Fingerprint) (*claim.Claim, error)
	Height() claim.Height
}

type claimService struct {
	registry Registry
	exec     Executor
}

// NewService creates a claims service applying operations to registry through exec.
func NewService(registry Registry, exec Executor) Service {
	return &claimService{
		registry: registry,
		exec:     exec,
	}
}

// CreateClaim registers fp to caller.
func (s *claimService) CreateClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) (c *claim.Claim, err error) {
	defer observe(OpCreate, time.Now(), &err)

	if caller == "" {
		return nil, apperrors.UnAuthorizedError(errNoCaller, "caller is not authenticated")
	}
	err = s.exec.Execute(ctx, func(ctx context.Context) error {
		var opErr error
		c, opErr = s.registry.CreateClaim(ctx, caller, fp)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RevokeClaim removes the claim on fp owned by caller.
func (s *claimService) RevokeClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) (err error) {
	defer observe(OpRevoke, time.Now(), &err)

	if caller == "" {
		return apperrors.UnAuthorizedError(errNoCaller, "caller is not authenticated")
	}
	return s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.registry.RevokeClaim(ctx, caller, fp)
	})
}

// TransferClaim hands the claim on fp from caller to newOwner.
func (s *claimService) TransferClaim(
	ctx context.Context,
	caller claim.AccountID,
	fp claim.Fingerprint,
	newOwner claim.AccountID,
) (c *claim.Claim, err error) {
	defer observe(OpTransfer, time.Now(), &err)

	if caller == "" {
		return nil, apperrors.UnAuthorizedError(errNoCaller, "caller is not authenticated")
	}
	if newOwner == "" {
		return nil, apperrors.BadRequestError(nil, "new_owner is required")
	}
	err = s.exec.Execute(ctx, func(ctx context.Context) error {
		var opErr error
		c, opErr = s.registry.TransferClaim(ctx, caller, fp, newOwner)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetClaim returns the claim on fp. Reads do not enter the execution lane.
func (s *claimService) GetClaim(ctx context.Context, fp claim.Fingerprint) (c *claim.Claim, err error) {
	defer observe(OpGet, time.Now(), &err)
	return s.registry.Get(ctx, fp)
}

// Height returns the current ledger height.
func (s *claimService) Height() claim.Height {
	return s.exec.Height()
}

func observe(op string, start time.Time, err *error) {
	metrics.ClaimOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.ClaimOperationsTotal.WithLabelValues(op, Outcome(*err)).Inc()
}

// Outcome classifies an operation result for metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, claim.ErrProofTooLong):
		return "proof_too_long"
	case errors.Is(err, claim.ErrProofAlreadyExist):
		return "proof_already_exist"
	case errors.Is(err, claim.ErrClaimNotExist):
		return "claim_not_exist"
	case errors.Is(err, claim.ErrNotClaimOwner):
		return "not_claim_owner"
	case apperrors.Is(err, apperrors.CategoryUnauthorized):
		return "unauthorized"
	case apperrors.Is(err, apperrors.CategoryDataError):
		return "bad_request"
	default:
		return "error"
	}
}
