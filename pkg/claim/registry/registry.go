// Package registry implements the claim operation processor: the state-transition
// function that creates, revokes and transfers claims against a Store.
//
// The Registry holds no locks. The host is expected to serialize every call into a
// single total order (see ledger.Chain) so that each operation observes the effects
// of all operations before it.
package registry

import (
	"context"
	"fmt"
	"sync/atomic"

	apperrors "github.com/chainsafe/claims-registry/pkg/app/errors"
	"github.com/chainsafe/claims-registry/pkg/claim"
)

// DefaultMaxFingerprintLen is the fingerprint bound used when none is configured.
const DefaultMaxFingerprintLen = 6

// Store is the keyed container the registry owns. Insert overwrites unconditionally,
// callers check Contains first.
type Store interface {
	Get(ctx context.Context, fp claim.Fingerprint) (*claim.Claim, bool, error)
	Contains(ctx context.Context, fp claim.Fingerprint) (bool, error)
	Insert(ctx context.Context, c *claim.Claim) error
	Remove(ctx context.Context, fp claim.Fingerprint) error
}

// Clock supplies the height of the current execution context.
type Clock interface {
	Height() claim.Height
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() claim.Height

// Height implements Clock.
func (f ClockFunc) Height() claim.Height { return f() }

// Emitter receives a notification for every applied state change.
type Emitter interface {
	Emit(ctx context.Context, ev claim.Event)
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, claim.Event) {}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxFingerprintLen overrides DefaultMaxFingerprintLen.
func WithMaxFingerprintLen(n int) Option {
	return func(r *Registry) {
		r.maxFingerprintLen = n
	}
}

// WithEmitter sets the sink for claim events.
func WithEmitter(e Emitter) Option {
	return func(r *Registry) {
		if e != nil {
			r.emitter = e
		}
	}
}

// Registry validates and applies claim operations.
type Registry struct {
	store             Store
	clock             Clock
	emitter           Emitter
	maxFingerprintLen int

	// seq numbers applied operations. It only advances after a successful mutation.
	seq atomic.Uint64
}

// New creates a Registry over the given store and clock.
func New(store Store, clock Clock, opts ...Option) *Registry {
	r := &Registry{
		store:             store,
		clock:             clock,
		emitter:           nopEmitter{},
		maxFingerprintLen: DefaultMaxFingerprintLen,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxFingerprintLen returns the configured fingerprint bound.
func (r *Registry) MaxFingerprintLen() int {
	return r.maxFingerprintLen
}

// CreateClaim registers fp to caller at the current height.
func (r *Registry) CreateClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) (*claim.Claim, error) {
	if len(fp) > r.maxFingerprintLen {
		return nil, apperrors.BadRequestError(claim.ErrProofTooLong,
			fmt.Sprintf("fingerprint exceeds %d bytes", r.maxFingerprintLen))
	}

	exists, err := r.store.Contains(ctx, fp)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to check claim existence: %w", err))
	}
	if exists {
		return nil, apperrors.ConflictError(claim.ErrProofAlreadyExist, "proof already exists")
	}

	height := r.clock.Height()
	c := &claim.Claim{
		Fingerprint:  fp,
		Owner:        caller,
		RegisteredAt: height,
	}
	if err := r.store.Insert(ctx, c); err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to insert claim: %w", err))
	}

	r.emit(ctx, claim.Event{
		Type:        claim.EventClaimCreated,
		Caller:      caller,
		Fingerprint: fp,
		Height:      height,
	})
	return c, nil
}

// RevokeClaim removes the claim on fp if caller owns it.
func (r *Registry) RevokeClaim(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) error {
	if _, err := r.ownedBy(ctx, caller, fp); err != nil {
		return err
	}

	height := r.clock.Height()
	if err := r.store.Remove(ctx, fp); err != nil {
		return apperrors.GeneralError(fmt.Errorf("failed to remove claim: %w", err))
	}

	r.emit(ctx, claim.Event{
		Type:        claim.EventClaimRevoked,
		Caller:      caller,
		Fingerprint: fp,
		Height:      height,
	})
	return nil
}

// TransferClaim hands the claim on fp to newOwner and re-stamps its height.
// Transferring to the current owner is allowed and still re-stamps.
func (r *Registry) TransferClaim(
	ctx context.Context,
	caller claim.AccountID,
	fp claim.Fingerprint,
	newOwner claim.AccountID,
) (*claim.Claim, error) {
	if _, err := r.ownedBy(ctx, caller, fp); err != nil {
		return nil, err
	}

	height := r.clock.Height()
	c := &claim.Claim{
		Fingerprint:  fp,
		Owner:        newOwner,
		RegisteredAt: height,
	}
	if err := r.store.Insert(ctx, c); err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to update claim: %w", err))
	}

	r.emit(ctx, claim.Event{
		Type:        claim.EventClaimTransferred,
		Caller:      caller,
		NewOwner:    newOwner,
		Fingerprint: fp,
		Height:      height,
	})
	return c, nil
}

// Get returns the claim on fp. It has no side effects.
func (r *Registry) Get(ctx context.Context, fp claim.Fingerprint) (*claim.Claim, error) {
	c, ok, err := r.store.Get(ctx, fp)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to get claim: %w", err))
	}
	if !ok {
		return nil, apperrors.ResourceNotFoundError(claim.ErrClaimNotExist, "claim does not exist")
	}
	return c, nil
}

// emit stamps ev with the next sequence number and hands it to the emitter.
func (r *Registry) emit(ctx context.Context, ev claim.Event) {
	ev.Sequence = r.seq.Add(1)
	r.emitter.Emit(ctx, ev)
}

// ownedBy loads the claim on fp and checks that caller is its owner.
func (r *Registry) ownedBy(ctx context.Context, caller claim.AccountID, fp claim.Fingerprint) (*claim.Claim, error) {
	c, ok, err := r.store.Get(ctx, fp)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to get claim: %w", err))
	}
	if !ok {
		return nil, apperrors.ResourceNotFoundError(claim.ErrClaimNotExist, "claim does not exist")
	}
	if c.Owner != caller {
		return nil, apperrors.ForbiddenError(claim.ErrNotClaimOwner, "caller is not the claim owner")
	}
	return c, nil
}
