// Package claim defines the domain model of the claims registry.
package claim

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Fingerprint is the byte-sequence key a claim is registered under, usually a content digest.
type Fingerprint []byte

// ParseFingerprint decodes a hex encoded fingerprint, with or without the 0x prefix.
func ParseFingerprint(s string) (Fingerprint, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if raw == "" {
		return nil, errors.New("empty fingerprint")
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid fingerprint hex: %w", err)
	}
	return Fingerprint(b), nil
}

// String returns the 0x prefixed hex form.
func (f Fingerprint) String() string {
	return "0x" + hex.EncodeToString(f)
}

// Key returns the fingerprint as a map key. Equality is exact byte equality.
func (f Fingerprint) Key() string {
	return string(f)
}

// AccountID is a caller identity resolved by an authenticator.
type AccountID string

// Height is the ledger height of the execution context an operation runs in.
type Height uint64

// Claim is an occupied registry entry.
type Claim struct {
	Fingerprint  Fingerprint
	Owner        AccountID
	RegisteredAt Height
}

// EventType names a successful state change.
type EventType string

const (
	EventClaimCreated     EventType = "claim_created"
	EventClaimRevoked     EventType = "claim_revoked"
	EventClaimTransferred EventType = "claim_transferred"
)

// Event is the notification reported after a state change was applied.
// NewOwner is only set for transfers. Sequence gives the order in which operations
// were applied by this process, starting at 1; several operations may share a Height.
type Event struct {
	Type        EventType
	Caller      AccountID
	NewOwner    AccountID
	Fingerprint Fingerprint
	Height      Height
	Sequence    uint64
}
