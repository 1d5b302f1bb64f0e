package auth

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainsafe/claims-registry/pkg/claim"
)

// Headers carrying an EIP-191 signed message.
const (
	HeaderSignature = "X-Signature"
	HeaderMessage   = "X-Message"
)

// MessagePrefix starts every message accepted by EIP191Authenticator. It is
// followed by the unix time of signing in seconds.
const MessagePrefix = "claims-registry:"

const defaultMaxMessageAge = 5 * time.Minute

// EIP191Authenticator authenticates callers by an Ethereum personal_sign signature over
// a timestamped message. The caller is the checksummed recovered address.
type EIP191Authenticator struct {
	maxAge time.Duration
	now    func() time.Time
}

// NewEIP191Authenticator creates an authenticator accepting messages signed within maxAge.
func NewEIP191Authenticator(maxAge time.Duration) *EIP191Authenticator {
	if maxAge <= 0 {
		maxAge = defaultMaxMessageAge
	}
	return &EIP191Authenticator{maxAge: maxAge, now: time.Now}
}

// Authenticate implements Authenticator.
func (a *EIP191Authenticator) Authenticate(r *http.Request) (claim.AccountID, error) {
	signature := r.Header.Get(HeaderSignature)
	message := r.Header.Get(HeaderMessage)
	if signature == "" || message == "" {
		return "", ErrMissingCredentials
	}

	if err := a.checkMessage(message); err != nil {
		return "", err
	}

	addr, err := VerifyEIP191Signature(message, signature)
	if err != nil {
		return "", err
	}
	return claim.AccountID(addr.Hex()), nil
}

// ParseAccount implements Authenticator. It accepts a hex address in any letter case
// and returns its checksummed form, the form Authenticate produces.
func (a *EIP191Authenticator) ParseAccount(s string) (claim.AccountID, error) {
	addr, err := ParseAddress(s)
	if err != nil {
		return "", err
	}
	return claim.AccountID(addr), nil
}

func (a *EIP191Authenticator) checkMessage(message string) error {
	ts, ok := strings.CutPrefix(message, MessagePrefix)
	if !ok {
		return fmt.Errorf("message must start with %q", MessagePrefix)
	}
	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid message timestamp: %w", err)
	}

	age := a.now().Sub(time.Unix(secs, 0))
	if age < -a.maxAge || age > a.maxAge {
		return fmt.Errorf("message timestamp outside of %s window", a.maxAge)
	}
	return nil
}

// SignedMessage returns the message to sign at t.
func SignedMessage(t time.Time) string {
	return MessagePrefix + strconv.FormatInt(t.Unix(), 10)
}

// VerifyEIP191Signature verifies an EIP-191 personal_sign signature
// Returns the recovered Ethereum address if valid
func VerifyEIP191Signature(message, signature string) (common.Address, error) {
	sigBytes, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid signature hex: %w", err)
	}
	if len(sigBytes) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: expected %d, got %d",
			crypto.SignatureLength, len(sigBytes))
	}

	// v can be 0, 1, 27 or 28
	if sigBytes[crypto.RecoveryIDOffset] >= 27 {
		sigBytes[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(eip191Hash(message), sigBytes)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

func eip191Hash(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}

// ParseAddress validates an EVM address and returns it checksummed.
func ParseAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %q is not an EVM address", ErrInvalidAccount, address)
	}
	return common.HexToAddress(address).Hex(), nil
}
