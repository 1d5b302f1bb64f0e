package claim

// Error is a claim rule violation. Kind is a stable identifier that survives the
// trip through the HTTP API.
type Error struct {
	kind string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Kind returns the stable identifier of e.
func (e *Error) Kind() string { return e.kind }

var (
	ErrProofTooLong      = &Error{kind: "proof_too_long", msg: "proof too long"}
	ErrProofAlreadyExist = &Error{kind: "proof_already_exist", msg: "proof already exist"}
	ErrClaimNotExist     = &Error{kind: "claim_not_exist", msg: "claim not exist"}
	ErrNotClaimOwner     = &Error{kind: "not_claim_owner", msg: "not claim owner"}
)

// ErrorOfKind returns the claim error identified by kind, or nil if kind is unknown.
func ErrorOfKind(kind string) error {
	for _, e := range []*Error{ErrProofTooLong, ErrProofAlreadyExist, ErrClaimNotExist, ErrNotClaimOwner} {
		if e.kind == kind {
			return e
		}
	}
	return nil
}
