package claim

// CreateRequest is the body of a create claim request.
type CreateRequest struct {
	Fingerprint string `json:"fingerprint"`
}

// TransferRequest is the body of a transfer claim request.
type TransferRequest struct {
	NewOwner string `json:"new_owner"`
}

// Response is the wire representation of a claim.
type Response struct {
	Fingerprint  string `json:"fingerprint"`
	Owner        string `json:"owner"`
	RegisteredAt uint64 `json:"registered_at"`
}

// NewResponse converts a claim into its wire representation.
func NewResponse(c *Claim) *Response {
	return &Response{
		Fingerprint:  c.Fingerprint.String(),
		Owner:        string(c.Owner),
		RegisteredAt: uint64(c.RegisteredAt),
	}
}

// HealthResponse reports liveness together with the current ledger height.
type HealthResponse struct {
	Status string `json:"status"`
	Height uint64 `json:"height"`
}
