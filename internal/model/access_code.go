package model

// AccessCode is an opaque single-use token. Presence in the code store means
// the code is valid; once removed it never becomes valid again.
type AccessCode string

func (c AccessCode) String() string {
	return string(c)
}

// GateDecision is the per-request outcome of checking a code.
type GateDecision int

const (
	GateReject GateDecision = iota
	GateProceed
)

func (d GateDecision) String() string {
	switch d {
	case GateProceed:
		return "proceed"
	default:
		return "reject"
	}
}

// IssuedCode is the response payload of a successful issuance.
type IssuedCode struct {
	Code AccessCode `json:"code"`
}
