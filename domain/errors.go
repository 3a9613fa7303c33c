// Package domain holds the match and invitation rules shared by the server
// and the client: skill-level ordering, capacity derivation, join/leave
// gating, lifecycle state machines, and level progression. Everything here
// is a pure function over snapshots; client-side callers use it for
// affordances, the server re-checks the same rules on the mutation path.
package domain

import "errors"

// One sentinel per rejection category. Services wrap these with context and
// the HTTP layers on both sides map them to and from status codes, so call
// sites only ever branch with errors.Is.
var (
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrForbidden       = errors.New("operation not allowed for the current user")
	ErrNotEligible     = errors.New("user level is below the match category")
	ErrMatchFull       = errors.New("match has no vacancies")
	ErrInvalidState    = errors.New("action not allowed in the current status")
	ErrNotFound        = errors.New("requested resource not found")
	ErrValidation      = errors.New("validation failed")
)

// Wire codes for the rejection categories. The server tags every error
// response with one; the client maps it back onto the sentinel above, so
// a denial keeps its category across the HTTP boundary.
const (
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeEligibility     = "eligibility"
	CodeCapacity        = "capacity"
	CodeState           = "state"
	CodeNotFound        = "not_found"
	CodeValidation      = "validation"
)

var codeSentinels = map[string]error{
	CodeUnauthenticated: ErrUnauthenticated,
	CodeForbidden:       ErrForbidden,
	CodeEligibility:     ErrNotEligible,
	CodeCapacity:        ErrMatchFull,
	CodeState:           ErrInvalidState,
	CodeNotFound:        ErrNotFound,
	CodeValidation:      ErrValidation,
}

// CodeFor returns the wire code for a sentinel, "" for anything else.
func CodeFor(err error) string {
	for code, sentinel := range codeSentinels {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

// ErrFor returns the sentinel for a wire code, nil for unknown codes.
func ErrFor(code string) error {
	return codeSentinels[code]
}
