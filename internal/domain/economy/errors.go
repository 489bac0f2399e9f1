// Package economy holds the failure taxonomy shared by every money-moving operation.
package economy

import (
	"github.com/cockroachdb/errors"
)

// Kind classifies a failure for callers and transports.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindPolicyViolation   Kind = "policy_violation"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindConflict          Kind = "conflict"
	KindNotFound          Kind = "not_found"
	KindInternal          Kind = "internal"
)

var (
	ErrValidation        = errors.New("invalid input")
	ErrPolicyViolation   = errors.New("league policy violation")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrConflict          = errors.New("concurrent modification conflict")
	ErrNotFound          = errors.New("resource not found")
)

// Policy reasons. Each one also matches ErrPolicyViolation.
var (
	ErrAlreadyOwned  = policyReason("player already owned in scope")
	ErrNotOwner      = policyReason("club does not own player")
	ErrRosterFull    = policyReason("roster is full")
	ErrPriceTooLow   = policyReason("price below minimum sale value")
	ErrBidTooLow     = policyReason("bid does not exceed current value")
	ErrAuctionClosed = policyReason("auction is not accepting changes")
)

type reasonError struct {
	msg  string
	kind error
}

func policyReason(msg string) error {
	return &reasonError{msg: msg, kind: ErrPolicyViolation}
}

func (e *reasonError) Error() string { return e.msg }

func (e *reasonError) Is(target error) bool { return target == e.kind }

var reasons = []struct {
	err  error
	code string
}{
	{ErrAlreadyOwned, "alreadyOwned"},
	{ErrNotOwner, "notOwner"},
	{ErrRosterFull, "rosterFull"},
	{ErrPriceTooLow, "priceTooLow"},
	{ErrBidTooLow, "bidTooLow"},
	{ErrAuctionClosed, "auctionClosed"},
	{ErrInsufficientFunds, "insufficientFunds"},
	{ErrConflict, "conflict"},
	{ErrNotFound, "notFound"},
	{ErrValidation, "invalidInput"},
}

// KindOf reports the taxonomy kind of err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrPolicyViolation):
		return KindPolicyViolation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// ReasonOf returns a stable camelCase reason code for err.
func ReasonOf(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	if errors.Is(err, ErrPolicyViolation) {
		return "policyViolation"
	}
	return "internalError"
}

// Conflict marks err as a conflict while keeping its message and cause.
func Conflict(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrConflict)
}

// Retryable reports whether a later attempt of the same operation may succeed.
func Retryable(err error) bool {
	k := KindOf(err)
	return k == KindConflict || k == KindInternal
}
