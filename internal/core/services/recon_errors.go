package services

import (
	"errors"
	"fmt"
)

// NoMatchFoundError is returned in CONFIRMATION mode when no live expected
// entry matches the staging entry's account and order id.
type NoMatchFoundError struct {
	AccountID string
	OrderID   string
}

func (e *NoMatchFoundError) Error() string {
	return fmt.Sprintf("no expected entry found for account %s and order %s", e.AccountID, e.OrderID)
}

// AmbiguousMatchError is returned in CONFIRMATION mode when more than one live
// expected entry matches.
type AmbiguousMatchError struct {
	AccountID  string
	OrderID    string
	Candidates int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous match for account %s and order %s: %d candidate expected entries", e.AccountID, e.OrderID, e.Candidates)
}

// MismatchError is returned in CONFIRMATION mode when the single matched
// expected entry disagrees with the staging entry on amount, currency or
// entry type.
type MismatchError struct {
	EntryID string
	Reason  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("staging entry does not match expected entry %s: %s", e.EntryID, e.Reason)
}

// NoReconRuleFoundError is returned in TRANSACTION mode when no recon rule
// names the staging entry's account as a source account.
type NoReconRuleFoundError struct {
	AccountID string
}

func (e *NoReconRuleFoundError) Error() string {
	return fmt.Sprintf("no recon rule found for source account %s", e.AccountID)
}

// errorTypeName returns the stable identifier recorded in the staging entry's
// error_type metadata. Callers branch on types, never on these strings.
func errorTypeName(err error) string {
	var noMatch *NoMatchFoundError
	var ambiguous *AmbiguousMatchError
	var mismatch *MismatchError
	var noRule *NoReconRuleFoundError
	switch {
	case errors.As(err, &noMatch):
		return "NO_MATCH_FOUND"
	case errors.As(err, &ambiguous):
		return "AMBIGUOUS_MATCH"
	case errors.As(err, &mismatch):
		return "MISMATCH"
	case errors.As(err, &noRule):
		return "NO_RECON_RULE"
	default:
		return "INTERNAL"
	}
}
