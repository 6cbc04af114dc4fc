package engine

import (
	"fmt"
	"strconv"
)

// ValidationError indicates malformed input (negative XP grant, out-of-range
// difficulty, bad progress value). Never retried; surfaced to the caller.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// NotFoundError indicates a reference to a nonexistent habit, goal or
// achievement. The transport layer decides the status mapping.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func notFound(kind string, id int64) NotFoundError {
	return NotFoundError{Kind: kind, ID: strconv.FormatInt(id, 10)}
}

// InsufficientGoldError rejects a deduction that would drive the ledger's
// current gold negative. The ledger is left unchanged.
type InsufficientGoldError struct {
	Required  int
	Available int
}

func (e InsufficientGoldError) Error() string {
	return fmt.Sprintf("insufficient gold: need %d, have %d", e.Required, e.Available)
}
