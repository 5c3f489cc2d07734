package model

import "fmt"

// MalformedModelError reports a structural invariant violation in a deck,
// such as a duplicate block ID. It is fatal: the optimizer surfaces it
// before mutating anything.
type MalformedModelError struct {
	BlockID int
	Slide   int
	Reason  string
	Detail  string
}

func (e *MalformedModelError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("malformed model: %s (block %d, slide %d): %s", e.Reason, e.BlockID, e.Slide, e.Detail)
	}
	return fmt.Sprintf("malformed model: %s (block %d, slide %d)", e.Reason, e.BlockID, e.Slide)
}
