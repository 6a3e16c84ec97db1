// Package policy holds the pure decision logic for complaint workflow rules.
package policy

import "github.com/spec-kit/complaint-service/internal/domain"

// TransitionMode selects how strictly status changes are checked.
type TransitionMode string

const (
	// TransitionModeAny permits any status from any status, matching the
	// historical behavior of the system.
	TransitionModeAny TransitionMode = "any"
	// TransitionModeStrict permits self-loops and forward movement along
	// Pending -> In Progress -> Resolved only.
	TransitionModeStrict TransitionMode = "strict"
)

var statusRank = map[domain.ComplaintStatus]int{
	domain.ComplaintStatusPending:    0,
	domain.ComplaintStatusInProgress: 1,
	domain.ComplaintStatusResolved:   2,
}

// Transitions is the explicit status transition table.
type Transitions struct {
	mode TransitionMode
}

// NewTransitions builds the table for the selected mode.
func NewTransitions(strict bool) *Transitions {
	mode := TransitionModeAny
	if strict {
		mode = TransitionModeStrict
	}
	return &Transitions{mode: mode}
}

// Mode returns the active transition mode.
func (t *Transitions) Mode() TransitionMode {
	return t.mode
}

// Allowed reports whether an admin may move a complaint from one status to
// another. Unknown statuses are never allowed.
func (t *Transitions) Allowed(from, to domain.ComplaintStatus) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	if t.mode == TransitionModeAny {
		return true
	}
	return toRank >= fromRank
}
