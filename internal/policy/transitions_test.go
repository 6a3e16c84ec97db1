package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestAnyModeAllowsEveryTransition(t *testing.T) {
	transitions := NewTransitions(false)
	statuses := []domain.ComplaintStatus{
		domain.ComplaintStatusPending,
		domain.ComplaintStatusInProgress,
		domain.ComplaintStatusResolved,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			assert.True(t, transitions.Allowed(from, to), "%s -> %s", from, to)
		}
	}
}

func TestStrictModeForwardOnly(t *testing.T) {
	transitions := NewTransitions(true)

	assert.True(t, transitions.Allowed(domain.ComplaintStatusPending, domain.ComplaintStatusInProgress))
	assert.True(t, transitions.Allowed(domain.ComplaintStatusInProgress, domain.ComplaintStatusResolved))
	assert.True(t, transitions.Allowed(domain.ComplaintStatusPending, domain.ComplaintStatusResolved))
	assert.True(t, transitions.Allowed(domain.ComplaintStatusResolved, domain.ComplaintStatusResolved))

	assert.False(t, transitions.Allowed(domain.ComplaintStatusResolved, domain.ComplaintStatusPending))
	assert.False(t, transitions.Allowed(domain.ComplaintStatusResolved, domain.ComplaintStatusInProgress))
	assert.False(t, transitions.Allowed(domain.ComplaintStatusInProgress, domain.ComplaintStatusPending))
}

func TestUnknownStatusNeverAllowed(t *testing.T) {
	for _, strict := range []bool{false, true} {
		transitions := NewTransitions(strict)
		assert.False(t, transitions.Allowed("Bogus", domain.ComplaintStatusPending))
		assert.False(t, transitions.Allowed(domain.ComplaintStatusPending, "Bogus"))
	}
}
