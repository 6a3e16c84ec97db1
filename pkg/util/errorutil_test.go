package util

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	err := NewForbidden("Admin access required")
	de := ToDomainError(err)
	assert.Equal(t, 403, de.HTTPStatus)
	assert.Equal(t, "Admin access required", de.Message)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	de := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, 404, de.HTTPStatus)
}

// Unexpected errors become a generic 500 so internals never leak.
func TestToDomainErrorHidesInternalDetail(t *testing.T) {
	de := ToDomainError(errors.New("connection refused to 10.0.0.5"))
	assert.Equal(t, 500, de.HTTPStatus)
	assert.Equal(t, "Internal server error", de.Message)
	assert.NotContains(t, de.Message, "10.0.0.5")
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
