package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeNotFound, "column missing")

	assert.Equal(t, ErrorTypeNotFound, err.Type)
	assert.Equal(t, "not_found: column missing", err.Error())
	assert.NotEmpty(t, err.Stack)
	assert.Nil(t, err.Unwrap())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeSizeMismatch, "sizes of columns do not match: %s: %d, %s: %d", "a", 5, "c", 3)
	assert.Contains(t, err.Error(), "a: 5, c: 3")
	assert.Equal(t, ErrorTypeSizeMismatch, err.Type)
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, ErrorTypeConfig, "failed to write config file")

	require.Error(t, err)
	assert.Equal(t, "config: failed to write config file: disk full", err.Error())
	assert.True(t, stderrors.Is(err, cause))

	assert.Nil(t, Wrap(nil, ErrorTypeConfig, "ignored"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeValidation, "bad value")
	outer := Wrap(inner, ErrorTypeQuery, "stage failed")

	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeQuery))

	var e *Error
	require.True(t, stderrors.As(outer.Unwrap(), &e))
	assert.Equal(t, ErrorTypeValidation, e.Type)
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeTooSlow, "too slow")

	assert.True(t, IsType(err, ErrorTypeTooSlow))
	assert.False(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeTooSlow))
	assert.False(t, IsType(nil, ErrorTypeTooSlow))

	// Wrapped with fmt still matches through the chain.
	wrapped := fmt.Errorf("while reading: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeTooSlow))
}

func TestIsFatal(t *testing.T) {
	fatal := []ErrorType{ErrorTypeOutOfBound, ErrorTypeNotFound, ErrorTypeSizeMismatch, ErrorTypeTooSlow}
	for _, typ := range fatal {
		assert.True(t, IsFatal(New(typ, "x")), "type %s must be fatal", typ)
	}

	assert.False(t, IsFatal(New(ErrorTypeConfig, "x")))
	assert.False(t, IsFatal(New(ErrorTypeInternal, "x")))
	assert.False(t, IsFatal(stderrors.New("plain")))
	assert.False(t, IsFatal(nil))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeQuery, "stage failed").
		WithDetail("stage", "project").
		WithDetail("block", 17)

	assert.Equal(t, "project", err.Details["stage"])
	assert.Equal(t, 17, err.Details["block"])
}
