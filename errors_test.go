package activeobjects

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicErrorUnwrapsErrorValue(t *testing.T) {
	cause := errors.New("root cause")
	pe := &PanicError{Value: cause}

	assert.ErrorIs(t, pe, cause)
}

func TestPanicErrorNonErrorValueHasNoCause(t *testing.T) {
	pe := &PanicError{Value: 42}
	assert.Nil(t, pe.Unwrap())
	assert.Contains(t, pe.Error(), "42")
}

func TestAggregateErrorUnwrapsAll(t *testing.T) {
	e1 := errors.New("one")
	e2 := errors.New("two")
	agg := &AggregateError{Errors: []error{e1, e2}}

	assert.ErrorIs(t, agg, e1)
	assert.ErrorIs(t, agg, e2)
}

func TestAggregateErrorMessageSingular(t *testing.T) {
	agg := &AggregateError{Errors: []error{errors.New("solo")}}
	assert.Equal(t, "solo", agg.Error())
}

func TestWrapErrorPreservesCause(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := WrapError("context", cause)
	require.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "context")
}
