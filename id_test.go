package activeobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDProducesDistinctValues(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
