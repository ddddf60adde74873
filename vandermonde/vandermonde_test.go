package vandermonde

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steinwurf-go/rlnc/field"
)

func TestBuildFirstRowIsAllOnes(t *testing.T) {
	f := field.New(field.Binary8)
	m := Build(4, f)
	row0 := m.Row(0)
	for _, v := range row0 {
		assert.Equal(t, uint32(1), v)
	}
}

func TestBuildSecondRowIsPowersOfAlpha(t *testing.T) {
	f := field.New(field.Binary8)
	m := Build(4, f)
	row1 := m.Row(1)
	assert.Equal(t, []uint32{1, 2, 4, 8}, row1)
}

func TestSystematicPrefixIsIdentity(t *testing.T) {
	f := field.New(field.Binary8)
	m := Systematic(10, f)
	for i := uint32(0); i < 10; i++ {
		row := m.Row(i)
		for c := uint32(0); c < 10; c++ {
			if c == i {
				require.Equal(t, uint32(1), row[c])
			} else {
				require.Equal(t, uint32(0), row[c])
			}
		}
	}
}

func TestCacheReturnsSameMatrixInstance(t *testing.T) {
	c := NewCache(field.New(field.Binary8))
	a := c.Systematic(5)
	b := c.Systematic(5)
	assert.Same(t, a, b)
}

func TestBuildRejectsKTooLarge(t *testing.T) {
	f := field.New(field.Binary8)
	assert.Panics(t, func() { Build(256, f) })
}
