package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepSetSymbolRaisesRank(t *testing.T) {
	d := NewDeep(4, 8)
	assert.Equal(t, uint32(0), d.Rank())
	d.SetSymbol(2, make([]byte, 8))
	assert.True(t, d.Specified(2))
	assert.Equal(t, uint32(1), d.Rank())

	// Re-setting an already specified symbol must not double-count rank.
	d.SetSymbol(2, make([]byte, 8))
	assert.Equal(t, uint32(1), d.Rank())
}

func TestDeepResetClearsState(t *testing.T) {
	d := NewDeep(2, 4)
	d.SetSymbol(0, []byte{1, 2, 3, 4})
	d.Reset()
	assert.Equal(t, uint32(0), d.Rank())
	assert.False(t, d.Specified(0))
	assert.Equal(t, []byte{0, 0, 0, 0}, d.Symbol(0))
}

func TestShallowSetSymbolCapturesPointerNotCopy(t *testing.T) {
	s := NewShallow(1, 4)
	data := []byte{1, 2, 3, 4}
	s.SetSymbol(0, data)
	data[0] = 0xFF
	assert.Equal(t, byte(0xFF), s.Symbol(0)[0], "shallow storage must alias caller memory")
}

func TestPartialShallowPaddingSized(t *testing.T) {
	p := NewPartialShallow(4, 10, 33)
	require.Len(t, p.PaddingBuffer(), 40-33)
	for _, b := range p.PaddingBuffer() {
		assert.Zero(t, b)
	}
}

func TestAlignedBufferIsAligned(t *testing.T) {
	for _, n := range []int{1, 15, 16, 17, 1024} {
		buf := AlignedBuffer(n)
		assert.Len(t, buf, n)
		assert.True(t, IsAligned(buf))
	}
}
