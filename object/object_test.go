package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPartitionEvenlyDivisibleObject(t *testing.T) {
	// 4 blocks of exactly 16 symbols of 100 bytes, no partial tail.
	p := Build(4*16*100, 16, 100)
	require.Equal(t, uint32(4), p.TotalBlocks())
	for _, b := range p.Blocks() {
		assert.Equal(t, uint32(16), b.Symbols)
		assert.Equal(t, uint64(1600), b.BytesUsed)
	}
}

func TestPartitionLastBlockIsShort(t *testing.T) {
	p := Build(342430, 16, 1400)
	last := p.Blocks()[len(p.Blocks())-1]
	assert.Less(t, last.BytesUsed, last.BlockSize())
}

func TestPartitionLargeBlocksComeFirst(t *testing.T) {
	// 17 symbols split across 2 blocks of max 16: large=9, small=8.
	p := Build(17*100, 16, 100)
	require.Equal(t, uint32(2), p.TotalBlocks())
	assert.GreaterOrEqual(t, p.Block(0).Symbols, p.Block(1).Symbols)
}

func TestPartitionCoverageAndMonotonicOffsets(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		objectSize := rapid.Uint64Range(1, 1<<20).Draw(t, "objectSize")
		maxSymbols := rapid.Uint32Range(1, 64).Draw(t, "maxSymbols")
		maxSymbolSize := rapid.Uint32Range(1, 256).Draw(t, "maxSymbolSize")

		p := Build(objectSize, maxSymbols, maxSymbolSize)

		var sum uint64
		var prevOffset uint64
		for i, b := range p.Blocks() {
			if i > 0 {
				require.Greater(t, b.ByteOffset, prevOffset)
			}
			require.GreaterOrEqual(t, b.BlockSize(), b.BytesUsed)
			sum += b.BytesUsed
			prevOffset = b.ByteOffset
		}
		require.Equal(t, objectSize, sum)
	})
}

func TestPartitionShortObjectYieldsFewerSymbols(t *testing.T) {
	p := Build(50, 16, 100)
	require.Equal(t, uint32(1), p.TotalBlocks())
	assert.Equal(t, uint32(1), p.Block(0).Symbols)
	assert.Equal(t, uint64(50), p.Block(0).BytesUsed)
}
