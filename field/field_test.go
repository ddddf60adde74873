package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBinaryIsXOR(t *testing.T) {
	f := New(Binary)
	dst := []byte{0x0F, 0xFF}
	f.Add(dst, []byte{0xF0, 0x01})
	assert.Equal(t, []byte{0xFF, 0xFE}, dst)
}

func TestBinary8MultiplyAddRoundTrip(t *testing.T) {
	f := New(Binary8)
	dst := []byte{0x00}
	src := []byte{0x53}
	f.MultiplyAdd(dst, src, 0xCA)
	// Subtracting the same scalar multiple back out must restore the
	// original destination (zero here).
	f.MultiplySubtract(dst, src, 0xCA)
	assert.Equal(t, []byte{0x00}, dst)
}

func TestBinary8InvertIsMultiplicativeInverse(t *testing.T) {
	f := New(Binary8).(*binary8Field)
	for v := 1; v < 256; v++ {
		inv := f.Invert(uint32(v))
		assert.Equal(t, byte(1), f.mul(byte(v), byte(inv)), "v=%d", v)
	}
}

func TestBinary16InvertIsMultiplicativeInverse(t *testing.T) {
	f := New(Binary16).(*binary16Field)
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint32Range(1, 65535).Draw(t, "v")
		inv := f.Invert(v)
		require.Equal(t, uint16(1), f.mul(uint16(v), uint16(inv)))
	})
}

func TestPrime2325AddSubtractRoundTrip(t *testing.T) {
	f := New(Prime2325)
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Uint32Range(0, uint32(prime2325Modulus-1)).Draw(t, "a")
		b := rapid.Uint32Range(0, uint32(prime2325Modulus-1)).Draw(t, "b")

		dst := make([]byte, 4)
		putWord32(dst, 0, a)
		src := make([]byte, 4)
		putWord32(src, 0, b)

		f.Add(dst, src)
		f.Subtract(dst, src)
		require.Equal(t, a, word32(dst, 0))
	})
}

func TestPrime2325Invert(t *testing.T) {
	f := New(Prime2325)
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint32Range(1, uint32(prime2325Modulus-1)).Draw(t, "v")
		inv := f.Invert(v)

		product := make([]byte, 4)
		putWord32(product, 0, v)
		f.Multiply(product, inv)
		require.Equal(t, uint32(1), word32(product, 0))
	})
}

func TestCountingResetsToZero(t *testing.T) {
	c := NewCounting(New(Binary8))
	dst := []byte{0x01}
	c.MultiplyAdd(dst, []byte{0x02}, 3)
	c.Invert(1)
	assert.Equal(t, uint64(1), c.Counts().MultiplyAdd)
	assert.Equal(t, uint64(1), c.Counts().Invert)

	c.Reset()
	assert.Equal(t, Counts{}, c.Counts())
}

func TestBinaryMultiplyRejectsNonUnitScalar(t *testing.T) {
	f := New(Binary)
	assert.Panics(t, func() { f.Multiply([]byte{0x01}, 2) })
}
