package field

// binary8Field implements GF(2^8) with primitive polynomial 0x11D
// (x^8+x^4+x^3+x^2+1) and primitive element alpha=2, the convention this
// system fixes (spec §3, Generator matrix).
type binary8Field struct {
	log   [256]uint16
	antiq [510]byte // double length avoids a modulo in the hot multiply path
}

const binary8Poly = 0x11D

func newBinary8() *binary8Field {
	f := &binary8Field{}
	x := 1
	for i := 0; i < 255; i++ {
		f.antiq[i] = byte(x)
		f.antiq[i+255] = byte(x)
		f.log[x] = uint16(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= binary8Poly
		}
	}
	return f
}

func (*binary8Field) Kind() Kind       { return Binary8 }
func (*binary8Field) Order() uint64    { return 256 }
func (*binary8Field) ElementSize() int { return 1 }

func (*binary8Field) Add(dst, src []byte) {
	assertLen(dst, src, 1)
	for i := range dst {
		dst[i] ^= src[i]
	}
}

func (f *binary8Field) Subtract(dst, src []byte) { f.Add(dst, src) }

func (f *binary8Field) mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return f.antiq[int(f.log[a])+int(f.log[b])]
}

func (f *binary8Field) Multiply(dst []byte, c uint32) {
	cb := byte(c)
	for i := range dst {
		dst[i] = f.mul(dst[i], cb)
	}
}

func (f *binary8Field) MultiplyAdd(dst, src []byte, c uint32) {
	assertLen(dst, src, 1)
	cb := byte(c)
	for i := range dst {
		dst[i] ^= f.mul(src[i], cb)
	}
}

func (f *binary8Field) MultiplySubtract(dst, src []byte, c uint32) {
	f.MultiplyAdd(dst, src, c)
}

func (f *binary8Field) Invert(v uint32) uint32 {
	if v == 0 {
		panic("field: invert of zero element")
	}
	return uint32(f.antiq[255-int(f.log[byte(v)])])
}
