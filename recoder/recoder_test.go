package recoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steinwurf-go/rlnc/coeff"
	"github.com/steinwurf-go/rlnc/decoder"
	"github.com/steinwurf-go/rlnc/field"
	"github.com/steinwurf-go/rlnc/header"
)

func TestRecodeAlwaysEmitsNonSystematicFlag(t *testing.T) {
	f := field.New(field.Binary8)
	const k = 4
	const symbolSize = 3

	d := decoder.New(f, k, symbolSize, decoder.Forward)
	d.DecodeUncoded(0, []byte{1, 2, 3})
	d.DecodeUncoded(1, []byte{4, 5, 6})

	r := New(d, 11)
	packet, _ := r.Recode(nil)

	require.Len(t, packet, symbolSize+1+int(coeff.Size(k, f)))
	assert.Equal(t, header.FlagCoded, packet[symbolSize])
}

func TestRecodeFeedsADownstreamDecoderTowardCompletion(t *testing.T) {
	f := field.New(field.Binary8)
	const k = 3
	const symbolSize = 2
	source := [][]byte{{1, 9}, {2, 8}, {3, 7}}

	upstream := decoder.New(f, k, symbolSize, decoder.Forward)
	for i := uint32(0); i < k; i++ {
		upstream.DecodeUncoded(i, source[i])
	}
	require.True(t, upstream.IsComplete())

	r := New(upstream, 5)
	downstream := decoder.New(f, k, symbolSize, decoder.Forward)

	reader := header.PlainReader{K: k, Field: f}
	for !downstream.IsComplete() {
		packet, nonzero := r.Recode(nil)
		if !nonzero {
			continue
		}
		sym := packet[:symbolSize]
		vec := reader.ReadCoded(packet[symbolSize+1:])
		scratch := coeff.View(make([]byte, coeff.Size(k, f)), k, f)
		copy(scratch.Bytes(), vec.Bytes())
		downstream.DecodeSymbol(scratch, append([]byte(nil), sym...))
	}

	for i := uint32(0); i < k; i++ {
		assert.Equal(t, source[i], downstream.Symbol(i))
	}
}
