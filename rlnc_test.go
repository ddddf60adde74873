package rlnc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steinwurf-go/rlnc/coeff"
	"github.com/steinwurf-go/rlnc/decoder"
	"github.com/steinwurf-go/rlnc/encoder"
	"github.com/steinwurf-go/rlnc/field"
	"github.com/steinwurf-go/rlnc/generator"
	"github.com/steinwurf-go/rlnc/header"
)

func TestEncoderFactoryRoundTripsThroughARecycledEncoder(t *testing.T) {
	const k, symbolSize = 4, 8
	factory := NewEncoderFactory(Binary8, k, symbolSize)

	e := factory.Build()
	for i := uint32(0); i < k; i++ {
		e.SetSymbol(i, []byte{byte(i), byte(i + 1), 2, 3, 4, 5, 6, 7})
	}
	e.Release()

	// A second Build may or may not hand back the same backing Encoder
	// (sync.Pool gives no guarantee); either way its state must be Reset.
	e2 := factory.Build()
	assert.Equal(t, uint32(0), e2.SymbolsAvailable())
}

func TestDecoderFactoryProducesWorkingDecoders(t *testing.T) {
	const k, symbolSize = 3, 4
	factory := NewDecoderFactory(Binary8, k, symbolSize, decoder.Forward)

	d := factory.Build()
	d.DecodeUncoded(0, []byte{1, 2, 3, 4})
	d.DecodeUncoded(1, []byte{5, 6, 7, 8})
	d.DecodeUncoded(2, []byte{9, 10, 11, 12})
	require.True(t, d.IsComplete())
	d.Release()

	d2 := factory.Build()
	assert.Equal(t, uint32(0), d2.Rank())
}

func TestReedSolomonFactorySharesOneCacheAcrossCalls(t *testing.T) {
	factory := NewReedSolomonFactory(Binary8)
	m1 := factory.Systematic(6)
	m2 := factory.Systematic(6)
	assert.Same(t, m1, m2)

	f := field.New(Binary8)
	gen := generator.NewSeeded(f)
	vec := coeff.View(make([]byte, coeff.Size(6, f)), 6, f)
	gen.GenerateWithSeed(1, vec)
	assert.Equal(t, uint32(6), vec.Len())
}

// unitVectorGenerator deterministically cycles through e_0, e_1, ... so
// tests can force linearly independent packets without relying on chance.
type unitVectorGenerator struct{ next uint32 }

func (g *unitVectorGenerator) Generate(out coeff.Vector) {
	out.Clear()
	out.Set(g.next, 1)
	g.next++
}

func sourceSymbol(i, symbolSize uint32) []byte {
	sym := make([]byte, symbolSize)
	for j := range sym {
		sym[j] = byte(int(i)*int(symbolSize) + j)
	}
	return sym
}

// TestSystematicEncodingMatchesScenarioS2 drives a Sender/Receiver pair and
// checks spec.md Scenario S2: the first K packets are systematic with
// indices 0..K-1, the decoder reaches rank K after exactly K packets, and
// the packet after that is coded.
func TestSystematicEncodingMatchesScenarioS2(t *testing.T) {
	f := field.New(Binary8)
	const k, symbolSize = 4, 16

	enc := encoder.New(f, k, symbolSize)
	for i := uint32(0); i < k; i++ {
		enc.SetSymbol(i, sourceSymbol(i, symbolSize))
	}

	sender := NewSender(enc, generator.NewUniform(f, 7), false)
	dec := decoder.New(f, k, symbolSize, decoder.Forward)
	receiver := NewPlainReceiver(dec, false)

	for i := uint32(0); i < k; i++ {
		packet := sender.NextPacket(nil)
		require.Equal(t, header.FlagSystematic, packet[symbolSize])
		require.Equal(t, i, header.SystematicIndex(packet[symbolSize:]))
		receiver.Push(packet)
	}
	assert.Equal(t, uint32(k), dec.Rank())

	packet := sender.NextPacket(nil)
	assert.Equal(t, header.FlagCoded, packet[symbolSize])
}

// TestRankPiggybackTracksPartialCompletionLikeScenarioS4 matches spec.md
// Scenario S4: non-systematic packets carrying the payload-rank layer, with
// the decoder's rank and is_partial_complete tracked at an intermediate
// encoder rank and again once the encoder has specified every symbol.
func TestRankPiggybackTracksPartialCompletionLikeScenarioS4(t *testing.T) {
	f := field.New(Binary8)
	const k, symbolSize = 16, 100

	enc := encoder.New(f, k, symbolSize)
	for i := uint32(0); i < 10; i++ {
		enc.SetSymbol(i, sourceSymbol(i, symbolSize))
	}

	sender := NewSender(enc, &unitVectorGenerator{}, true)
	sender.Policy().SetOff() // spec S4 calls for non-systematic packets only

	dec := decoder.New(f, k, symbolSize, decoder.Forward)
	receiver := NewPlainReceiver(dec, true)

	for i := 0; i < 10; i++ {
		receiver.Push(sender.NextPacket(nil))
	}
	assert.Equal(t, uint32(10), dec.Rank())
	assert.Equal(t, uint32(10), dec.EncoderRank())
	assert.True(t, dec.IsPartialComplete())

	for i := uint32(10); i < k; i++ {
		enc.SetSymbol(i, sourceSymbol(i, symbolSize))
	}
	for i := 10; i < k; i++ {
		receiver.Push(sender.NextPacket(nil))
	}
	assert.Equal(t, uint32(k), dec.Rank())
	assert.True(t, dec.IsComplete())
	assert.True(t, dec.IsPartialComplete())

	for i := uint32(0); i < k; i++ {
		assert.Equal(t, enc.Symbol(i), dec.Symbol(i))
	}
}

// TestReedSolomonRowIndexPacketsMatchScenarioS5 matches spec.md Scenario S5:
// a Reed-Solomon decoder fed row indices 0..K-1 of the systematic
// Vandermonde matrix reaches rank K after exactly K packets.
func TestReedSolomonRowIndexPacketsMatchScenarioS5(t *testing.T) {
	f := field.New(Binary8)
	const k, symbolSize = 10, 32

	enc := encoder.New(f, k, symbolSize)
	source := make([][]byte, k)
	for i := uint32(0); i < k; i++ {
		source[i] = sourceSymbol(i, symbolSize)
		enc.SetSymbol(i, source[i])
	}

	matrix := NewReedSolomonFactory(Binary8).Systematic(k)
	sender := NewReedSolomonSender(enc, matrix, false)
	sender.Policy().SetOff()

	dec := decoder.New(f, k, symbolSize, decoder.Forward)
	receiver := NewReedSolomonReceiver(dec, matrix, false)

	for i := 0; i < int(k); i++ {
		receiver.Push(sender.NextPacket(nil))
	}

	assert.Equal(t, uint32(k), dec.Rank())
	for i := uint32(0); i < k; i++ {
		assert.Equal(t, source[i], dec.Symbol(i))
	}
}
