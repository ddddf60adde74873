// Copyright 2024 The RLNC Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rlnc

import (
	"github.com/steinwurf-go/rlnc/coeff"
	"github.com/steinwurf-go/rlnc/decoder"
	"github.com/steinwurf-go/rlnc/encoder"
	"github.com/steinwurf-go/rlnc/generator"
	"github.com/steinwurf-go/rlnc/header"
	"github.com/steinwurf-go/rlnc/vandermonde"
)

// codedWriter is satisfied by header.PlainWriter, header.SeedWriter, and
// header.ReedSolomonWriter: it appends the coded flag and inner Symbol-ID
// to dst. SeedWriter and ReedSolomonWriter also fill vec as a side effect;
// PlainWriter expects vec already filled.
type codedWriter interface {
	WriteCoded(dst []byte, vec coeff.Vector) []byte
}

// codedReader is satisfied by header.SeedReader and header.ReedSolomonReader,
// whose ReadCoded fills and returns a caller-supplied vector.
type codedReader interface {
	ReadCoded(tail []byte, out coeff.Vector) coeff.Vector
}

// Sender drives an encoder through the systematic-then-coded packet policy
// of spec §4.5/§9 and frames every packet with a header, optionally
// piggybacking the encoder's rank (spec §4.6). It is the composing type
// that turns the header, encoder, and generator packages into something
// that actually emits wire packets, rather than leaving that wiring to
// every caller.
type Sender struct {
	enc        *encoder.Encoder
	policy     *header.SystematicPolicy
	gen        generator.Generator // nil when writer self-generates (Seed, Reed-Solomon)
	writer     codedWriter
	vec        coeff.Vector
	rankPrefix bool
	nextIndex  uint32
}

func newSender(enc *encoder.Encoder, gen generator.Generator, writer codedWriter, rankPrefix bool) *Sender {
	return &Sender{
		enc:        enc,
		policy:     header.NewSystematicPolicy(),
		gen:        gen,
		writer:     writer,
		vec:        coeff.View(make([]byte, coeff.Size(enc.Symbols(), enc.Field())), enc.Symbols(), enc.Field()),
		rankPrefix: rankPrefix,
	}
}

// NewSender builds a Sender that frames coded packets with the full
// coefficient vector (spec §4.5's plain inner Symbol-ID), drawn from gen.
func NewSender(enc *encoder.Encoder, gen generator.Generator, rankPrefix bool) *Sender {
	return newSender(enc, gen, header.PlainWriter{}, rankPrefix)
}

// NewSeedSender builds a Sender that frames coded packets as a 4-byte seed
// (spec §4.5's seed inner Symbol-ID); seedGen both draws the coefficients
// and supplies the seed that travels on the wire.
func NewSeedSender(enc *encoder.Encoder, seedGen *generator.Seeded, rankPrefix bool) *Sender {
	return newSender(enc, nil, header.NewSeedWriter(seedGen), rankPrefix)
}

// NewReedSolomonSender builds a Sender that frames coded packets as a row
// index into matrix (spec §4.5, §4.7).
func NewReedSolomonSender(enc *encoder.Encoder, matrix *vandermonde.Matrix, rankPrefix bool) *Sender {
	return newSender(enc, nil, header.NewReedSolomonWriter(matrix, enc.Field()), rankPrefix)
}

// Policy exposes the sender's systematic-emission policy, e.g. to SetOff it
// mid-session (spec §9's runtime toggle).
func (s *Sender) Policy() *header.SystematicPolicy { return s.policy }

// NextPacket appends one packet to dst and returns the result: symbol data,
// then an optional rank prefix, then the flag byte and inner Symbol-ID
// (spec §4.5, §4.6).
func (s *Sender) NextPacket(dst []byte) []byte {
	sym := make([]byte, s.enc.SymbolSize())
	var tail []byte

	rank := header.RankSourceFunc(s.enc.SymbolsAvailable)
	if s.policy.ShouldEmitSystematic(rank) {
		s.enc.EncodeRaw(s.nextIndex, sym)
		tail = header.WriteSystematic(nil, s.nextIndex)
		s.policy.RecordSystematicEmitted()
		s.nextIndex++
	} else {
		if s.gen != nil {
			s.gen.Generate(s.vec)
		}
		tail = s.writer.WriteCoded(nil, s.vec)
		s.enc.Encode(sym, s.vec)
	}

	dst = append(dst, sym...)
	if s.rankPrefix {
		dst = header.WriteRankPrefix(dst, s.enc.SymbolsAvailable())
	}
	return append(dst, tail...)
}

// Receiver dispatches incoming packets by their header — systematic versus
// coded, and which inner Symbol-ID framing a coded packet carries — into a
// decoder. It is Sender's receive-side counterpart.
type Receiver struct {
	dec        *decoder.Decoder
	plain      *header.PlainReader // set only for the plain inner Symbol-ID
	reader     codedReader         // set for every other inner Symbol-ID
	rankPrefix bool
}

// NewPlainReceiver builds a Receiver expecting the plain (full-vector)
// inner Symbol-ID.
func NewPlainReceiver(dec *decoder.Decoder, rankPrefix bool) *Receiver {
	return &Receiver{
		dec:        dec,
		plain:      &header.PlainReader{K: dec.Symbols(), Field: dec.Field()},
		rankPrefix: rankPrefix,
	}
}

// NewSeedReceiver builds a Receiver expecting the seed inner Symbol-ID.
func NewSeedReceiver(dec *decoder.Decoder, seedGen *generator.Seeded, rankPrefix bool) *Receiver {
	return &Receiver{dec: dec, reader: header.NewSeedReader(seedGen), rankPrefix: rankPrefix}
}

// NewReedSolomonReceiver builds a Receiver expecting the Reed-Solomon
// row-index inner Symbol-ID.
func NewReedSolomonReceiver(dec *decoder.Decoder, matrix *vandermonde.Matrix, rankPrefix bool) *Receiver {
	return &Receiver{
		dec:        dec,
		reader:     header.NewReedSolomonReader(matrix, dec.Field()),
		rankPrefix: rankPrefix,
	}
}

// Push feeds one packet produced by a matching Sender into the decoder.
func (r *Receiver) Push(packet []byte) {
	symbolSize := uint32(len(r.dec.Symbol(0)))
	sym := append([]byte(nil), packet[:symbolSize]...)
	tail := packet[symbolSize:]

	if r.rankPrefix {
		rank, rest := header.ReadRankPrefix(tail)
		r.dec.ObserveEncoderRank(rank)
		tail = rest
	}

	if header.IsSystematic(tail) {
		r.dec.DecodeUncoded(header.SystematicIndex(tail), sym)
		return
	}

	innerTail := tail[1:]
	k, f := r.dec.Symbols(), r.dec.Field()
	vec := coeff.View(make([]byte, coeff.Size(k, f)), k, f)
	if r.plain != nil {
		copy(vec.Bytes(), r.plain.ReadCoded(innerTail).Bytes())
	} else {
		r.reader.ReadCoded(innerTail, vec)
	}
	r.dec.DecodeSymbol(vec, sym)
}
