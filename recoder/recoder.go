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

// Package recoder implements the recoder wiring of spec §4.10: a recoder at
// an intermediate node shares storage with its local decoder and emits
// fresh non-systematic coded packets without ever decoding first. Where the
// C++ original wires this through a proxy layer holding a raw pointer back
// to the decoder's codec stack, Recoder instead holds the decoder itself
// and calls decoder.Decoder.Recode directly — the decoder already owns its
// own pivot rows, so there is no separate storage to proxy.
package recoder

import (
	"github.com/steinwurf-go/rlnc/coeff"
	"github.com/steinwurf-go/rlnc/decoder"
	"github.com/steinwurf-go/rlnc/header"
	"github.com/steinwurf-go/rlnc/rng"
)

// Recoder draws fresh random coefficients over a decoder's currently held
// rows and frames the result as a non-systematic packet.
type Recoder struct {
	dec *decoder.Decoder
	rng *rng.MersenneTwister
}

// New wraps dec as a recoder seeded with seed. dec continues to be fed
// incoming symbols independently; the recoder only reads its state.
func New(dec *decoder.Decoder, seed uint32) *Recoder {
	return &Recoder{dec: dec, rng: rng.New(seed)}
}

// Symbols returns K.
func (r *Recoder) Symbols() uint32 { return r.dec.Symbols() }

// Rank returns the underlying decoder's current rank.
func (r *Recoder) Rank() uint32 { return r.dec.Rank() }

// symbolSize reads the configured symbol size off the decoder's own
// storage; every row is pre-allocated to this size regardless of whether it
// has been pivoted yet.
func (r *Recoder) symbolSize() uint32 { return uint32(len(r.dec.Symbol(0))) }

// Recode produces one new coded packet (spec §6's wire layout, non-
// systematic: flag 0x00 followed by the plain coefficient vector) appended
// to dst, and reports whether the packet is nonzero. The recoder always
// emits non-systematic packets — spec §4.10 and §11's supplemented
// recoder-non-systematic-only constraint — since a recoded symbol's value
// is a combination of other symbols and never has a standalone raw-source
// interpretation.
func (r *Recoder) Recode(dst []byte) ([]byte, bool) {
	k := r.dec.Symbols()
	f := r.dec.Field()

	vec := coeff.View(make([]byte, coeff.Size(k, f)), k, f)
	sym := make([]byte, r.symbolSize())
	nonzero := r.dec.Recode(r.rng, vec, sym)

	dst = append(dst, sym...)
	var w header.PlainWriter
	dst = w.WriteCoded(dst, vec)
	return dst, nonzero
}
