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

// Package encoder implements the linear-block encoder core codec of spec
// §4.4: copying a raw source symbol out unmodified, and combining source
// symbols under a supplied coefficient vector. It also carries the
// on-the-fly extension of §11: an encoder may have fewer than K source
// symbols specified and still emit a useful coded combination restricted to
// the symbols it has.
package encoder

import (
	"github.com/steinwurf-go/rlnc/coeff"
	"github.com/steinwurf-go/rlnc/field"
	"github.com/steinwurf-go/rlnc/symbol"
)

// Encoder combines K source symbols over a field under caller-supplied
// coefficient vectors.
type Encoder struct {
	field   field.Field
	k       uint32
	storage symbol.Storage
}

// New allocates a deep-storage encoder for k source symbols of symbolSize
// bytes each.
func New(f field.Field, k, symbolSize uint32) *Encoder {
	return &Encoder{field: f, k: k, storage: symbol.NewDeep(k, symbolSize)}
}

// NewWithStorage wraps caller-provided symbol storage (deep or shallow).
func NewWithStorage(f field.Field, storage symbol.Storage) *Encoder {
	return &Encoder{field: f, k: storage.Symbols(), storage: storage}
}

// Field returns the encoder's finite field.
func (e *Encoder) Field() field.Field { return e.field }

// Symbols returns K.
func (e *Encoder) Symbols() uint32 { return e.k }

// SymbolSize returns the per-symbol byte length.
func (e *Encoder) SymbolSize() uint32 { return e.storage.SymbolSize() }

// SetSymbol installs source symbol i, making it available to combinations.
func (e *Encoder) SetSymbol(i uint32, data []byte) { e.storage.SetSymbol(i, data) }

// SetBlock installs an entire source block at once, when storage supports
// it (spec §7's partial-object zero-padding on the last, possibly short,
// block).
func (e *Encoder) SetBlock(block []byte) {
	deep, ok := e.storage.(*symbol.Deep)
	if !ok {
		panic("encoder: SetBlock requires deep storage")
	}
	deep.SetBlock(block)
}

// SymbolsAvailable is the encoder rank: the number of source symbols
// currently specified (spec §3's Encoder rank).
func (e *Encoder) SymbolsAvailable() uint32 { return e.storage.Rank() }

// Specified reports whether source symbol i has been set, satisfying
// generator.Availability for the storage-aware generator wrapper.
func (e *Encoder) Specified(i uint32) bool { return e.storage.Specified(i) }

// Symbol returns the stored bytes of source symbol i.
func (e *Encoder) Symbol(i uint32) []byte { return e.storage.Symbol(i) }

// EncodeRaw copies source symbol i into dst unmodified (spec §4.4's
// "uncoded" path; the header layer tags the outgoing packet accordingly).
func (e *Encoder) EncodeRaw(i uint32, dst []byte) {
	if !e.storage.Specified(i) {
		panic("encoder: source symbol not specified")
	}
	copy(dst, e.storage.Symbol(i))
}

// Encode writes into dst the linear combination of available source symbols
// weighted by coefficients. dst is zeroed first. Only indices for which
// Specified holds are combined; unspecified columns contribute nothing
// regardless of their coefficient, enabling coded emissions before the
// whole block has arrived (spec §4.2's storage-aware generator already
// confines nonzero coefficients to available columns — this loop is a
// second, cheap line of defense).
func (e *Encoder) Encode(dst []byte, coefficients coeff.Vector) {
	if uint32(len(dst)) != e.storage.SymbolSize() {
		panic("encoder: destination length mismatch")
	}
	if coefficients.Len() != e.k {
		panic("encoder: coefficient vector length mismatch")
	}
	for i := range dst {
		dst[i] = 0
	}
	for i := uint32(0); i < e.k; i++ {
		if !e.storage.Specified(i) {
			continue
		}
		c := coefficients.Get(i)
		if c == 0 {
			continue
		}
		if e.field.Kind() == field.Binary {
			e.field.Add(dst, e.storage.Symbol(i))
			continue
		}
		e.field.MultiplyAdd(dst, e.storage.Symbol(i), c)
	}
}

// Reset clears all source symbols, keeping allocated buffers.
func (e *Encoder) Reset() { e.storage.Reset() }
