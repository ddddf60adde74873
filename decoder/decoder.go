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

// Package decoder implements the linear-block decoder state machine of
// spec §4.3: on-the-fly Gauss-Jordan elimination with pivot tracking, the
// forward, backward, and delayed-backsubstitution variants, the partial-
// decoding tracker, and the largest-nonzero-index tracker.
package decoder

import (
	"github.com/steinwurf-go/rlnc/coeff"
	"github.com/steinwurf-go/rlnc/field"
	"github.com/steinwurf-go/rlnc/symbol"
)

// Variant selects the elimination strategy (spec §4.3).
type Variant int

const (
	// Forward eliminates from the smallest unpivoted column, backward-
	// substituting on every decode call.
	Forward Variant = iota
	// Backward eliminates from the largest unpivoted column.
	Backward
	// Delayed mirrors Forward but skips backward substitution until
	// rank reaches K, then performs it once.
	Delayed
)

// Decoder is a K-row decoder matrix over a single finite field.
type Decoder struct {
	field   field.Field
	k       uint32
	variant Variant

	coeffs  *coeff.Storage
	symbols *symbol.Deep

	pivot   []bool
	coded   []bool
	uncoded []bool

	rank     uint32
	maxPivot uint32 // rightmost pivoted row (Forward/Delayed)
	minPivot uint32 // leftmost pivoted row (Backward)
	hasPivot bool

	largestNonzero uint32 // largest column ever seen nonzero in an input
	sawNonzero     bool

	encoderRank uint32 // rank piggyback observed from the remote encoder

	delayedFinalized bool
}

// New creates a decoder for k symbols of symbolSize bytes over field f.
func New(f field.Field, k, symbolSize uint32, variant Variant) *Decoder {
	return &Decoder{
		field:   f,
		k:       k,
		variant: variant,
		coeffs:  coeff.NewStorage(k, f),
		symbols: symbol.NewDeep(k, symbolSize),
		pivot:   make([]bool, k),
		coded:   make([]bool, k),
		uncoded: make([]bool, k),
	}
}

// Field returns the decoder's finite field.
func (d *Decoder) Field() field.Field { return d.field }

// Symbols returns K.
func (d *Decoder) Symbols() uint32 { return d.k }

// Rank returns the current rank.
func (d *Decoder) Rank() uint32 { return d.rank }

// IsComplete reports whether rank equals K.
func (d *Decoder) IsComplete() bool { return d.rank == d.k }

// Pivot reports whether row i holds a linearly independent equation.
func (d *Decoder) Pivot(i uint32) bool { return d.pivot[i] }

// Coded reports whether row i is a still-coded pivot.
func (d *Decoder) Coded(i uint32) bool { return d.coded[i] }

// Uncoded reports whether row i arrived (or was resolved) via the raw path.
func (d *Decoder) Uncoded(i uint32) bool { return d.uncoded[i] }

// Decoded reports whether source symbol i's value is known for certain.
// A row that arrived raw always qualifies; a still-coded row only qualifies
// once the whole decoder has reached full rank, since backward substitution
// only finishes reducing every row to a unit vector at that point — a
// Coded row below full rank may still carry other unpivoted columns.
func (d *Decoder) Decoded(i uint32) bool { return d.uncoded[i] || d.rank == d.k }

// MaxPivot is the rightmost pivoted row seen so far.
func (d *Decoder) MaxPivot() uint32 { return d.maxPivot }

// LargestNonzeroIndex publishes the largest column index at which any
// received symbol has had a nonzero coefficient (spec §4.3).
func (d *Decoder) LargestNonzeroIndex() uint32 { return d.largestNonzero }

// Symbol returns the decoded or partially-decoded data for row i.
func (d *Decoder) Symbol(i uint32) []byte { return d.symbols.Symbol(i) }

// CoefficientRow returns the packed coefficient vector stored at row i.
func (d *Decoder) CoefficientRow(i uint32) coeff.Vector { return d.coeffs.Row(i) }

// Reset clears all decoder state, keeping the allocated buffers (spec §3
// Lifecycle: "A freshly initialized decoder has rank=0, all annotations
// false, all rows zeroed").
func (d *Decoder) Reset() {
	d.coeffs.Reset()
	d.symbols.Reset()
	for i := range d.pivot {
		d.pivot[i] = false
		d.coded[i] = false
		d.uncoded[i] = false
	}
	d.rank = 0
	d.maxPivot = 0
	d.minPivot = 0
	d.hasPivot = false
	d.largestNonzero = 0
	d.sawNonzero = false
	d.encoderRank = 0
	d.delayedFinalized = false
}

// ObserveEncoderRank updates the rank piggybacked by the payload-rank layer
// (spec §4.6), asserting monotonic nondecrease.
func (d *Decoder) ObserveEncoderRank(rank uint32) {
	if rank < d.encoderRank {
		panic("decoder: encoder rank must never decrease")
	}
	d.encoderRank = rank
}

// EncoderRank returns the last-observed encoder rank.
func (d *Decoder) EncoderRank() uint32 { return d.encoderRank }

// IsPartialComplete reports whether every symbol the remote encoder has
// specified so far has been fully decoded (spec §4.3's partial-decoding
// tracker).
func (d *Decoder) IsPartialComplete() bool {
	return d.encoderRank > 0 && d.rank == d.encoderRank
}

func (d *Decoder) symbolExists(i uint32) bool {
	return d.coded[i] || d.uncoded[i]
}

func (d *Decoder) trackNonzeroColumn(i uint32) {
	if !d.sawNonzero || i > d.largestNonzero {
		d.largestNonzero = i
		d.sawNonzero = true
	}
}

// occupiedBounds returns the inclusive row range that currently holds any
// pivot, in scan order for the active variant. When no pivot exists yet it
// returns an empty range (low > high).
func (d *Decoder) occupiedBounds() (uint32, uint32) {
	if !d.hasPivot {
		return 1, 0
	}
	if d.variant == Backward {
		return d.minPivot, d.k - 1
	}
	return 0, d.maxPivot
}

func (d *Decoder) trackPivot(i uint32) {
	d.pivot[i] = true
	if !d.hasPivot {
		d.maxPivot = i
		d.minPivot = i
		d.hasPivot = true
		return
	}
	if i > d.maxPivot {
		d.maxPivot = i
	}
	if i < d.minPivot {
		d.minPivot = i
	}
}

// eliminate subtracts c*(sourceVec, sourceSym) from (targetVec, targetSym).
// In the binary field c is always 1 and the operation degenerates to XOR.
func (d *Decoder) eliminate(targetVec coeff.Vector, targetSym []byte, c uint32, sourceVec coeff.Vector, sourceSym []byte) {
	if d.field.Kind() == field.Binary {
		d.field.Subtract(targetVec.Bytes(), sourceVec.Bytes())
		d.field.Subtract(targetSym, sourceSym)
		return
	}
	d.field.MultiplySubtract(targetVec.Bytes(), sourceVec.Bytes(), c)
	d.field.MultiplySubtract(targetSym, sourceSym, c)
}

// assertSizes is a defensive boundary check; see spec §7's programming
// error category.
func (d *Decoder) assertSizes(vec coeff.Vector, sym []byte) {
	if vec.Len() != d.k {
		panic("decoder: coefficient vector length mismatch")
	}
	if uint32(len(sym)) != d.symbols.SymbolSize() {
		panic("decoder: symbol length mismatch")
	}
}
