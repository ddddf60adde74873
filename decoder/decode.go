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

package decoder

import (
	"github.com/steinwurf-go/rlnc/coeff"
	"github.com/steinwurf-go/rlnc/field"
)

// DecodeSymbol feeds one coded symbol into the decoder matrix, per the
// five-step procedure of spec §4.3. Both vec and sym are mutated as scratch
// space; the caller should not reuse them afterward.
func (d *Decoder) DecodeSymbol(vec coeff.Vector, sym []byte) {
	d.assertSizes(vec, sym)
	for i := d.k; i > 0; i-- {
		if vec.Get(i-1) != 0 {
			d.trackNonzeroColumn(i - 1)
			break
		}
	}
	d.decodeWithVector(vec, sym)
	d.maybeFinalizeDelayed()
}

// DecodeUncoded feeds the raw (uncoded) value of source symbol i into the
// decoder matrix.
func (d *Decoder) DecodeUncoded(i uint32, data []byte) {
	if i >= d.k {
		panic("decoder: symbol index out of range")
	}
	if uint32(len(data)) != d.symbols.SymbolSize() {
		panic("decoder: symbol length mismatch")
	}

	switch {
	case d.uncoded[i]:
		// Idempotent: the symbol is already fully known.
	case d.coded[i]:
		d.swapDecode(i, data)
	default:
		copy(d.Symbol(i), data)
		row := d.CoefficientRow(i)
		row.Clear()
		row.Set(i, 1)
		d.backwardEliminateColumn(i, data)
		d.rank++
		d.uncoded[i] = true
		d.trackPivot(i)
	}

	d.maybeFinalizeDelayed()
}

func (d *Decoder) maybeFinalizeDelayed() {
	if d.variant == Delayed && !d.delayedFinalized && d.IsComplete() {
		d.finalizeDelayed()
	}
}

// decodeWithVector runs the forward-substitute / normalize / forward-
// substitute-from-pivot / backward-substitute / store pipeline. If vec is
// found to be a linear combination of already-pivoted rows it vanishes to
// the zero vector and the call is a no-op: no new information arrived.
func (d *Decoder) decodeWithVector(vec coeff.Vector, sym []byte) {
	pivot, found := d.forwardSubstituteToPivot(vec, sym)
	if !found {
		return
	}

	if d.field.Kind() != field.Binary {
		inv := d.field.Invert(vec.Get(pivot))
		d.field.Multiply(vec.Bytes(), inv)
		d.field.Multiply(sym, inv)
	}

	d.forwardSubstituteFromPivot(pivot, vec, sym)
	d.backwardSubstitute(pivot, vec, sym)
	d.storeCodedSymbol(pivot, vec, sym)

	d.rank++
	d.coded[pivot] = true
	d.trackPivot(pivot)
}

// forwardSubstituteToPivot eliminates vec against every already-pivoted row
// it overlaps, scanning in the variant's direction, until it either finds a
// column with no existing pivot (the new pivot) or runs out of nonzero
// columns (vec was linearly dependent).
func (d *Decoder) forwardSubstituteToPivot(vec coeff.Vector, sym []byte) (uint32, bool) {
	if d.variant == Backward {
		for i := int64(d.k) - 1; i >= 0; i-- {
			if idx, ok := d.substituteStep(uint32(i), vec, sym); ok {
				return idx, true
			}
		}
		return 0, false
	}
	for i := uint32(0); i < d.k; i++ {
		if idx, ok := d.substituteStep(i, vec, sym); ok {
			return idx, true
		}
	}
	return 0, false
}

// substituteStep inspects column i of vec: if zero it is skipped, if a row
// is already pivoted there vec is eliminated against it, otherwise i is a
// fresh pivot candidate.
func (d *Decoder) substituteStep(i uint32, vec coeff.Vector, sym []byte) (uint32, bool) {
	c := vec.Get(i)
	if c == 0 {
		return 0, false
	}
	d.trackNonzeroColumn(i)
	if d.symbolExists(i) {
		d.eliminate(vec, sym, c, d.CoefficientRow(i), d.Symbol(i))
		return 0, false
	}
	return i, true
}

// forwardSubstituteFromPivot eliminates vec's entries at columns beyond the
// pivot (in scan direction) against rows already pivoted there.
func (d *Decoder) forwardSubstituteFromPivot(pivot uint32, vec coeff.Vector, sym []byte) {
	if !d.hasPivot {
		return
	}
	if d.variant == Backward {
		for j := int64(pivot) - 1; j >= int64(d.minPivot); j-- {
			idx := uint32(j)
			if !d.symbolExists(idx) {
				continue
			}
			value := vec.Get(idx)
			if value == 0 {
				continue
			}
			d.eliminate(vec, sym, value, d.CoefficientRow(idx), d.Symbol(idx))
		}
		return
	}
	for j := pivot + 1; j <= d.maxPivot; j++ {
		if !d.symbolExists(j) {
			continue
		}
		value := vec.Get(j)
		if value == 0 {
			continue
		}
		d.eliminate(vec, sym, value, d.CoefficientRow(j), d.Symbol(j))
	}
}

// backwardSubstitute eliminates the new pivot column out of every existing
// coded row that still carries a nonzero entry there. The Delayed variant
// defers this entirely to finalizeDelayed.
func (d *Decoder) backwardSubstitute(pivot uint32, vec coeff.Vector, sym []byte) {
	if d.variant == Delayed {
		return
	}
	low, high := d.occupiedBounds()
	for k := low; k <= high; k++ {
		if !d.coded[k] {
			continue
		}
		row := d.CoefficientRow(k)
		value := row.Get(pivot)
		if value == 0 {
			continue
		}
		d.eliminate(row, d.Symbol(k), value, vec, sym)
	}
}

func (d *Decoder) storeCodedSymbol(pivot uint32, vec coeff.Vector, sym []byte) {
	copy(d.CoefficientRow(pivot).Bytes(), vec.Bytes())
	copy(d.Symbol(pivot), sym)
}

// backwardEliminateColumn removes column col from every existing coded row by
// subtracting the appropriate multiple of the now-known raw symbol data,
// used when source symbol col arrives raw and column col has no pivot yet.
func (d *Decoder) backwardEliminateColumn(col uint32, data []byte) {
	for k := uint32(0); k < d.k; k++ {
		if !d.coded[k] {
			continue
		}
		row := d.CoefficientRow(k)
		value := row.Get(col)
		if value == 0 {
			continue
		}
		row.Set(col, 0)
		if d.field.Kind() == field.Binary {
			d.field.Subtract(d.Symbol(k), data)
		} else {
			d.field.MultiplySubtract(d.Symbol(k), data, value)
		}
	}
}

// swapDecode handles the case where source symbol i arrives raw while row i
// is still a coded pivot. The stored row's column-i term is resolved against
// the incoming data, clearing it; what remains of the row is re-run through
// the elimination pipeline to (possibly) find a new pivot elsewhere, after
// which row i itself becomes the unit vector holding the raw symbol.
func (d *Decoder) swapDecode(i uint32, data []byte) {
	vec := d.CoefficientRow(i)
	sym := d.Symbol(i)

	value := vec.Get(i)
	vec.Set(i, 0)
	if d.field.Kind() == field.Binary {
		d.field.Subtract(sym, data)
	} else {
		d.field.MultiplySubtract(sym, data, value)
	}
	d.coded[i] = false

	d.decodeWithVector(vec, sym)

	vec.Clear()
	copy(sym, data)
	vec.Set(i, 1)
	d.uncoded[i] = true
}

// finalizeDelayed performs, in a single pass, the backward substitution the
// Delayed variant skipped on every DecodeSymbol call, reducing the matrix to
// row-echelon form now that rank has reached K.
func (d *Decoder) finalizeDelayed() {
	for i := int64(d.k) - 1; i >= 0; i-- {
		idx := uint32(i)
		if !d.coded[idx] {
			continue
		}
		pivotVec := d.CoefficientRow(idx)
		pivotSym := d.Symbol(idx)
		for k := uint32(0); k < d.k; k++ {
			if k == idx || !d.coded[k] {
				continue
			}
			row := d.CoefficientRow(k)
			value := row.Get(idx)
			if value == 0 {
				continue
			}
			d.eliminate(row, d.Symbol(k), value, pivotVec, pivotSym)
		}
	}
	d.delayedFinalized = true
}
