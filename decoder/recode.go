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
	"github.com/steinwurf-go/rlnc/rng"
)

// Recode draws a fresh random coefficient for every row this decoder
// currently holds (coded or uncoded) and accumulates their weighted sum into
// outVec/outSym, producing a new coded symbol expressed over the original K
// source symbols (spec §4.10). The recoder shares the decoder's own storage
// rather than copying it out first.
//
// Recode reports whether the produced symbol is nonzero. An all-zero result
// is a legitimate, if useless, outcome of an unlucky draw, not an error; the
// caller decides whether to retry.
func (d *Decoder) Recode(rnd *rng.MersenneTwister, outVec coeff.Vector, outSym []byte) bool {
	d.assertSizes(outVec, outSym)
	outVec.Clear()
	for i := range outSym {
		outSym[i] = 0
	}

	order := uint32(d.field.Order())
	nonzero := false
	for i := uint32(0); i < d.k; i++ {
		if !d.symbolExists(i) {
			continue
		}
		c := rnd.UintnBelow(order)
		if c == 0 {
			continue
		}
		nonzero = true
		d.field.MultiplyAdd(outVec.Bytes(), d.CoefficientRow(i).Bytes(), c)
		d.field.MultiplyAdd(outSym, d.Symbol(i), c)
	}
	return nonzero
}
