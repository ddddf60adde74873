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

package header

import (
	"github.com/steinwurf-go/rlnc/coeff"
	"github.com/steinwurf-go/rlnc/field"
	"github.com/steinwurf-go/rlnc/generator"
	"github.com/steinwurf-go/rlnc/symbol"
	"github.com/steinwurf-go/rlnc/vandermonde"
)

// PlainWriter frames the coefficient vector itself as the inner Symbol-ID
// (spec §4.5).
type PlainWriter struct{}

// WriteCoded appends the coded flag and the packed coefficient bytes to dst.
func (PlainWriter) WriteCoded(dst []byte, vec coeff.Vector) []byte {
	dst = append(dst, FlagCoded)
	return append(dst, vec.Bytes()...)
}

// PlainReader parses a plain inner Symbol-ID by viewing straight into the
// header bytes, without copying (spec §4.5: "Reader exposes a pointer into
// the header as the coefficients buffer").
type PlainReader struct {
	K     uint32
	Field field.Field
}

// ReadCoded returns a Vector viewing tail directly.
func (r PlainReader) ReadCoded(tail []byte) coeff.Vector {
	size := coeff.Size(r.K, r.Field)
	if uint32(len(tail)) < size {
		panic("header: plain inner id too short")
	}
	return coeff.View(tail[:size], r.K, r.Field)
}

// SeedWriter frames a 4-byte seed in place of the full coefficient vector
// (spec §4.5), using the current encoder-produced-symbol count as the seed.
// The caller-visible coefficient vector is generated as a side effect of
// writing, since the writer is the only party that knows the seed before
// the packet is emitted.
type SeedWriter struct {
	gen   *generator.Seeded
	count uint32
}

// NewSeedWriter wraps a re-seedable generator as a seed-framing writer.
func NewSeedWriter(gen *generator.Seeded) *SeedWriter {
	return &SeedWriter{gen: gen}
}

// WriteCoded generates into out using the next seed, appends the coded flag
// and the 4-byte big-endian seed to dst, and returns the header bytes.
func (w *SeedWriter) WriteCoded(dst []byte, out coeff.Vector) []byte {
	seed := w.count
	w.gen.GenerateWithSeed(seed, out)
	dst = append(dst, FlagCoded)
	dst = appendBigEndian(dst, seed, 4)
	w.count++
	return dst
}

// SeedReader regenerates the coefficient vector from a transmitted seed.
type SeedReader struct {
	gen *generator.Seeded
}

// NewSeedReader wraps a re-seedable generator as a seed-framing reader.
func NewSeedReader(gen *generator.Seeded) *SeedReader {
	return &SeedReader{gen: gen}
}

// ReadCoded reads the 4-byte seed from tail and regenerates into out.
func (r *SeedReader) ReadCoded(tail []byte, out coeff.Vector) coeff.Vector {
	seed := readBigEndian(tail, 4)
	r.gen.GenerateWithSeed(seed, out)
	return out
}

// ReedSolomonWriter frames a row index into the cached generator matrix in
// place of the coefficient vector (spec §4.5). Encoding is therefore not
// rateless: the writer rejects once every row of the matrix has been sent
// (the matrix holds exactly order-1 rows, so the historical "< order-1"
// row-index cap noted as an open question in spec §9 coincides exactly with
// this writer's natural bound and excludes nothing).
type ReedSolomonWriter struct {
	matrix *vandermonde.Matrix
	field  field.Field
	count  uint32
}

// NewReedSolomonWriter wraps matrix as a row-index writer over f.
func NewReedSolomonWriter(matrix *vandermonde.Matrix, f field.Field) *ReedSolomonWriter {
	return &ReedSolomonWriter{matrix: matrix, field: f}
}

// WriteCoded copies the next row of the matrix into out, appends the coded
// flag and the row index (f.ElementSize() bytes, big-endian) to dst.
func (w *ReedSolomonWriter) WriteCoded(dst []byte, out coeff.Vector) []byte {
	if w.count >= w.matrix.Rows() {
		panic("header: reed-solomon writer has exhausted the generator matrix")
	}
	row := w.matrix.Row(w.count)
	for i, v := range row {
		out.Set(uint32(i), v)
	}
	dst = append(dst, FlagCoded)
	dst = appendBigEndian(dst, w.count, w.field.ElementSize())
	w.count++
	return dst
}

// ReedSolomonReader parses a row index from the header and copies the
// corresponding cached matrix row into out.
type ReedSolomonReader struct {
	matrix *vandermonde.Matrix
	field  field.Field
}

// NewReedSolomonReader wraps matrix as a row-index reader over f.
func NewReedSolomonReader(matrix *vandermonde.Matrix, f field.Field) *ReedSolomonReader {
	return &ReedSolomonReader{matrix: matrix, field: f}
}

// ReadCoded reads the row index from tail and copies that row into out.
func (r *ReedSolomonReader) ReadCoded(tail []byte, out coeff.Vector) coeff.Vector {
	rowIndex := readBigEndian(tail, r.field.ElementSize())
	row := r.matrix.Row(rowIndex)
	for i, v := range row {
		out.Set(uint32(i), v)
	}
	return out
}

// EnsureAligned wraps any codec step that needs a 16-byte-aligned
// coefficient buffer (spec §4.5's aligned-coefficients decoder layer). If
// vec's backing buffer is already aligned it is returned unchanged;
// otherwise its contents are copied into a freshly allocated aligned
// buffer.
func EnsureAligned(vec coeff.Vector) coeff.Vector {
	if symbol.IsAligned(vec.Bytes()) {
		return vec
	}
	buf := symbol.AlignedBuffer(len(vec.Bytes()))
	copy(buf, vec.Bytes())
	return coeff.View(buf, vec.Len(), vec.Field())
}

func appendBigEndian(dst []byte, v uint32, width int) []byte {
	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		return append(dst, byte(v>>8), byte(v))
	case 4:
		return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	default:
		panic("header: unsupported row-index width")
	}
}

func readBigEndian(src []byte, width int) uint32 {
	if len(src) < width {
		panic("header: inner id too short")
	}
	switch width {
	case 1:
		return uint32(src[0])
	case 2:
		return uint32(src[0])<<8 | uint32(src[1])
	case 4:
		return uint32(src[0])<<24 | uint32(src[1])<<16 | uint32(src[2])<<8 | uint32(src[3])
	default:
		panic("header: unsupported row-index width")
	}
}
