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

// Package vandermonde builds the (order-1) x K Reed-Solomon generator
// matrix and its systematic row-reduced form (spec §4.7), caching results
// by K.
package vandermonde

import (
	"sync"

	"github.com/steinwurf-go/rlnc/field"
)

// alpha is the field's fixed primitive element (spec §3, Generator matrix).
const alpha = 2

// Matrix is an (order-1) x K matrix stored row-major so the coefficients for
// the j-th emitted symbol occupy one contiguous row (spec §4.7's transpose
// step, folded directly into construction here).
type Matrix struct {
	k      uint32
	field  field.Field
	rows   uint32 // order - 1
	values []uint32
}

// Row returns row j (length K) as a slice of field elements in [0, order).
func (m *Matrix) Row(j uint32) []uint32 {
	if j >= m.rows {
		panic("vandermonde: row index out of range")
	}
	return m.values[j*m.k : (j+1)*m.k]
}

// Rows returns the number of rows, order-1.
func (m *Matrix) Rows() uint32 { return m.rows }

// K returns the number of columns.
func (m *Matrix) K() uint32 { return m.k }

func mulElem(f field.Field, a, b uint32) uint32 {
	size := f.ElementSize()
	buf := make([]byte, size)
	putElem(f, buf, a)
	f.Multiply(buf, b)
	return getElem(f, buf)
}

func putElem(f field.Field, buf []byte, v uint32) {
	switch f.ElementSize() {
	case 1:
		buf[0] = byte(v)
	case 2:
		buf[0] = byte(v >> 8)
		buf[1] = byte(v)
	case 4:
		buf[0] = byte(v >> 24)
		buf[1] = byte(v >> 16)
		buf[2] = byte(v >> 8)
		buf[3] = byte(v)
	default:
		panic("vandermonde: unsupported element size")
	}
}

func getElem(f field.Field, buf []byte) uint32 {
	switch f.ElementSize() {
	case 1:
		return uint32(buf[0])
	case 2:
		return uint32(buf[0])<<8 | uint32(buf[1])
	case 4:
		return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	default:
		panic("vandermonde: unsupported element size")
	}
}

// Build constructs the non-systematic (order-1) x K matrix with
// M[j,i] = alpha^(j*i mod (order-1)).
func Build(k uint32, f field.Field) *Matrix {
	if f.Kind() == field.Binary {
		panic("vandermonde: Reed-Solomon construction requires a non-binary field")
	}
	order := f.Order()
	if uint64(k) >= order {
		panic("vandermonde: K must be less than the field order")
	}

	rows := uint32(order - 1)

	// powers[e] = alpha^e for e in [0, order-1)
	powers := make([]uint32, rows)
	powers[0] = 1
	for e := uint32(1); e < rows; e++ {
		powers[e] = mulElem(f, powers[e-1], alpha)
	}

	m := &Matrix{k: k, field: f, rows: rows, values: make([]uint32, uint64(rows)*uint64(k))}
	for j := uint32(0); j < rows; j++ {
		row := m.Row(j)
		for i := uint32(0); i < k; i++ {
			exp := (uint64(j) * uint64(i)) % uint64(rows)
			row[i] = powers[exp]
		}
	}
	return m
}

// Systematic row-reduces Build's matrix so rows 0..K-1 form the identity
// (spec §4.7's systematic form).
func Systematic(k uint32, f field.Field) *Matrix {
	m := Build(k, f)
	for i := uint32(0); i < k; i++ {
		pivotRow := m.Row(i)
		inv := f.Invert(pivotRow[i])
		for c := uint32(0); c < k; c++ {
			pivotRow[c] = mulElem(f, pivotRow[c], inv)
		}
		for j := uint32(0); j < m.rows; j++ {
			if j == i {
				continue
			}
			row := m.Row(j)
			factor := row[i]
			if factor == 0 {
				continue
			}
			subtractRow(f, row, pivotRow, factor)
		}
	}
	return m
}

func subtractRow(f field.Field, dst, src []uint32, factor uint32) {
	for c := range dst {
		term := mulElem(f, src[c], factor)
		dst[c] = subtractElem(f, dst[c], term)
	}
}

func subtractElem(f field.Field, a, b uint32) uint32 {
	size := f.ElementSize()
	da := make([]byte, size)
	db := make([]byte, size)
	putElem(f, da, a)
	putElem(f, db, b)
	f.Subtract(da, db)
	return getElem(f, da)
}

// Cache shares constructed matrices by K across all coders produced by one
// Reed-Solomon factory (spec §5's "shared resources"). Safe for concurrent
// reads once a given K has been built; construction itself is serialized.
type Cache struct {
	mu         sync.Mutex
	field      field.Field
	plain      map[uint32]*Matrix
	systematic map[uint32]*Matrix
}

// NewCache creates an empty matrix cache for the given field.
func NewCache(f field.Field) *Cache {
	return &Cache{
		field:      f,
		plain:      make(map[uint32]*Matrix),
		systematic: make(map[uint32]*Matrix),
	}
}

// Plain returns (building and caching if necessary) the non-systematic
// matrix for k.
func (c *Cache) Plain(k uint32) *Matrix {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.plain[k]; ok {
		return m
	}
	m := Build(k, c.field)
	c.plain[k] = m
	return m
}

// Systematic returns (building and caching if necessary) the systematic
// matrix for k.
func (c *Cache) Systematic(k uint32) *Matrix {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.systematic[k]; ok {
		return m
	}
	m := Systematic(k, c.field)
	c.systematic[k] = m
	return m
}
