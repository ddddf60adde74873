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

// Package rlnc ties the coding stack together into pool-backed encoder and
// decoder factories (spec §3's Lifecycle and §5's resource model) and
// re-exports the finite-field tag enumeration of spec §6.
package rlnc

import (
	"sync"

	"github.com/steinwurf-go/rlnc/decoder"
	"github.com/steinwurf-go/rlnc/encoder"
	"github.com/steinwurf-go/rlnc/field"
	"github.com/steinwurf-go/rlnc/vandermonde"
)

// Field is the finite-field tag enumeration of spec §6.
type Field = field.Kind

// Field constants, re-exported for callers who don't need the field
// package directly.
const (
	Binary    = field.Binary
	Binary8   = field.Binary8
	Binary16  = field.Binary16
	Prime2325 = field.Prime2325
)

// EncoderFactory owns the parameters (max_symbols, max_symbol_size) shared
// by every encoder it produces, and recycles instances through a sync.Pool
// (the idiomatic analogue of the teacher's shared-ownership smart-pointer
// note; see DESIGN.md). Every encoder returned by Build is configured at
// the factory's maxima — reducing K or symbol_size per-instance below the
// factory maxima, as spec §5 allows, is not yet supported; see DESIGN.md.
type EncoderFactory struct {
	field         field.Field
	maxSymbols    uint32
	maxSymbolSize uint32
	pool          sync.Pool
}

// NewEncoderFactory creates a factory for the given field and maxima.
func NewEncoderFactory(f Field, maxSymbols, maxSymbolSize uint32) *EncoderFactory {
	fld := field.New(f)
	factory := &EncoderFactory{field: fld, maxSymbols: maxSymbols, maxSymbolSize: maxSymbolSize}
	factory.pool.New = func() any {
		return encoder.New(fld, maxSymbols, maxSymbolSize)
	}
	return factory
}

// Build returns an encoder from the pool, reset to its just-constructed
// state.
func (f *EncoderFactory) Build() *PooledEncoder {
	e := f.pool.Get().(*encoder.Encoder)
	e.Reset()
	return &PooledEncoder{Encoder: e, factory: f}
}

// PooledEncoder is an encoder.Encoder checked out from an EncoderFactory.
// Callers MUST call Release when done so the instance can be recycled.
type PooledEncoder struct {
	*encoder.Encoder
	factory  *EncoderFactory
	released bool
}

// Release returns the encoder to its factory's pool. Safe to call more than
// once; subsequent calls are no-ops.
func (p *PooledEncoder) Release() {
	if p.released {
		return
	}
	p.released = true
	p.factory.pool.Put(p.Encoder)
}

// DecoderFactory is EncoderFactory's counterpart for decoders, additionally
// fixing the elimination variant (spec §4.3).
type DecoderFactory struct {
	field         field.Field
	maxSymbols    uint32
	maxSymbolSize uint32
	variant       decoder.Variant
	pool          sync.Pool
}

// NewDecoderFactory creates a factory for the given field, maxima, and
// elimination variant.
func NewDecoderFactory(f Field, maxSymbols, maxSymbolSize uint32, variant decoder.Variant) *DecoderFactory {
	fld := field.New(f)
	factory := &DecoderFactory{field: fld, maxSymbols: maxSymbols, maxSymbolSize: maxSymbolSize, variant: variant}
	factory.pool.New = func() any {
		return decoder.New(fld, maxSymbols, maxSymbolSize, variant)
	}
	return factory
}

// Build returns a decoder from the pool, reset to rank 0.
func (f *DecoderFactory) Build() *PooledDecoder {
	d := f.pool.Get().(*decoder.Decoder)
	d.Reset()
	return &PooledDecoder{Decoder: d, factory: f}
}

// PooledDecoder is a decoder.Decoder checked out from a DecoderFactory.
// Callers MUST call Release when done so the instance can be recycled.
type PooledDecoder struct {
	*decoder.Decoder
	factory  *DecoderFactory
	released bool
}

// Release returns the decoder to its factory's pool.
func (p *PooledDecoder) Release() {
	if p.released {
		return
	}
	p.released = true
	p.factory.pool.Put(p.Decoder)
}

// ReedSolomonFactory shares one Vandermonde matrix cache across every
// Systematic and Plain call made on it (spec §4.7, §5's "generator-
// matrix cache ... shared by all coders produced by that factory").
type ReedSolomonFactory struct {
	field field.Field
	cache *vandermonde.Cache
}

// NewReedSolomonFactory creates a shared matrix cache for f.
func NewReedSolomonFactory(f Field) *ReedSolomonFactory {
	fld := field.New(f)
	return &ReedSolomonFactory{field: fld, cache: vandermonde.NewCache(fld)}
}

// Systematic returns (building and caching if necessary) the systematic
// generator matrix for k.
func (r *ReedSolomonFactory) Systematic(k uint32) *vandermonde.Matrix {
	return r.cache.Systematic(k)
}

// Plain returns (building and caching if necessary) the non-systematic
// generator matrix for k.
func (r *ReedSolomonFactory) Plain(k uint32) *vandermonde.Matrix {
	return r.cache.Plain(k)
}

// Field returns the factory's finite field.
func (r *ReedSolomonFactory) Field() field.Field { return r.field }
