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

// Package generator implements the coefficient-generation subsystem of
// spec §4.2: dense-uniform, seeded, and storage-aware partial generators.
// The recoding generator is decoder.Decoder.Recode, not a type in this
// package.
package generator

import (
	"github.com/steinwurf-go/rlnc/coeff"
	"github.com/steinwurf-go/rlnc/field"
	"github.com/steinwurf-go/rlnc/rng"
)

// Generator fills a coefficient vector.
type Generator interface {
	Generate(out coeff.Vector)
}

// Uniform draws each coefficient independently and uniformly over the
// field using a seedable Mersenne-Twister. Two Uniform generators seeded
// identically produce identical sequences (spec Testable Property 7).
type Uniform struct {
	field field.Field
	rng   *rng.MersenneTwister
}

// NewUniform creates a uniform generator seeded with seed.
func NewUniform(f field.Field, seed uint32) *Uniform {
	return &Uniform{field: f, rng: rng.New(seed)}
}

// Reseed resets the underlying stream, per spec §4.2 "Seeding mid-stream
// resets the stream."
func (u *Uniform) Reseed(seed uint32) { u.rng.Seed(seed) }

// Generate fills out with k independent uniform field elements.
func (u *Uniform) Generate(out coeff.Vector) {
	order := u.field.Order()
	for i := uint32(0); i < out.Len(); i++ {
		out.Set(i, u.rng.UintnBelow(uint32(order)))
	}
}

// Seeded is the generator half of the seeded symbol-id writer (spec §4.2,
// §4.5): the caller re-seeds it with the encoder's produced-symbol count
// before each Generate call, so only the 4-byte seed need travel on the
// wire instead of the full vector.
type Seeded struct {
	uniform *Uniform
}

// NewSeeded wraps a Uniform generator as a re-seedable seeded generator.
func NewSeeded(f field.Field) *Seeded {
	return &Seeded{uniform: NewUniform(f, 0)}
}

// GenerateWithSeed reseeds with seed and fills out.
func (s *Seeded) GenerateWithSeed(seed uint32, out coeff.Vector) {
	s.uniform.Reseed(seed)
	s.uniform.Generate(out)
}

// Availability reports whether source symbol i is currently available to
// combine into an outgoing coded symbol (the encoder-rank bookkeeping of
// spec §3).
type Availability interface {
	Specified(i uint32) bool
}

// StorageAware wraps a base Generator so that, while the encoder has
// specified fewer than K source symbols, the emitted vector's nonzero
// entries are confined to columns the encoder can actually combine (spec
// §4.2). It draws a full vector from the base generator, then zeroes the
// unavailable columns.
type StorageAware struct {
	base  Generator
	avail Availability
}

// NewStorageAware wraps base with an availability predicate.
func NewStorageAware(base Generator, avail Availability) *StorageAware {
	return &StorageAware{base: base, avail: avail}
}

// Generate draws a vector from the base generator and zeroes every column
// whose source symbol has not yet been specified.
func (s *StorageAware) Generate(out coeff.Vector) {
	s.base.Generate(out)
	for i := uint32(0); i < out.Len(); i++ {
		if !s.avail.Specified(i) {
			out.Set(i, 0)
		}
	}
}
