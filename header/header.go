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

// Package header implements the coding-header protocol layers of spec §4.5
// and §4.6: systematic/non-systematic framing, the plain/seed/Reed-Solomon
// inner Symbol-ID formats, the aligned-coefficients decoder wrapper, and the
// rank-piggyback layer. Wire integers are big-endian throughout, matching
// spec §6's byte-exact payload layout.
package header

import "encoding/binary"

// Flag values tagging the framing byte (spec §4.5, §6).
const (
	FlagCoded      byte = 0x00
	FlagSystematic byte = 0xFF
)

// SystematicHeaderSize is the flag byte plus the 4-byte big-endian source
// index.
const SystematicHeaderSize = 1 + 4

// RankPrefixSize is the width of the payload-rank piggyback prefix.
const RankPrefixSize = 4

// WriteSystematic appends a systematic-tagged header (flag 0xFF followed by
// the 4-byte big-endian source symbol index) to dst and returns the result.
func WriteSystematic(dst []byte, index uint32) []byte {
	dst = append(dst, FlagSystematic)
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], index)
	return append(dst, buf[:]...)
}

// IsSystematic reports whether header's first byte is the systematic flag.
// header must be at least one byte.
func IsSystematic(header []byte) bool {
	if len(header) == 0 {
		panic("header: empty header")
	}
	return header[0] == FlagSystematic
}

// SystematicIndex extracts the source symbol index from a systematic
// header (spec §4.5). header must be at least SystematicHeaderSize bytes
// and start with FlagSystematic.
func SystematicIndex(header []byte) uint32 {
	if len(header) < SystematicHeaderSize {
		panic("header: systematic header too short")
	}
	if header[0] != FlagSystematic {
		panic("header: not a systematic header")
	}
	return binary.BigEndian.Uint32(header[1:5])
}

// WriteRankPrefix appends the 4-byte big-endian encoder rank to dst.
func WriteRankPrefix(dst []byte, rank uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], rank)
	return append(dst, buf[:]...)
}

// ReadRankPrefix reads the rank piggybacked at the front of src, returning
// it along with the remainder of src past the prefix.
func ReadRankPrefix(src []byte) (rank uint32, rest []byte) {
	if len(src) < RankPrefixSize {
		panic("header: payload too short for rank prefix")
	}
	return binary.BigEndian.Uint32(src[:RankPrefixSize]), src[RankPrefixSize:]
}

// RankSource reports the current rank of whatever is backing a systematic
// policy decision: an encoder's SymbolsAvailable, or a decoder's Rank.
type RankSource interface {
	Rank() uint32
}

// rankFunc adapts a plain func() uint32 (e.g. Encoder.SymbolsAvailable) to
// RankSource.
type rankFunc func() uint32

func (f rankFunc) Rank() uint32 { return f() }

// RankSourceFunc wraps fn as a RankSource.
func RankSourceFunc(fn func() uint32) RankSource { return rankFunc(fn) }

// SystematicPolicy decides, packet by packet, whether an encoder should
// emit a systematic or a coded packet (spec §4.5: "An encoder emits
// systematic packets until its per-session systematic counter equals its
// current rank, then switches to coded unless explicitly disabled").
type SystematicPolicy struct {
	on      bool
	emitted uint32
}

// NewSystematicPolicy creates a policy with systematic mode enabled, the
// spec's default.
func NewSystematicPolicy() *SystematicPolicy {
	return &SystematicPolicy{on: true}
}

// SetOn enables systematic packets (spec §9's runtime toggle).
func (p *SystematicPolicy) SetOn() { p.on = true }

// SetOff disables systematic packets; every subsequent packet is coded.
func (p *SystematicPolicy) SetOff() { p.on = false }

// On reports whether systematic mode is currently enabled.
func (p *SystematicPolicy) On() bool { return p.on }

// ShouldEmitSystematic reports whether the next packet should be
// systematic, given the encoder's current rank.
func (p *SystematicPolicy) ShouldEmitSystematic(rank RankSource) bool {
	return p.on && p.emitted < rank.Rank()
}

// RecordSystematicEmitted advances the per-session systematic counter after
// a systematic packet has actually been sent.
func (p *SystematicPolicy) RecordSystematicEmitted() { p.emitted++ }

// Reset clears the per-session counter (used when a coder is returned to a
// pool and reinitialized).
func (p *SystematicPolicy) Reset() { p.emitted = 0 }
