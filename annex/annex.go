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

// Package annex implements the random-annex overlap scheme of spec §4.9:
// picking cross-block symbol dependencies so that decoding one block can
// propagate into others, and the decode-propagation walk over that table.
package annex

import (
	"github.com/steinwurf-go/rlnc/object"
	"github.com/steinwurf-go/rlnc/rng"
)

// Entry is one (other_block, symbol_index) pair included in a block's
// annex.
type Entry struct {
	Block  uint32
	Symbol uint32
}

// Table is the random-annex table for an object's partition: per-block
// annex entries plus the reverse-index bit matrix used to forward decoded
// symbols to dependent blocks (spec §3).
type Table struct {
	annex        [][]Entry  // annex[b] = entries assigned to block b
	reverseIndex [][]bool   // reverseIndex[s][d] = true iff block d's annex draws from block s
	blocks       uint32
}

// MaxAnnexSize returns min(totalSymbols-maxSymbols, maxSymbols-1) for a
// partition with the given totalSymbols and maxSymbols, or 0 when
// totalSymbols does not exceed maxSymbols (spec §4.9). Build additionally
// rejects any annex size that is not smaller than the partition's smallest
// block, so when that block holds fewer than maxSymbols symbols the value
// returned here can exceed what Build accepts.
func MaxAnnexSize(totalSymbols uint64, maxSymbols uint32) uint32 {
	if totalSymbols <= uint64(maxSymbols) {
		return 0
	}
	remaining := totalSymbols - uint64(maxSymbols)
	cap1 := uint64(maxSymbols) - 1
	if remaining < cap1 {
		return uint32(remaining)
	}
	return uint32(cap1)
}

// Build draws a random annex of size a for every block of p, seeded by
// seed (so the scheme is reproducible given the same partition and seed).
func Build(p *object.Partition, a uint32, seed uint32) *Table {
	blocks := p.TotalBlocks()
	if blocks < 2 {
		panic("annex: at least two blocks are required for an annex")
	}
	if a >= leastSymbols(p) {
		panic("annex: annex size must be smaller than every block's symbol count")
	}

	gen := rng.New(seed)
	annex := make([][]Entry, blocks)
	reverse := make([][]bool, blocks)
	for i := range reverse {
		reverse[i] = make([]bool, blocks)
	}

	for b := uint32(0); b < blocks; b++ {
		seen := make(map[Entry]bool, a)
		entries := make([]Entry, 0, a)
		for uint32(len(entries)) < a {
			other := uniformExcluding(gen, blocks, b)
			symbol := gen.UintnBelow(p.Block(other).Symbols)
			e := Entry{Block: other, Symbol: symbol}
			if seen[e] {
				continue // redraw on collision
			}
			seen[e] = true
			entries = append(entries, e)
			reverse[other][b] = true
		}
		annex[b] = entries
	}

	return &Table{annex: annex, reverseIndex: reverse, blocks: blocks}
}

func leastSymbols(p *object.Partition) uint32 {
	least := p.Block(0).Symbols
	for _, b := range p.Blocks() {
		if b.Symbols < least {
			least = b.Symbols
		}
	}
	return least
}

func uniformExcluding(gen *rng.MersenneTwister, n, exclude uint32) uint32 {
	v := gen.UintnBelow(n - 1)
	if v >= exclude {
		v++
	}
	return v
}

// Entries returns the annex assigned to block b.
func (t *Table) Entries(b uint32) []Entry { return t.annex[b] }

// DependentBlocks returns the blocks whose annex draws from source block s
// (the reverse index of spec §3, used for forwarding).
func (t *Table) DependentBlocks(s uint32) []uint32 {
	var deps []uint32
	for d := uint32(0); d < t.blocks; d++ {
		if t.reverseIndex[s][d] {
			deps = append(deps, d)
		}
	}
	return deps
}

// SymbolSource reports whether a source symbol's value is finalized and
// exposes its bytes once it is, plus each block's own symbol count (needed
// to place annex rows after a block's own K source rows). A backing
// decoder.Decoder should implement this with Decoded, not Uncoded: a
// still-coded row is only guaranteed to hold its true value once the whole
// decoder reaches full rank, not as soon as it is pivoted.
type SymbolSource interface {
	Uncoded(block, symbol uint32) bool
	Symbol(block, symbol uint32) []byte
	BlockSymbols(block uint32) uint32
}

// SymbolSink receives a decoded symbol pushed in from another block.
type SymbolSink interface {
	DecodeUncoded(block, symbol uint32, data []byte)
}

// Propagate implements spec §4.9's decoding-propagation step for a block b
// that has just completed: it copies every annex entry's source symbol (if
// already decoded) into b's own decoder, and forwards b's own decoded
// symbols out to every block whose annex depends on b. Propagation is
// idempotent because DecodeUncoded is.
//
// An importing block's decoder is sized K+A, with row K+i reserved for the
// i-th entry of that block's own annex list (in the order Build produced
// it).
func (t *Table) Propagate(b uint32, blocks SymbolSource, sink SymbolSink) {
	bK := blocks.BlockSymbols(b)
	for i, e := range t.Entries(b) {
		if !blocks.Uncoded(e.Block, e.Symbol) {
			continue
		}
		sink.DecodeUncoded(b, bK+uint32(i), blocks.Symbol(e.Block, e.Symbol))
	}

	for _, d := range t.DependentBlocks(b) {
		dK := blocks.BlockSymbols(d)
		for i, e := range t.Entries(d) {
			if e.Block != b {
				continue
			}
			if !blocks.Uncoded(b, e.Symbol) {
				continue
			}
			sink.DecodeUncoded(d, dK+uint32(i), blocks.Symbol(b, e.Symbol))
		}
	}
}
