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

// Package object implements the RFC 5052 object partitioner of spec §4.8:
// splitting an object larger than one block's worth of symbols into a
// sequence of near-equal blocks, large blocks first.
package object

// Block describes one block of a partitioned object.
type Block struct {
	Symbols    uint32 // symbols(b)
	SymbolSize uint32 // always max_symbol_size
	ByteOffset uint64 // prefix sum of earlier blocks' bytes
	BytesUsed  uint64 // min(object_size-byte_offset, symbols*symbol_size); short on the last block
}

// BlockSize is the full (possibly padded) byte size of the block.
func (b Block) BlockSize() uint64 { return uint64(b.Symbols) * uint64(b.SymbolSize) }

// Partition describes the full split of one object, immutable once built
// (spec §5's "Partition scheme objects are immutable after construction").
type Partition struct {
	objectSize    uint64
	maxSymbols    uint32
	maxSymbolSize uint32
	blocks        []Block
}

// Build partitions an object of objectSize bytes given the encoder's
// maxSymbols and maxSymbolSize factory parameters (spec §4.8).
func Build(objectSize uint64, maxSymbols, maxSymbolSize uint32) *Partition {
	if maxSymbols == 0 {
		panic("object: maxSymbols must be positive")
	}
	if maxSymbolSize == 0 {
		panic("object: maxSymbolSize must be positive")
	}

	totalSymbols := ceilDiv(objectSize, uint64(maxSymbolSize))
	if totalSymbols == 0 {
		totalSymbols = 1 // an empty object still occupies one (empty) symbol's slot
	}
	totalBlocks := ceilDiv(totalSymbols, uint64(maxSymbols))

	largeBlockSymbols := ceilDiv(totalSymbols, totalBlocks)
	smallBlockSymbols := totalSymbols / totalBlocks
	largeBlocks := totalSymbols - smallBlockSymbols*totalBlocks

	blocks := make([]Block, totalBlocks)
	var offset uint64
	for b := uint64(0); b < totalBlocks; b++ {
		symbols := smallBlockSymbols
		if b < largeBlocks {
			symbols = largeBlockSymbols
		}
		blockBytes := symbols * uint64(maxSymbolSize)
		bytesUsed := blockBytes
		if objectSize-offset < blockBytes {
			bytesUsed = objectSize - offset
		}
		blocks[b] = Block{
			Symbols:    uint32(symbols),
			SymbolSize: maxSymbolSize,
			ByteOffset: offset,
			BytesUsed:  bytesUsed,
		}
		offset += blockBytes
	}

	return &Partition{
		objectSize:    objectSize,
		maxSymbols:    maxSymbols,
		maxSymbolSize: maxSymbolSize,
		blocks:        blocks,
	}
}

// Blocks returns the partition's blocks in order.
func (p *Partition) Blocks() []Block { return p.blocks }

// Block returns block b.
func (p *Partition) Block(b uint32) Block {
	if int(b) >= len(p.blocks) {
		panic("object: block index out of range")
	}
	return p.blocks[b]
}

// TotalBlocks is the number of blocks the object was split into.
func (p *Partition) TotalBlocks() uint32 { return uint32(len(p.blocks)) }

// ObjectSize is the total object size the partition was built for.
func (p *Partition) ObjectSize() uint64 { return p.objectSize }

func ceilDiv(a, b uint64) uint64 {
	if b == 0 {
		panic("object: division by zero")
	}
	return (a + b - 1) / b
}
