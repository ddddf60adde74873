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

// Package symbol implements the Block/Symbol storage layer of spec §3 and
// §4.9: deep storage (an internally owned buffer), shallow storage (pointers
// into caller-managed memory) and the partial variants used for the last,
// possibly-short block of an object.
package symbol

// Storage holds K symbols of symbolSize bytes each and tracks which of them
// have been specified so far (the encoder-rank bookkeeping of spec §3).
type Storage interface {
	Symbols() uint32
	SymbolSize() uint32

	// Symbol returns the byte slice backing symbol i. Writing through it
	// mutates the stored symbol.
	Symbol(i uint32) []byte

	// SetSymbol installs data as symbol i and marks it specified.
	SetSymbol(i uint32, data []byte)

	// Specified reports whether symbol i has been set.
	Specified(i uint32) bool

	// Rank is the count of specified symbols.
	Rank() uint32

	// Reset clears all symbols and specified-state, keeping the allocated
	// backing buffer (the factory "initialize" contract of spec §3).
	Reset()
}

// Deep is symbol storage backed by one internally-owned contiguous buffer,
// used by decoders (which must retain their own copy of every accepted
// symbol) and by encoders over caller-supplied immutable source data that
// is copied in once.
type Deep struct {
	symbols    uint32
	symbolSize uint32
	data       []byte
	specified  []bool
	rank       uint32
}

// NewDeep allocates a Deep store sized for symbols symbols of symbolSize
// bytes each.
func NewDeep(symbols, symbolSize uint32) *Deep {
	return &Deep{
		symbols:    symbols,
		symbolSize: symbolSize,
		data:       AlignedBuffer(int(symbols) * int(symbolSize)),
		specified:  make([]bool, symbols),
	}
}

func (d *Deep) Symbols() uint32    { return d.symbols }
func (d *Deep) SymbolSize() uint32 { return d.symbolSize }

func (d *Deep) Symbol(i uint32) []byte {
	assertIndex(i, d.symbols)
	start := int(i) * int(d.symbolSize)
	return d.data[start : start+int(d.symbolSize)]
}

func (d *Deep) SetSymbol(i uint32, data []byte) {
	assertIndex(i, d.symbols)
	if uint32(len(data)) != d.symbolSize {
		panic("symbol: data length does not match symbol size")
	}
	copy(d.Symbol(i), data)
	if !d.specified[i] {
		d.specified[i] = true
		d.rank++
	}
}

func (d *Deep) Specified(i uint32) bool {
	assertIndex(i, d.symbols)
	return d.specified[i]
}

func (d *Deep) Rank() uint32 { return d.rank }

func (d *Deep) Reset() {
	for i := range d.data {
		d.data[i] = 0
	}
	for i := range d.specified {
		d.specified[i] = false
	}
	d.rank = 0
}

// SetBlock installs an entire contiguous block (symbols*symbolSize bytes,
// zero-padded if short, per the last-block handling of spec §7) in one
// pass, marking every symbol specified.
func (d *Deep) SetBlock(block []byte) {
	if len(block) > len(d.data) {
		panic("symbol: block larger than storage")
	}
	copy(d.data, block)
	for i := len(block); i < len(d.data); i++ {
		d.data[i] = 0
	}
	for i := range d.specified {
		d.specified[i] = true
	}
	d.rank = d.symbols
}

// Shallow is symbol storage that holds slices into externally managed
// memory rather than copying. set_symbols here captures pointers, matching
// spec §5's "Symbol storage may be deep ... or shallow" distinction.
type Shallow struct {
	symbols    uint32
	symbolSize uint32
	slices     [][]byte
	specified  []bool
	rank       uint32
}

// NewShallow creates shallow storage for the given dimensions; slices must
// be installed with SetSymbol before Symbol is read.
func NewShallow(symbols, symbolSize uint32) *Shallow {
	return &Shallow{
		symbols:    symbols,
		symbolSize: symbolSize,
		slices:     make([][]byte, symbols),
		specified:  make([]bool, symbols),
	}
}

func (s *Shallow) Symbols() uint32    { return s.symbols }
func (s *Shallow) SymbolSize() uint32 { return s.symbolSize }

func (s *Shallow) Symbol(i uint32) []byte {
	assertIndex(i, s.symbols)
	if s.slices[i] == nil {
		panic("symbol: shallow symbol not yet set")
	}
	return s.slices[i]
}

func (s *Shallow) SetSymbol(i uint32, data []byte) {
	assertIndex(i, s.symbols)
	if uint32(len(data)) != s.symbolSize {
		panic("symbol: data length does not match symbol size")
	}
	s.slices[i] = data
	if !s.specified[i] {
		s.specified[i] = true
		s.rank++
	}
}

func (s *Shallow) Specified(i uint32) bool {
	assertIndex(i, s.symbols)
	return s.specified[i]
}

func (s *Shallow) Rank() uint32 { return s.rank }

func (s *Shallow) Reset() {
	for i := range s.slices {
		s.slices[i] = nil
		s.specified[i] = false
	}
	s.rank = 0
}

// PartialShallow wraps Shallow for the partial-object case of spec §7 and
// adds an internal zero-filled buffer sized to the block's tail beyond
// bytesUsed. It does not route any symbol through that buffer itself:
// SetSymbol still captures whatever slice the caller passes, and a symbol
// that straddles bytesUsed is not split between caller memory and padding.
type PartialShallow struct {
	*Shallow
	padding []byte
}

// NewPartialShallow creates shallow storage plus an internal zero buffer
// covering the padding region (symbols*symbolSize - bytesUsed bytes).
func NewPartialShallow(symbols, symbolSize, bytesUsed uint32) *PartialShallow {
	total := symbols * symbolSize
	if bytesUsed > total {
		panic("symbol: bytesUsed exceeds block size")
	}
	return &PartialShallow{
		Shallow: NewShallow(symbols, symbolSize),
		padding: make([]byte, total-bytesUsed),
	}
}

// PaddingBuffer returns the zero-filled buffer covering the bytes beyond
// bytesUsed.
func (p *PartialShallow) PaddingBuffer() []byte { return p.padding }

func assertIndex(i, symbols uint32) {
	if i >= symbols {
		panic("symbol: index out of range")
	}
}
