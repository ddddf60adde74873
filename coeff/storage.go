package coeff

import (
	"github.com/steinwurf-go/rlnc/field"
	"github.com/steinwurf-go/rlnc/symbol"
)

// Storage holds K packed coefficient vectors, one per decoder-matrix row,
// backed by a single 16-byte-aligned buffer (spec §3's Coefficient vector,
// §4.3's decoder-matrix rows).
type Storage struct {
	k     uint32
	field field.Field
	rows  []byte
	size  uint32
}

// NewStorage allocates coefficient storage for k rows.
func NewStorage(k uint32, f field.Field) *Storage {
	size := Size(k, f)
	return &Storage{
		k:     k,
		field: f,
		rows:  symbol.AlignedBuffer(int(k) * int(size)),
		size:  size,
	}
}

// Row returns a Vector view of row i's packed coefficients.
func (s *Storage) Row(i uint32) Vector {
	assertIndex(i, s.k)
	start := int(i) * int(s.size)
	return View(s.rows[start:start+int(s.size)], s.k, s.field)
}

// Reset zeroes every row.
func (s *Storage) Reset() {
	for i := range s.rows {
		s.rows[i] = 0
	}
}
