package raster

import (
	"math"
	"sync/atomic"
)

// Visibility is a square grid of cells holding triangle+1 of the winning
// triangle, or 0 where nothing was drawn. Writes go through MaxAt and are
// safe from concurrent invocations.
type Visibility struct {
	size  uint32
	cells []atomic.Uint32
}

// NewVisibility returns a cleared size x size grid.
func NewVisibility(size uint32) *Visibility {
	return &Visibility{
		size:  size,
		cells: make([]atomic.Uint32, int(size)*int(size)),
	}
}

// Size returns the grid edge. Like the shader, it is derived from the buffer
// length.
func (v *Visibility) Size() uint32 {
	return uint32(math.Sqrt(float64(float32(len(v.cells)))))
}

// Len returns the number of cells.
func (v *Visibility) Len() int { return len(v.cells) }

// At returns the cell at x, y.
func (v *Visibility) At(x, y uint32) uint32 {
	return v.cells[y*v.size+x].Load()
}

// MaxAt stores value at index i if it is larger than the current value,
// and returns the value the cell holds afterwards.
func (v *Visibility) MaxAt(i uint32, value uint32) uint32 {
	c := &v.cells[i]
	for {
		old := c.Load()
		if old >= value {
			return old
		}
		if c.CompareAndSwap(old, value) {
			return value
		}
	}
}

// Cells copies the grid out in row-major order.
func (v *Visibility) Cells() []uint32 {
	out := make([]uint32, len(v.cells))
	for i := range v.cells {
		out[i] = v.cells[i].Load()
	}
	return out
}

// Reset clears every cell.
func (v *Visibility) Reset() {
	for i := range v.cells {
		v.cells[i].Store(0)
	}
}
