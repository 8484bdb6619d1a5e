package engine

import (
	"encoding/binary"
	"math"
)

// cells buckets source nodes into a uniform grid with cell width h so every
// neighbour within h of a point lies in the surrounding 3^d cells.
type cells struct {
	dims    int
	h       float64
	x       []float64
	buckets map[string][]int
}

func newCells(x []float64, dims int, h float64) *cells {
	c := &cells{
		dims:    dims,
		h:       h,
		x:       x,
		buckets: make(map[string][]int),
	}

	coord := make([]int, dims)
	key := make([]byte, 4*dims)
	for k := 0; k < len(x)/dims; k++ {
		c.locate(x[k*dims:(k+1)*dims], coord)
		id := c.key(coord, key)
		c.buckets[id] = append(c.buckets[id], k)
	}

	return c
}

func (c *cells) locate(p []float64, coord []int) {
	for t, v := range p {
		coord[t] = int(math.Floor(v / c.h))
	}
}

func (c *cells) key(coord []int, buf []byte) string {
	for t, v := range coord {
		binary.LittleEndian.PutUint32(buf[4*t:], uint32(int32(v)))
	}
	return string(buf)
}

// near calls fn for every source closer than h to y, passing the kernel
// separation.
func (c *cells) near(y []float64, fn func(k int, r float64)) {
	center := make([]int, c.dims)
	coord := make([]int, c.dims)
	offset := make([]int, c.dims)
	key := make([]byte, 4*c.dims)

	c.locate(y, center)
	for t := range offset {
		offset[t] = -1
	}

	for {
		for t := range coord {
			coord[t] = center[t] + offset[t]
		}

		for _, k := range c.buckets[c.key(coord, key)] {
			xk := c.x[k*c.dims : (k+1)*c.dims]
			r := separation(y, xk)
			if math.Abs(r) < c.h {
				fn(k, r)
			}
		}

		t := c.dims - 1
		for ; t >= 0; t-- {
			if offset[t]++; offset[t] <= 1 {
				break
			}
			offset[t] = -1
		}
		if t < 0 {
			return
		}
	}
}
