// Package trail holds the per-frame render buffer of colored points.
package trail

import (
	"image/color"

	"github.com/san-kum/chaoseq/internal/projection"
)

// Point is one render primitive. Position changes every frame; Color is
// fixed when the buffer is built.
type Point struct {
	X, Y  float64
	Color color.RGBA
}

// Buffer is a fixed-capacity, index-addressed sequence of points.
type Buffer struct {
	points []Point
	stride int
}

// New allocates capacity points and colors them with pal. stride is the
// number of iterations per sub-step, which palettes use to color by depth.
func New(capacity, stride int, pal Palette) *Buffer {
	if stride <= 0 {
		stride = capacity
	}
	b := &Buffer{
		points: make([]Point, capacity),
		stride: stride,
	}
	for i := range b.points {
		b.points[i].Color = pal.Color(i, i%stride, stride)
	}
	return b
}

// Write moves slot index to (x, y).
func (b *Buffer) Write(index int, x, y float64) {
	b.points[index].X = x
	b.points[index].Y = y
}

// Len returns the buffer capacity.
func (b *Buffer) Len() int { return len(b.points) }

// Points exposes the whole buffer to a renderer. Callers must not retain it
// across frames.
func (b *Buffer) Points() []Point { return b.points }

// At returns slot index.
func (b *Buffer) At(index int) Point { return b.points[index] }

// EachVisible calls fn for every point strictly inside s.
func (b *Buffer) EachVisible(s projection.Screen, fn func(Point)) {
	for _, p := range b.points {
		if projection.Visible(p.X, p.Y, s) {
			fn(p)
		}
	}
}

// Recolor reassigns every slot color from pal.
func (b *Buffer) Recolor(pal Palette) {
	for i := range b.points {
		b.points[i].Color = pal.Color(i, i%b.stride, b.stride)
	}
}
