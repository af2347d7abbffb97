// Package projection maps simulation coordinates onto a pixel grid and
// derives a view that frames a set of trajectory samples.
package projection

import "math"

const (
	// DefaultScale is the zoom used before any auto-fit.
	DefaultScale = 0.25

	fitBound   = 4.0
	fitMargin  = 0.6
	fitMinSpan = 0.1
)

// View holds the zoom and center of the projection in simulation units.
type View struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// DefaultView returns the initial view centered on the origin.
func DefaultView() View {
	return View{Scale: DefaultScale}
}

// Screen is the pixel size of a render target.
type Screen struct {
	W, H float64
}

// Point is a simulation-space sample.
type Point struct {
	X, Y float64
}

// ToScreen projects (x, y). Results may be out of bounds or non-finite.
func ToScreen(x, y float64, v View, s Screen) (float64, float64) {
	k := v.Scale * s.H / 2
	return s.W/2 + (x-v.OffsetX)*k, s.H/2 + (y-v.OffsetY)*k
}

// Visible reports whether (px, py) lies strictly inside the screen. NaN
// coordinates are never visible.
func Visible(px, py float64, s Screen) bool {
	return px > 0 && py > 0 && px < s.W && py < s.H
}

// AutoFit frames the bounding box of pts, with each bound clamped to
// [-4, 4]. Non-finite samples are ignored; if none remain the default view
// is returned.
func AutoFit(pts []Point) View {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	n := 0
	for _, p := range pts {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
		n++
	}
	if n == 0 {
		return DefaultView()
	}

	minX, maxX = clamp(minX), clamp(maxX)
	minY, maxY = clamp(minY), clamp(maxY)

	span := math.Max(maxX-minX, maxY-minY) * fitMargin
	return View{
		Scale:   1 / math.Max(span, fitMinSpan),
		OffsetX: (minX + maxX) / 2,
		OffsetY: (minY + maxY) / 2,
	}
}

func clamp(v float64) float64 {
	return math.Max(-fitBound, math.Min(v, fitBound))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
