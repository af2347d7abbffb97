package chaos

import (
	"math"

	"github.com/san-kum/chaoseq/internal/equation"
	"github.com/san-kum/chaoseq/internal/projection"
)

// Writer receives projected points, addressed by step*Iters + iter.
type Writer interface {
	Write(index int, x, y float64)
}

// BatchStats summarizes one AdvanceBatch call.
type BatchStats struct {
	StartT         float64
	EndT           float64
	RollingDelta   float64
	VisibleSteps   int
	OffscreenSteps int
	VisiblePoints  int
}

// Integrator samples trajectories onto a screen of a fixed size.
type Integrator struct {
	screen     projection.Screen
	skipWarmup bool
}

// Option configures an Integrator.
type Option func(*Integrator)

// WithSkipWarmup hides the first iterations of every sub-step, which are
// dominated by the transient from the x = y = t seed.
func WithSkipWarmup(skip bool) Option {
	return func(in *Integrator) { in.skipWarmup = skip }
}

// NewIntegrator returns an integrator projecting onto screen.
func NewIntegrator(screen projection.Screen, opts ...Option) *Integrator {
	in := &Integrator{screen: screen}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Screen returns the projection target.
func (in *Integrator) Screen() projection.Screen { return in.screen }

// SetScreen changes the projection target, e.g. after a terminal resize.
func (in *Integrator) SetScreen(s projection.Screen) { in.screen = s }

// AdvanceBatch runs StepsPerFrame sub-steps of p, writing BufferSize points
// to out and advancing st.T. The caller damps st.RollingDelta beforehand.
func (in *Integrator) AdvanceBatch(p equation.Params, st *State, h *History, out Writer) BatchStats {
	stats := BatchStats{StartT: st.T}

	for step := 0; step < StepsPerFrame; step++ {
		visible := false
		x, y := st.T, st.T

		for iter := 0; iter < Iters; iter++ {
			x, y = p.Step(x, y, st.T)

			px, py := projection.ToScreen(x, y, st.View, in.screen)
			if in.skipWarmup && iter < warmupIters {
				px, py = math.MaxFloat32, math.MaxFloat32
			}
			out.Write(step*Iters+iter, px, py)

			if projection.Visible(px, py, in.screen) {
				if ref, ok := h.Reference(iter); ok {
					st.clampDelta(math.Hypot(ref.X-x, ref.Y-y))
				}
				visible = true
				stats.VisiblePoints++
			}

			h.Record(iter, x, y)
		}
		h.Commit()

		if visible {
			st.T += st.RollingDelta
			stats.VisibleSteps++
		} else {
			st.T += CoarseStep
			stats.OffscreenSteps++
		}
	}

	stats.EndT = st.T
	stats.RollingDelta = st.RollingDelta
	return stats
}
