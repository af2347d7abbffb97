package chaos

import (
	"fmt"
	"math"

	"github.com/san-kum/chaoseq/internal/projection"
)

const (
	TStart        = -3.0
	TEnd          = 3.0
	Iters         = 800
	StepsPerFrame = 150
	DeltaPerStep  = 1e-5
	DeltaMinimum  = 1e-7

	// BufferSize is the number of points written per frame.
	BufferSize = Iters * StepsPerFrame

	// CoarseStep is the time advance for a sub-step with nothing on screen.
	CoarseStep = 0.01

	velocityGain = 500.0
	velocityEps  = 1e-5
	dampKeep     = 0.99
	warmupIters  = 100
)

// Speed multipliers selectable at runtime.
const (
	SpeedSlow   = 0.1
	SpeedNormal = 1.0
	SpeedFast   = 10.0

	// SpeedDefault is the multiplier a fresh session starts with.
	SpeedDefault = 3.0
)

// State is the mutable session record advanced once per frame.
type State struct {
	T            float64
	RollingDelta float64
	View         projection.View
	Paused       bool
	Speed        float64
}

// NewState returns a session positioned at TStart with the default view.
func NewState(speed float64) State {
	return State{
		T:            TStart,
		RollingDelta: DeltaPerStep,
		View:         projection.DefaultView(),
		Speed:        speed,
	}
}

// BaseDelta is the undamped step for the current speed.
func (s State) BaseDelta() float64 { return DeltaPerStep * s.Speed }

// MinDelta is the floor the velocity clamp never goes below.
func (s State) MinDelta() float64 { return DeltaMinimum * s.Speed }

// Damp pulls the rolling step one percent of the way back to BaseDelta.
func (s *State) Damp() {
	s.RollingDelta = s.RollingDelta*dampKeep + s.BaseDelta()*(1-dampKeep)
}

// Completed reports whether t has run past TEnd.
func (s State) Completed() bool { return s.T > TEnd }

// Rewind moves t back to TStart.
func (s *State) Rewind() { s.T = TStart }

// clampDelta shrinks the rolling step for an on-screen displacement of dist
// simulation units between consecutive sub-steps. A NaN distance, from a
// reference sample that had diverged, counts as infinitely far and yields the
// floor.
func (s *State) clampDelta(dist float64) {
	d := velocityGain * dist
	if math.IsNaN(d) {
		d = math.Inf(1)
	}
	s.RollingDelta = math.Min(s.RollingDelta, math.Max(s.BaseDelta()/(d+velocityEps), s.MinDelta()))
}

// TimeLabel formats t for the overlay.
func (s State) TimeLabel() string {
	return fmt.Sprintf("t = %.5f", s.T)
}
