package chaos

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaoseq/internal/equation"
	"github.com/san-kum/chaoseq/internal/projection"
)

type recorder struct {
	xs, ys []float64
	writes []int
}

func newRecorder() *recorder {
	return &recorder{
		xs:     make([]float64, BufferSize),
		ys:     make([]float64, BufferSize),
		writes: make([]int, BufferSize),
	}
}

func (r *recorder) Write(index int, x, y float64) {
	r.xs[index] = x
	r.ys[index] = y
	r.writes[index]++
}

var screen = projection.Screen{W: 1800, H: 1200}

// constantT maps every iteration to (t, t).
func constantT() equation.Params {
	var p equation.Params
	p[8] = 1
	p[17] = 1
	return p
}

var _ = Describe("State", func() {
	It("starts at TStart with the base step and default view", func() {
		st := NewState(SpeedNormal)
		Expect(st.T).To(Equal(TStart))
		Expect(st.RollingDelta).To(Equal(DeltaPerStep))
		Expect(st.View).To(Equal(projection.DefaultView()))
		Expect(st.Completed()).To(BeFalse())
	})

	It("damps toward the base step", func() {
		st := NewState(SpeedFast)
		for i := 0; i < 2000; i++ {
			st.Damp()
		}
		Expect(st.RollingDelta).To(BeNumerically("~", st.BaseDelta(), 1e-12))
	})

	DescribeTable("clamps the rolling step by displacement",
		func(dist, want float64) {
			st := NewState(SpeedNormal)
			st.clampDelta(dist)
			Expect(st.RollingDelta).To(BeNumerically("~", want, 1e-15))
		},
		Entry("slow motion keeps the step", 0.001, DeltaPerStep),
		Entry("moderate motion shrinks it", 0.01, DeltaPerStep/(5+1e-5)),
		Entry("fast motion hits the floor", 1.0, DeltaMinimum),
		Entry("infinite displacement hits the floor", math.Inf(1), DeltaMinimum),
		Entry("NaN displacement hits the floor", math.NaN(), DeltaMinimum),
	)

	It("reports completion past TEnd and rewinds", func() {
		st := NewState(SpeedNormal)
		st.T = TEnd + 1e-9
		Expect(st.Completed()).To(BeTrue())
		st.Rewind()
		Expect(st.T).To(Equal(TStart))
	})

	It("formats the time label", func() {
		st := NewState(SpeedNormal)
		Expect(st.TimeLabel()).To(Equal("t = -3.00000"))
	})
})

var _ = Describe("History", func() {
	It("has no reference before the first commit", func() {
		h := NewHistory(4)
		_, ok := h.Reference(0)
		Expect(ok).To(BeFalse())
		Expect(h.Snapshot()).To(BeNil())
	})

	It("keeps reads on the previous sub-step until commit", func() {
		h := NewHistory(2)
		h.Record(0, 1, 1)
		h.Record(1, 2, 2)
		h.Commit()

		h.Record(0, 5, 5)
		ref, ok := h.Reference(0)
		Expect(ok).To(BeTrue())
		Expect(ref).To(Equal(projection.Point{X: 1, Y: 1}))

		h.Record(1, 6, 6)
		h.Commit()
		ref, _ = h.Reference(0)
		Expect(ref).To(Equal(projection.Point{X: 5, Y: 5}))
		Expect(h.Snapshot()).To(Equal([]projection.Point{{X: 5, Y: 5}, {X: 6, Y: 6}}))
	})
})

var _ = Describe("Integrator", func() {
	var (
		in  *Integrator
		st  State
		h   *History
		out *recorder
	)

	BeforeEach(func() {
		in = NewIntegrator(screen)
		st = NewState(SpeedNormal)
		h = NewHistory(Iters)
		out = newRecorder()
	})

	It("writes every buffer slot exactly once", func() {
		in.AdvanceBatch(equation.Generate(rand.New(rand.NewSource(1))), &st, h, out)
		for i, n := range out.writes {
			Expect(n).To(Equal(1), "slot %d", i)
		}
	})

	It("collapses an all-zero equation onto the origin", func() {
		stats := in.AdvanceBatch(equation.Params{}, &st, h, out)

		cx, cy := projection.ToScreen(0, 0, st.View, screen)
		for i := range out.xs {
			Expect(out.xs[i]).To(Equal(cx))
			Expect(out.ys[i]).To(Equal(cy))
		}
		for _, p := range h.Snapshot() {
			Expect(p).To(Equal(projection.Point{}))
		}
		Expect(stats.VisibleSteps).To(Equal(StepsPerFrame))
		Expect(stats.VisiblePoints).To(Equal(BufferSize))
		Expect(stats.EndT).To(BeNumerically("~", TStart+StepsPerFrame*DeltaPerStep, 1e-12))
	})

	Context("when nothing is on screen", func() {
		BeforeEach(func() {
			st.View.OffsetX = 1000
		})

		It("advances t by exactly the coarse step per sub-step", func() {
			st.RollingDelta = 12345
			want := st.T
			for i := 0; i < StepsPerFrame; i++ {
				want += CoarseStep
			}

			stats := in.AdvanceBatch(constantT(), &st, h, out)
			Expect(st.T).To(Equal(want))
			Expect(stats.OffscreenSteps).To(Equal(StepsPerFrame))
			Expect(stats.VisiblePoints).To(BeZero())
			Expect(st.RollingDelta).To(Equal(12345.0))
		})

		It("still records history for every depth", func() {
			in.AdvanceBatch(constantT(), &st, h, out)
			lastT := st.T - CoarseStep
			snap := h.Snapshot()
			Expect(snap).To(HaveLen(Iters))
			for _, p := range snap {
				Expect(p.X).To(BeNumerically("~", lastT, 1e-12))
				Expect(p.Y).To(BeNumerically("~", lastT, 1e-12))
			}
		})
	})

	It("shrinks the step to the floor when the trajectory jumps", func() {
		for i := 0; i < Iters; i++ {
			h.Record(i, 10, 10)
		}
		h.Commit()

		stats := in.AdvanceBatch(equation.Params{}, &st, h, out)
		Expect(stats.RollingDelta).To(Equal(st.MinDelta()))
		Expect(st.T).To(BeNumerically("~", TStart+StepsPerFrame*st.MinDelta(), 1e-12))
	})

	It("keeps t finite when the reference samples are NaN", func() {
		for i := 0; i < Iters; i++ {
			h.Record(i, math.NaN(), math.NaN())
		}
		h.Commit()

		stats := in.AdvanceBatch(equation.Params{}, &st, h, out)
		Expect(math.IsNaN(stats.RollingDelta)).To(BeFalse())
		Expect(stats.RollingDelta).To(Equal(st.MinDelta()))
		Expect(math.IsNaN(st.T)).To(BeFalse())
		Expect(st.T).To(BeNumerically(">", TStart))
	})

	It("never drives the rolling step below the floor", func() {
		rng := rand.New(rand.NewSource(5))
		st.Speed = SpeedSlow
		for frame := 0; frame < 20; frame++ {
			if frame%5 == 0 {
				st.T = TStart + rng.Float64()*(TEnd-TStart)
			}
			st.Damp()
			in.AdvanceBatch(equation.Generate(rng), &st, h, out)
			Expect(st.RollingDelta).To(BeNumerically(">=", st.MinDelta()))
			Expect(math.IsNaN(st.T)).To(BeFalse())
		}
	})

	It("hides warm-up iterations when asked", func() {
		in = NewIntegrator(screen, WithSkipWarmup(true))
		stats := in.AdvanceBatch(equation.Params{}, &st, h, out)

		for step := 0; step < StepsPerFrame; step++ {
			for iter := 0; iter < Iters; iter++ {
				x := out.xs[step*Iters+iter]
				if iter < warmupIters {
					Expect(x).To(Equal(float64(math.MaxFloat32)))
				} else {
					Expect(x).To(Equal(screen.W / 2))
				}
			}
		}
		Expect(stats.VisiblePoints).To(Equal(StepsPerFrame * (Iters - warmupIters)))
	})

	It("treats diverging trajectories as off screen", func() {
		p := equation.MustNew([]float64{
			1, 1, 1, 1, 1, 1, 1, 1, 1,
			1, 1, 1, 1, 1, 1, 1, 1, 1,
		})
		st.T = TEnd
		stats := in.AdvanceBatch(p, &st, h, out)
		Expect(stats.OffscreenSteps).To(Equal(StepsPerFrame))
		Expect(math.IsNaN(out.xs[BufferSize-1]) || math.IsInf(out.xs[BufferSize-1], 0)).To(BeTrue())
	})
})
