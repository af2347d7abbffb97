package sim

import (
	"context"
	"image/color"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaoseq/internal/chaos"
	"github.com/san-kum/chaoseq/internal/config"
	"github.com/san-kum/chaoseq/internal/equation"
	"github.com/san-kum/chaoseq/internal/projection"
	"github.com/san-kum/chaoseq/internal/trail"
)

var screen = projection.Screen{W: 1800, H: 1200}

func newController(mutate func(*config.Config)) *Controller {
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	if mutate != nil {
		mutate(cfg)
	}
	c, err := New(cfg, screen, nil)
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Controller", func() {
	var c *Controller

	BeforeEach(func() {
		c = newController(nil)
	})

	It("starts a fresh session", func() {
		st := c.State()
		Expect(st.T).To(Equal(chaos.TStart))
		Expect(st.RollingDelta).To(Equal(chaos.DeltaPerStep))
		Expect(st.Speed).To(Equal(config.DefaultSpeed))
		Expect(c.Trail().Len()).To(Equal(chaos.BufferSize))
		Expect(c.Label()).To(HaveSuffix("Code: " + c.Params().Encode()))
		Expect(c.TimeLabel()).To(Equal("t = -3.00000"))
		Expect(c.Fade()).To(Equal(Fade{Level: 2}))
	})

	It("rejects an invalid config", func() {
		cfg := config.DefaultConfig()
		cfg.Palette = "plaid"
		_, err := New(cfg, screen, nil)
		Expect(err).To(MatchError(config.ErrInvalid))
	})

	Describe("Tick", func() {
		DescribeTable("sets the speed multiplier",
			func(cmd Command, want float64) {
				Expect(c.Tick(cmd)).To(BeFalse())
				Expect(c.State().Speed).To(Equal(want))
			},
			Entry("slow", CmdSpeedSlow, 0.1),
			Entry("normal", CmdSpeedNormal, 1.0),
			Entry("fast", CmdSpeedFast, 10.0),
		)

		It("reports quit", func() {
			Expect(c.Tick(CmdTogglePause, CmdQuit)).To(BeTrue())
			Expect(c.Paused()).To(BeTrue())
		})

		It("centers on the latest history", func() {
			c.SetParams(equation.Params{})
			c.Frame()
			c.Tick(CmdCenter)
			Expect(c.State().View).To(Equal(projection.View{Scale: 10}))

			c.Tick(CmdResetView)
			Expect(c.State().View).To(Equal(projection.DefaultView()))
		})

		It("keeps the default view when centering before any frame", func() {
			c.Tick(CmdCenter)
			Expect(c.State().View).To(Equal(projection.DefaultView()))
		})

		It("draws a new equation on shuffle", func() {
			before := c.Params()
			c.Tick(CmdShuffle)
			Expect(c.Params()).NotTo(Equal(before))
		})

		It("cycles the palette and recolors the live buffer", func() {
			Expect(c.PaletteName()).To(Equal(trail.PaletteRandom))

			Expect(c.Tick(CmdCyclePalette)).To(BeFalse())
			Expect(c.PaletteName()).To(Equal(trail.PaletteSpectrum))
			spectrum, err := trail.NewPalette(trail.PaletteSpectrum, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Trail().At(3).Color).To(Equal(spectrum.Color(3, 3, chaos.Iters)))

			c.Tick(CmdCyclePalette)
			Expect(c.PaletteName()).To(Equal(trail.PaletteMono))
			for _, p := range c.Trail().Points()[:10] {
				Expect(p.Color).To(Equal(color.RGBA{255, 255, 255, 255}))
			}

			c.Tick(CmdCyclePalette)
			Expect(c.PaletteName()).To(Equal(trail.PaletteRandom))
		})

		It("ignores unknown commands", func() {
			st := c.State()
			Expect(c.Tick(CmdNone, Command(99))).To(BeFalse())
			Expect(c.State()).To(Equal(st))
			Expect(Command(99).String()).To(Equal("command(99)"))
			Expect(CmdCenter.String()).To(Equal("center"))
		})
	})

	Describe("Frame", func() {
		It("does nothing while paused but still notifies", func() {
			var reports []FrameReport
			c.AddObserver(ObserverFunc(func(r FrameReport) { reports = append(reports, r) }))

			c.Frame()
			first := c.Trail().At(chaos.BufferSize - 1)

			c.Tick(CmdTogglePause)
			st := c.State()
			Expect(st.Paused).To(BeTrue())
			r := c.Frame()
			Expect(r.Paused).To(BeTrue())
			Expect(c.State()).To(Equal(st))
			Expect(c.Trail().At(chaos.BufferSize - 1)).To(Equal(first))
			Expect(c.Frames()).To(Equal(1))
			Expect(reports).To(HaveLen(2))
		})

		It("advances a slow fresh session by less than the coarse bound", func() {
			c.Tick(CmdSpeedSlow)
			c.SetParams(equation.Params{})
			r := c.Frame()
			Expect(r.T).To(BeNumerically(">", chaos.TStart))
			Expect(r.T).To(BeNumerically("<", chaos.TStart+chaos.StepsPerFrame*chaos.CoarseStep))
		})

		It("never exceeds the coarse bound for random equations", func() {
			c.Tick(CmdSpeedSlow)
			for i := 0; i < 5; i++ {
				c.Tick(CmdShuffle)
				start := c.State().T
				r := c.Frame()
				Expect(r.T).To(BeNumerically(">", start))
				Expect(r.T - start).To(BeNumerically("<=", chaos.StepsPerFrame*chaos.CoarseStep+1e-9))
			}
		})

		It("collapses the zero equation onto the screen center", func() {
			c.SetParams(equation.Params{})
			x, y := c.Params().Describe()
			Expect(x).To(BeEmpty())
			Expect(y).To(BeEmpty())

			c.Frame()
			for _, p := range c.Trail().Points() {
				Expect(p.X).To(Equal(screen.W / 2))
				Expect(p.Y).To(Equal(screen.H / 2))
			}
			Expect(strings.HasPrefix(c.TimeLabel(), "t = -2.99")).To(BeTrue())
		})
	})

	Describe("completion", func() {
		nearEnd := func(c *Controller) {
			c.SetParams(equation.Params{})
			c.state.T = chaos.TEnd - 1e-9
		}

		It("rewinds and reshuffles by default", func() {
			nearEnd(c)
			r := c.Frame()
			Expect(r.Restarted).To(BeTrue())
			Expect(c.State().T).To(Equal(chaos.TStart))
			Expect(c.Params().IsZero()).To(BeFalse())
		})

		It("keeps t running under the continue policy", func() {
			c = newController(func(cfg *config.Config) { cfg.Restart = config.RestartContinue })
			nearEnd(c)
			r := c.Frame()
			Expect(r.Restarted).To(BeTrue())
			Expect(c.State().T).To(BeNumerically(">", chaos.TEnd))

			codes := map[string]bool{}
			for i := 0; i < 5; i++ {
				codes[c.Frame().Code] = true
			}
			Expect(len(codes)).To(BeNumerically(">", 1))
		})

		It("keeps the equation when shuffling is off", func() {
			c = newController(func(cfg *config.Config) {
				cfg.Shuffle = false
				cfg.Restart = config.RestartContinue
			})
			nearEnd(c)
			r := c.Frame()
			Expect(r.Restarted).To(BeFalse())
			Expect(c.Params().IsZero()).To(BeTrue())
			Expect(c.State().Completed()).To(BeTrue())
		})

		It("replays the same equation when rewinding without shuffle", func() {
			c = newController(func(cfg *config.Config) { cfg.Shuffle = false })
			nearEnd(c)
			Expect(c.Frame().Restarted).To(BeTrue())
			Expect(c.Params().IsZero()).To(BeTrue())
			Expect(c.State().T).To(Equal(chaos.TStart))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("surveys every seed and sorts by visibility", func() {
		cfg := config.DefaultConfig()
		e := NewEnsemble(cfg, screen, 4, 100, 2)
		results, err := e.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		seeds := map[int64]bool{}
		for i, r := range results {
			seeds[r.Seed] = true
			Expect(r.Code).To(HaveLen(equation.CodeLen))
			Expect(r.VisibleRatio).To(BeNumerically(">=", 0))
			Expect(r.VisibleRatio).To(BeNumerically("<=", 1))
			if i > 0 {
				Expect(r.VisibleRatio).To(BeNumerically("<=", results[i-1].VisibleRatio))
			}
		}
		Expect(seeds).To(HaveLen(4))
	})

	It("rejects a negative run count", func() {
		_, err := NewEnsemble(config.DefaultConfig(), screen, -1, 0, 1).Run(context.Background())
		Expect(err).To(MatchError(config.ErrInvalid))
	})

	It("stops on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewEnsemble(config.DefaultConfig(), screen, 2, 0, 10).Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})
