package sim

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/chaoseq/internal/chaos"
	"github.com/san-kum/chaoseq/internal/config"
	"github.com/san-kum/chaoseq/internal/equation"
	"github.com/san-kum/chaoseq/internal/projection"
	"github.com/san-kum/chaoseq/internal/trail"
)

// Controller owns one session: state, history, trail buffer and the current
// equation. It is not safe for concurrent use.
type Controller struct {
	log        *zap.Logger
	rng        *rand.Rand
	integrator *chaos.Integrator
	state      chaos.State
	history    *chaos.History
	buffer     *trail.Buffer
	params     equation.Params
	palette    string
	shuffle    bool
	restart    string
	fade       Fade
	frame      int
	observers  []Observer
}

// New builds a controller drawing onto screen. A nil logger is replaced by a
// no-op logger.
func New(cfg *config.Config, screen projection.Screen, log *zap.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	pal, err := trail.NewPalette(cfg.Palette, rng)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	c := &Controller{
		log:        log,
		rng:        rng,
		integrator: chaos.NewIntegrator(screen, chaos.WithSkipWarmup(cfg.SkipWarmup)),
		state:      chaos.NewState(cfg.Speed),
		history:    chaos.NewHistory(chaos.Iters),
		buffer:     trail.New(chaos.BufferSize, chaos.Iters, pal),
		palette:    cfg.Palette,
		shuffle:    cfg.Shuffle,
		restart:    cfg.Restart,
		fade:       Fade{Level: cfg.Fade()},
		observers:  make([]Observer, 0),
	}
	c.SetParams(equation.Generate(rng))
	return c, nil
}

func (c *Controller) AddObserver(o Observer) { c.observers = append(c.observers, o) }

// Tick applies cmds in order and reports whether a quit was requested.
func (c *Controller) Tick(cmds ...Command) bool {
	quit := false
	for _, cmd := range cmds {
		switch cmd {
		case CmdTogglePause:
			c.state.Paused = !c.state.Paused
			c.log.Info("pause toggled", zap.Bool("paused", c.state.Paused))
		case CmdSpeedSlow:
			c.setSpeed(chaos.SpeedSlow)
		case CmdSpeedNormal:
			c.setSpeed(chaos.SpeedNormal)
		case CmdSpeedFast:
			c.setSpeed(chaos.SpeedFast)
		case CmdCenter:
			c.Center()
		case CmdResetView:
			c.state.View = projection.DefaultView()
			c.log.Info("view reset")
		case CmdShuffle:
			c.SetParams(equation.Generate(c.rng))
		case CmdCyclePalette:
			c.CyclePalette()
		case CmdQuit:
			c.log.Info("quit requested", zap.Int("frame", c.frame))
			quit = true
		}
	}
	return quit
}

func (c *Controller) setSpeed(speed float64) {
	c.state.Speed = speed
	c.log.Info("speed changed", zap.Float64("speed", speed))
}

// Center fits the view to the latest trajectory samples.
func (c *Controller) Center() {
	c.state.View = projection.AutoFit(c.history.Snapshot())
	c.log.Info("view centered",
		zap.Float64("scale", c.state.View.Scale),
		zap.Float64("offset_x", c.state.View.OffsetX),
		zap.Float64("offset_y", c.state.View.OffsetY),
	)
}

// Frame advances the session by one rendered frame. While paused it only
// notifies observers; the trail buffer keeps its previous contents.
func (c *Controller) Frame() FrameReport {
	if c.state.Paused {
		r := FrameReport{Frame: c.frame, T: c.state.T, Paused: true, Code: c.params.Encode()}
		c.notify(r)
		return r
	}

	c.state.Damp()
	stats := c.integrator.AdvanceBatch(c.params, &c.state, c.history, c.buffer)

	restarted := false
	if c.state.Completed() {
		restarted = c.complete()
	}

	c.frame++
	r := FrameReport{
		Frame:     c.frame,
		T:         c.state.T,
		Restarted: restarted,
		Code:      c.params.Encode(),
		Stats:     stats,
	}
	c.notify(r)
	return r
}

// complete handles t running past TEnd. Under RestartContinue t is left
// where it is, so with shuffling on a new equation is drawn every frame
// until something else moves t back.
func (c *Controller) complete() bool {
	if !c.shuffle && c.restart == config.RestartContinue {
		return false
	}
	if c.shuffle {
		c.SetParams(equation.Generate(c.rng))
	}
	if c.restart == config.RestartRewind {
		c.state.Rewind()
	}
	return true
}

// CyclePalette switches to the next palette and recolors the trail buffer
// in place.
func (c *Controller) CyclePalette() {
	names := trail.PaletteNames()
	next := names[0]
	for i, name := range names {
		if name == c.palette {
			next = names[(i+1)%len(names)]
			break
		}
	}
	pal, err := trail.NewPalette(next, c.rng)
	if err != nil {
		c.log.Warn("palette switch failed", zap.String("palette", next), zap.Error(err))
		return
	}
	c.buffer.Recolor(pal)
	c.palette = next
	c.log.Info("palette changed", zap.String("palette", next))
}

func (c *Controller) notify(r FrameReport) {
	for _, o := range c.observers {
		o.OnFrame(r)
	}
}

// SetParams replaces the current equation.
func (c *Controller) SetParams(p equation.Params) {
	c.params = p
	x, y := p.Describe()
	c.log.Info("new equation",
		zap.String("code", p.Encode()),
		zap.String("x", x),
		zap.String("y", y),
	)
}

// SetScreen changes the projection target.
func (c *Controller) SetScreen(s projection.Screen) { c.integrator.SetScreen(s) }

func (c *Controller) Screen() projection.Screen { return c.integrator.Screen() }

// State returns a copy of the session state.
func (c *Controller) State() chaos.State { return c.state }

func (c *Controller) Params() equation.Params { return c.params }

func (c *Controller) Trail() *trail.Buffer { return c.buffer }

func (c *Controller) Fade() Fade { return c.fade }

func (c *Controller) PaletteName() string { return c.palette }

func (c *Controller) Paused() bool { return c.state.Paused }

func (c *Controller) Frames() int { return c.frame }

// Label is the equation overlay text.
func (c *Controller) Label() string { return c.params.Label() }

// TimeLabel is the parametric time overlay text.
func (c *Controller) TimeLabel() string { return c.state.TimeLabel() }
