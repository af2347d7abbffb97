package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/chaoseq/internal/projection"
	"github.com/san-kum/chaoseq/internal/sim"
)

var (
	ColBg   = rl.NewColor(0, 0, 0, 255)
	ColText = rl.NewColor(255, 255, 255, 255)
	ColDim  = rl.NewColor(140, 140, 140, 255)
)

type binding struct {
	key int32
	cmd sim.Command
}

// The number row mirrors the shift and space speed keys.
var bindings = []binding{
	{rl.KeyP, sim.CmdTogglePause},
	{rl.KeyLeftShift, sim.CmdSpeedSlow},
	{rl.KeyOne, sim.CmdSpeedSlow},
	{rl.KeySpace, sim.CmdSpeedNormal},
	{rl.KeyTwo, sim.CmdSpeedNormal},
	{rl.KeyRightShift, sim.CmdSpeedFast},
	{rl.KeyThree, sim.CmdSpeedFast},
	{rl.KeyC, sim.CmdCenter},
	{rl.KeyR, sim.CmdResetView},
	{rl.KeyN, sim.CmdShuffle},
	{rl.KeyK, sim.CmdCyclePalette},
	{rl.KeyQ, sim.CmdQuit},
	{rl.KeyEscape, sim.CmdQuit},
}

type App struct {
	Ctrl     *sim.Controller
	Width    int32
	Height   int32
	ShowHUD  bool
	log      *zap.Logger
	target   rl.RenderTexture2D
	quitting bool
}

func initWindow(w, h int32) {
	// Frames are paced by vsync, one Frame per presented frame.
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(w, h, "Chaos Equations")
	rl.SetExitKey(0)
}

// NewApp wraps a controller. The window must already be open because the
// accumulation texture lives on the GPU.
func NewApp(ctrl *sim.Controller, w, h int32, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	ctrl.SetScreen(projection.Screen{W: float64(w), H: float64(h)})
	a := &App{
		Ctrl:    ctrl,
		Width:   w,
		Height:  h,
		ShowHUD: true,
		log:     log,
		target:  rl.LoadRenderTexture(w, h),
	}
	a.clearTarget()
	return a
}

// Run opens a w x h window and drives ctrl until the window is closed or a
// quit command arrives.
func Run(ctrl *sim.Controller, w, h int, log *zap.Logger) {
	initWindow(int32(w), int32(h))
	defer rl.CloseWindow()

	app := NewApp(ctrl, int32(w), int32(h), log)
	defer app.Close()
	app.RunLoop()
}

func (a *App) RunLoop() {
	a.log.Info("window opened", zap.Int32("width", a.Width), zap.Int32("height", a.Height))
	for !rl.WindowShouldClose() && !a.quitting {
		a.Update()
		a.Draw()
	}
	a.log.Info("window closed", zap.Int("frames", a.Ctrl.Frames()))
}

// Update polls the keyboard and advances the controller by one frame.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if a.Ctrl.Tick(pressedCommands()...) {
		a.quitting = true
		return
	}
	a.Ctrl.Frame()
}

func pressedCommands() []sim.Command {
	var cmds []sim.Command
	for _, b := range bindings {
		if rl.IsKeyPressed(b.key) {
			cmds = append(cmds, b.cmd)
		}
	}
	return cmds
}

func (a *App) Close() {
	rl.UnloadRenderTexture(a.target)
}
