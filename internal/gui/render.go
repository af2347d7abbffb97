package gui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/chaoseq/internal/trail"
)

// OpenGL constants for SetBlendFactors.
const (
	glOne                 = 1
	glFuncReverseSubtract = 0x800B
)

const (
	labelSize = 30
	timeSize  = 28
	margin    = 10
)

// Draw fades the accumulation texture, adds the new trail points and
// presents it with the overlays on top.
func (a *App) Draw() {
	if !a.Ctrl.Paused() {
		rl.BeginTextureMode(a.target)
		a.fade(a.Ctrl.Fade().Level)
		a.drawTrail()
		rl.EndTextureMode()
	}

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	// Render textures are stored upside down.
	src := rl.NewRectangle(0, 0, float32(a.target.Texture.Width), -float32(a.target.Texture.Height))
	rl.DrawTextureRec(a.target.Texture, src, rl.NewVector2(0, 0), rl.White)
	if a.ShowHUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}

// fade subtracts level from every channel of the accumulated image.
func (a *App) fade(level uint8) {
	switch level {
	case 0:
		return
	case 255:
		rl.ClearBackground(ColBg)
		return
	}
	rl.BeginBlendMode(rl.BlendCustom)
	rl.SetBlendFactors(glOne, glOne, glFuncReverseSubtract)
	rl.DrawRectangle(0, 0, a.Width, a.Height, rl.NewColor(level, level, level, 0))
	rl.EndBlendMode()
}

func (a *App) drawTrail() {
	screen := a.Ctrl.Screen()
	a.Ctrl.Trail().EachVisible(screen, func(p trail.Point) {
		rl.DrawPixelV(rl.NewVector2(float32(p.X), float32(p.Y)), rl.NewColor(p.Color.R, p.Color.G, p.Color.B, p.Color.A))
	})
}

func (a *App) clearTarget() {
	rl.BeginTextureMode(a.target)
	rl.ClearBackground(ColBg)
	rl.EndTextureMode()
}

// drawHUD draws the equation in the top left and t in the top right, each
// on a black box so trails do not run through the text.
func (a *App) drawHUD() {
	a.drawBoxedText(a.Ctrl.Label(), margin, margin, labelSize, ColText)

	t := a.Ctrl.TimeLabel()
	a.drawBoxedText(t, a.Width-rl.MeasureText(t, timeSize)-2*margin, margin, timeSize, ColText)

	if a.Ctrl.Paused() {
		a.drawBoxedText("PAUSED", margin, a.Height-timeSize-margin, timeSize, ColDim)
	}
}

func (a *App) drawBoxedText(text string, x, y, size int32, col rl.Color) {
	lines := strings.Split(text, "\n")
	var w int32
	for _, l := range lines {
		if lw := rl.MeasureText(l, size); lw > w {
			w = lw
		}
	}
	h := int32(len(lines)) * (size + size/2)
	rl.DrawRectangle(x-margin/2, y-margin/2, w+margin, h+margin/2, ColBg)
	rl.DrawText(text, x, y, size, col)
}
