package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/chaoseq/internal/projection"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a braille canvas with a brightness level per sub-pixel, so that
// old points can fade out the way a reverse-subtract blend darkens a
// framebuffer.
type Canvas struct {
	Width, Height int
	level         []uint8
	cell          []color.RGBA
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		Width:  w,
		Height: h,
		level:  make([]uint8, w*2*h*4),
		cell:   make([]color.RGBA, w*h),
	}
}

// Screen is the sub-pixel resolution used for projection.
func (c *Canvas) Screen() projection.Screen {
	return projection.Screen{W: float64(c.Width * 2), H: float64(c.Height * 4)}
}

// Plot lights the sub-pixel under (x, y) at full brightness and tints its
// cell. Points outside the canvas are dropped.
func (c *Canvas) Plot(x, y float64, col color.RGBA) {
	if !projection.Visible(x, y, c.Screen()) {
		return
	}
	c.Set(int(x), int(y))
	c.cell[int(y)/4*c.Width+int(x)/2] = col
}

// Set lights a sub-pixel at (x, y). The canvas size in sub-pixels is
// (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return
	}
	c.level[y*c.Width*2+x] = math.MaxUint8
}

// Level returns the brightness of a sub-pixel.
func (c *Canvas) Level(x, y int) uint8 {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return 0
	}
	return c.level[y*c.Width*2+x]
}

// Fade subtracts amount from every sub-pixel, saturating at zero.
func (c *Canvas) Fade(amount uint8) {
	if amount == 0 {
		return
	}
	for i, v := range c.level {
		if v <= amount {
			c.level[i] = 0
		} else {
			c.level[i] = v - amount
		}
	}
}

// glyph returns the braille rune for a cell and the brightest sub-pixel in it.
func (c *Canvas) glyph(row, col int) (rune, uint8) {
	r := rune(brailleBase)
	var peak uint8
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 2; dx++ {
			v := c.level[(row*4+dy)*c.Width*2+col*2+dx]
			if v == 0 {
				continue
			}
			r |= rune(pixelMap[dy][dx])
			if v > peak {
				peak = v
			}
		}
	}
	return r, peak
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			r, _ := c.glyph(row, col)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render draws the canvas with each cell tinted by its color, darkened by
// how far it has faded.
func (c *Canvas) Render() string {
	var b strings.Builder
	black := colorful.Color{}
	for row := 0; row < c.Height; row++ {
		var run strings.Builder
		runHex := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runHex == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runHex)).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < c.Width; col++ {
			r, peak := c.glyph(row, col)
			hex := ""
			if peak > 0 {
				base, _ := colorful.MakeColor(c.cell[row*c.Width+col])
				hex = black.BlendRgb(base, float64(peak)/math.MaxUint8).Clamped().Hex()
			}
			if hex != runHex {
				flush()
				runHex = hex
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}
