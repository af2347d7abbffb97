package trail

import (
	"fmt"
	"image/color"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette assigns a color to a buffer slot.
type Palette interface {
	Color(slot, depth, stride int) color.RGBA
}

// Palette names accepted by NewPalette.
const (
	PaletteRandom   = "random"
	PaletteSpectrum = "spectrum"
	PaletteMono     = "mono"
)

// PaletteNames lists the available palettes.
func PaletteNames() []string {
	return []string{PaletteRandom, PaletteSpectrum, PaletteMono}
}

// NewPalette builds a palette by name. rng is only used by "random".
func NewPalette(name string, rng *rand.Rand) (Palette, error) {
	switch name {
	case PaletteRandom, "":
		return RandomPalette{rng: rng}, nil
	case PaletteSpectrum:
		return SpectrumPalette{Saturation: 0.8, Value: 1}, nil
	case PaletteMono:
		return MonoPalette{Fill: color.RGBA{255, 255, 255, 255}}, nil
	}
	return nil, fmt.Errorf("unknown palette: %s (available: %v)", name, PaletteNames())
}

// RandomPalette draws a uniform RGB color for every slot.
type RandomPalette struct {
	rng *rand.Rand
}

func (p RandomPalette) Color(int, int, int) color.RGBA {
	return color.RGBA{
		R: uint8(p.rng.Intn(256)),
		G: uint8(p.rng.Intn(256)),
		B: uint8(p.rng.Intn(256)),
		A: 255,
	}
}

// SpectrumPalette sweeps hue with iteration depth, so each streak reads as a
// rainbow from seed to tail.
type SpectrumPalette struct {
	Saturation float64
	Value      float64
}

func (p SpectrumPalette) Color(_, depth, stride int) color.RGBA {
	hue := 360 * float64(depth) / float64(stride)
	r, g, b := colorful.Hsv(hue, p.Saturation, p.Value).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// MonoPalette uses a single color.
type MonoPalette struct {
	Fill color.RGBA
}

func (p MonoPalette) Color(int, int, int) color.RGBA { return p.Fill }
