package export

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/chaoseq/internal/projection"
	"github.com/san-kum/chaoseq/internal/trail"
)

var ErrFormat = errors.New("export: unsupported format")

const (
	dotRadius = 0.6
	screenDPI = 96
)

// Save writes a snapshot of buf to path. The format follows the file
// extension: .svg is written directly, raster and pdf formats go through
// gonum/plot.
func Save(path string, buf *trail.Buffer, screen projection.Screen, label string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		return os.WriteFile(path, []byte(TrailToSVG(buf, screen, label)), 0644)
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".pdf", ".eps":
		p, err := TrailPlot(buf, screen, label)
		if err != nil {
			return err
		}
		w := vg.Length(screen.W) * vg.Inch / screenDPI
		h := vg.Length(screen.H) * vg.Inch / screenDPI
		if err := p.Save(w, h, path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}

// TrailPlot builds a scatter plot of the visible points of buf in screen
// coordinates, with y flipped so the image matches the window.
func TrailPlot(buf *trail.Buffer, screen projection.Screen, label string) (*plot.Plot, error) {
	var (
		xys    plotter.XYs
		colors []color.RGBA
	)
	buf.EachVisible(screen, func(pt trail.Point) {
		xys = append(xys, plotter.XY{X: pt.X, Y: screen.H - pt.Y})
		colors = append(colors, pt.Color)
	})

	p := plot.New()
	p.BackgroundColor = color.Black
	p.Title.Text = label
	p.Title.TextStyle.Color = color.White
	p.HideAxes()

	if len(xys) > 0 {
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("scatter: %w", err)
		}
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{Color: colors[i], Radius: vg.Points(dotRadius), Shape: draw.CircleGlyph{}}
		}
		p.Add(s)
	}

	p.X.Min, p.X.Max = 0, screen.W
	p.Y.Min, p.Y.Max = 0, screen.H
	return p, nil
}
