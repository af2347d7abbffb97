package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/chaoseq/internal/projection"
	"github.com/san-kum/chaoseq/internal/trail"
)

// TrailToSVG draws the visible points of buf as colored dots on a black
// screen-sized canvas, with the label in the top left corner.
func TrailToSVG(buf *trail.Buffer, screen projection.Screen, label string) string {
	if buf == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
<g stroke="none">
`, screen.W, screen.H, screen.W, screen.H))

	buf.EachVisible(screen, func(p trail.Point) {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#%02x%02x%02x"/>
`, p.X, p.Y, dotRadius, p.Color.R, p.Color.G, p.Color.B))
	})
	sb.WriteString("</g>\n")

	if label != "" {
		sb.WriteString(`<text x="10" y="10" fill="#ffffff" font-family="monospace" font-size="30">`)
		for i, line := range strings.Split(label, "\n") {
			sb.WriteString(fmt.Sprintf(`<tspan x="10" dy="%s">%s</tspan>`, lineAdvance(i), html.EscapeString(line)))
		}
		sb.WriteString("</text>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func lineAdvance(i int) string {
	if i == 0 {
		return "1em"
	}
	return "1.2em"
}
