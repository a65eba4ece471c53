package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/bhverlet/internal/sim"
	"github.com/san-kum/bhverlet/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// FrameSVG draws a rendered frame at the given scale, one circle per
// particle in index order. Fixed particles get a white outline.
func FrameSVG(frame []sim.RenderParticle, width, height, scale float64) string {
	if scale <= 0 {
		scale = 1
	}

	var sb strings.Builder
	header(&sb, width*scale, height*scale)
	for _, p := range frame {
		r := p.Radius * scale
		if r < 0.5 {
			r = 0.5
		}
		fill := p.Color
		if fill == "" {
			fill = sim.DefaultColor
		}
		stroke := ""
		if p.Fixed {
			stroke = ` stroke="#ffffff" stroke-width="1"`
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"%s/>
`, p.X*scale, p.Y*scale, r, html.EscapeString(fill), stroke))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	cols, rows := canvas.Width*2, canvas.Height*4
	var sb strings.Builder
	header(&sb, float64(cols)*scale, float64(rows)*scale)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	// Add padding
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	hi += span * 0.1
	span = hi - lo

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, html.EscapeString(strokeColor)))

	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/span*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
