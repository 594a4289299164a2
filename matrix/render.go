package matrix

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// shades go from the freshest glyph to the faintest trail.
var shades = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#00AAFF")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#0088CC")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#006699")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#004466")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#002233")),
}

var glowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCF2FF")).Bold(true)

const (
	styleBlank = -1
	styleGlow  = -2
)

func styleIndex(c Cell) int {
	switch {
	case c.Glyph == 0:
		return styleBlank
	case c.Glow:
		return styleGlow
	}
	idx := int((1 - c.Intensity) * float64(len(shades)))
	return min(max(idx, 0), len(shades)-1)
}

// Render draws the canvas as styled lines. Adjacent cells with the same
// shade are rendered as one run.
func (r *Rain) Render() string {
	if r.width == 0 || r.height == 0 {
		return ""
	}

	var b strings.Builder
	var run strings.Builder
	for y := 0; y < r.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		current := styleBlank
		run.Reset()
		for x := 0; x < r.width; x++ {
			c := r.cells[y*r.width+x]
			idx := styleIndex(c)
			if idx != current && run.Len() > 0 {
				b.WriteString(renderRun(current, run.String()))
				run.Reset()
			}
			current = idx
			if c.Glyph == 0 {
				run.WriteByte(' ')
			} else {
				run.WriteRune(c.Glyph)
			}
		}
		if run.Len() > 0 {
			b.WriteString(renderRun(current, run.String()))
		}
	}
	return b.String()
}

func renderRun(idx int, s string) string {
	switch idx {
	case styleBlank:
		return s
	case styleGlow:
		return glowStyle.Render(s)
	default:
		return shades[idx].Render(s)
	}
}
