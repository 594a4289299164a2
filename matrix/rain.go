// Package matrix simulates the falling-glyph background.
//
// The canvas is a grid of terminal cells. Every frame the whole canvas fades a
// little, each column draws one random glyph at its current row and moves down.
// Columns that ran past the bottom restart at the top with a small probability,
// so they never restart in lockstep.
package matrix

import (
	"math/rand/v2"
	"time"
)

const (
	DefaultAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ123456789@#$%^&*()*&^%+-/~{[|`]}"
	DefaultFrameInterval = 50 * time.Millisecond
	DefaultFade          = 0.05
	DefaultGlowChance    = 0.02
	DefaultResetChance   = 0.025

	// cells dimmer than this are blanked
	minIntensity = 0.06
	// glow only survives while the glyph is still bright
	glowIntensity = 0.6
)

// Options configures a Rain.
type Options struct {
	Alphabet      string
	GlyphSize     int
	FrameInterval time.Duration
	Fade          float64
	GlowChance    float64
	ResetChance   float64
	Rand          *rand.Rand
}

// Column is one vertical lane. Position is measured in glyphs.
type Column struct {
	Index    int
	Position int
}

// Cell is one drawn canvas cell.
type Cell struct {
	Glyph     rune
	Intensity float64
	Glow      bool
}

// Rain holds the animation state. It is not safe for concurrent use.
type Rain struct {
	glyphs      []rune
	glyphSize   int
	interval    time.Duration
	fade        float64
	glowChance  float64
	resetChance float64
	rnd         *rand.Rand

	width, height int
	columns       []Column
	cells         []Cell

	last    time.Time
	started bool
	frames  uint64
}

// New creates an empty rain; call Resize before the first frame.
func New(opts Options) *Rain {
	r := &Rain{
		glyphs:      []rune(opts.Alphabet),
		glyphSize:   opts.GlyphSize,
		interval:    opts.FrameInterval,
		fade:        opts.Fade,
		glowChance:  opts.GlowChance,
		resetChance: opts.ResetChance,
		rnd:         opts.Rand,
	}
	if len(r.glyphs) == 0 {
		r.glyphs = []rune(DefaultAlphabet)
	}
	if r.glyphSize <= 0 {
		r.glyphSize = 1
	}
	if r.interval <= 0 {
		r.interval = DefaultFrameInterval
	}
	if r.fade <= 0 || r.fade > 1 {
		r.fade = DefaultFade
	}
	if r.glowChance < 0 {
		r.glowChance = DefaultGlowChance
	}
	if r.resetChance <= 0 {
		r.resetChance = DefaultResetChance
	}
	if r.rnd == nil {
		r.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

// Resize recomputes the column count from the canvas size. Surviving columns
// keep their positions, extra columns are dropped and new ones start at a
// random row. The canvas is cleared.
func (r *Rain) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)

	count := width / r.glyphSize
	rows := height / r.glyphSize

	next := make([]Column, count)
	for i := range next {
		next[i].Index = i
		if i < len(r.columns) {
			next[i].Position = max(r.columns[i].Position, 0)
			continue
		}
		if rows > 0 {
			next[i].Position = r.rnd.IntN(rows)
		}
	}

	r.width, r.height = width, height
	r.columns = next
	r.cells = make([]Cell, width*height)
}

// Advance runs one frame if at least one frame interval has passed since the
// previous one. It reports whether the canvas changed.
func (r *Rain) Advance(now time.Time) bool {
	if r.started && now.Sub(r.last) < r.interval {
		return false
	}
	r.started = true
	r.last = now
	r.Step()
	return true
}

// Step runs one frame unconditionally.
func (r *Rain) Step() {
	r.frames++
	r.fadeCells()

	for i := range r.columns {
		col := &r.columns[i]
		x := col.Index * r.glyphSize
		y := col.Position * r.glyphSize

		glyph := r.glyphs[r.rnd.IntN(len(r.glyphs))]
		glow := r.rnd.Float64() < r.glowChance
		r.draw(x, y, glyph, glow)

		if y > r.height && r.rnd.Float64() < r.resetChance {
			col.Position = 0
		}
		col.Position++
	}
}

func (r *Rain) fadeCells() {
	keep := 1 - r.fade
	for i := range r.cells {
		c := &r.cells[i]
		if c.Glyph == 0 {
			continue
		}
		c.Intensity *= keep
		if c.Intensity < glowIntensity {
			c.Glow = false
		}
		if c.Intensity < minIntensity {
			*c = Cell{}
		}
	}
}

func (r *Rain) draw(x, y int, glyph rune, glow bool) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return
	}
	r.cells[y*r.width+x] = Cell{Glyph: glyph, Intensity: 1, Glow: glow}
}

// Size returns the canvas size in cells.
func (r *Rain) Size() (width, height int) {
	return r.width, r.height
}

// Columns returns a copy of the column state.
func (r *Rain) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Cell returns the cell at (x, y); out-of-range coordinates yield an empty cell.
func (r *Rain) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return Cell{}
	}
	return r.cells[y*r.width+x]
}

// Frames returns how many frames have been drawn.
func (r *Rain) Frames() uint64 {
	return r.frames
}
