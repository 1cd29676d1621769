package drop

import (
	"image"
	"math/rand"

	"github.com/coleslaw481/patrix/pkg/canvas"
	"github.com/coleslaw481/patrix/pkg/tiles"
)

// dropPoint is the dropper's location state: a tagged variant rather than a
// nullable pair. active=false means the dropper needs relocation before it
// can paint again.
type dropPoint struct {
	x, y   int
	active bool
}

// Dropper drops tiles down one column of the shared canvas, repainting its
// recent history at decaying brightness so each column reads as a fading
// comet trail. It mutates the canvas only from Drop, which the driver calls
// sequentially; droppers are not safe for concurrent use.
type Dropper struct {
	cv   *canvas.Canvas
	grid *Grid
	set  *tiles.Set

	at      dropPoint
	history []image.Image // newest first, capped at TrailLen
}

// NewDropper creates a dropper in the unset state sharing cv, grid and set
// with its siblings.
func NewDropper(cv *canvas.Canvas, grid *Grid, set *tiles.Set) *Dropper {
	return &Dropper{
		cv:      cv,
		grid:    grid,
		set:     set,
		history: make([]image.Image, 0, TrailLen),
	}
}

// Reset forces the dropper back to the unset state and clears its trail
// history. The next Drop relocates to a fresh random anchor.
func (d *Dropper) Reset() {
	d.history = d.history[:0]
	d.at = dropPoint{}
}

// relocate clears the trail history and moves to a random anchor cell.
func (d *Dropper) relocate(rng *rand.Rand) {
	d.history = d.history[:0]
	d.at = dropPoint{
		x:      d.grid.RandomCol(rng),
		y:      d.grid.RandomRow(rng),
		active: true,
	}
}

// Drop performs one simulation step: relocate if unset, drop a random tile
// at the current location, repaint the trail at decaying brightness, and
// advance downward. Once the location passes the canvas bottom plus the full
// trail clearance, the dropper reverts to unset so the next step relocates.
func (d *Dropper) Drop(rng *rand.Rand) {
	if !d.at.active {
		d.relocate(rng)
	}

	d.push(d.set.Random(rng))

	for i, tile := range d.history {
		d.cv.Paste(tile, brightnessCurve[i], d.at.x, d.at.y-i*d.grid.rowPitch)
	}

	d.at.y += d.grid.rowPitch
	if d.at.y > d.cv.Bounds().Dy()+TrailLen*d.grid.rowPitch {
		d.at = dropPoint{}
	}
}

// push inserts tile at the front of the history, evicting the oldest entry
// once the window is full. The cap equals the brightness curve length, so
// indexing the curve by history position can never overrun.
func (d *Dropper) push(tile image.Image) {
	if len(d.history) < TrailLen {
		d.history = append(d.history, nil)
	}
	copy(d.history[1:], d.history)
	d.history[0] = tile
}
