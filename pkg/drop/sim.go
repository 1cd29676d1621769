package drop

import (
	"context"
	"image"
	"math/rand"

	"github.com/coleslaw481/patrix/pkg/canvas"
	"github.com/coleslaw481/patrix/pkg/errors"
	"github.com/coleslaw481/patrix/pkg/tiles"
)

// Config holds the simulation parameters. All values are validated by New.
type Config struct {
	Width    int   // canvas width in pixels
	Height   int   // canvas height in pixels
	ColSep   int   // horizontal gap between anchor columns
	RowSep   int   // vertical gap between dropped tiles
	Droppers int   // number of independent column droppers per frame
	Frames   int   // number of frames to simulate
	Prefill  bool  // populate the canvas before the first frame
	Glow     int   // prefill cells drawn at full brightness
	Seed     int64 // seed for the single randomness source
}

// Sim owns the canvas, the anchor grid, the dropper pool and the randomness
// source. Droppers share the canvas by reference and are advanced strictly
// sequentially in creation order, so composite ordering is deterministic for
// a given seed.
type Sim struct {
	cfg      Config
	set      *tiles.Set
	cv       *canvas.Canvas
	grid     *Grid
	droppers []*Dropper
	rng      *rand.Rand
}

// New validates cfg against the tile set and constructs the simulation.
// Degenerate dropper or frame counts are INVALID_CONFIG errors; grid
// construction reports its own coded errors.
func New(set *tiles.Set, cfg Config) (*Sim, error) {
	if cfg.Droppers < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "dropper count must be at least 1, got %d", cfg.Droppers)
	}
	if cfg.Frames < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "frame count must be non-negative, got %d", cfg.Frames)
	}
	if cfg.Glow < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "glow count must be non-negative, got %d", cfg.Glow)
	}

	tileW, tileH := set.TileSize()
	grid, err := NewGrid(cfg.Width, cfg.Height, tileW, tileH, cfg.ColSep, cfg.RowSep)
	if err != nil {
		return nil, err
	}

	cv := canvas.New(cfg.Width, cfg.Height)
	droppers := make([]*Dropper, cfg.Droppers)
	for i := range droppers {
		droppers[i] = NewDropper(cv, grid, set)
	}

	return &Sim{
		cfg:      cfg,
		set:      set,
		cv:       cv,
		grid:     grid,
		droppers: droppers,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Grid exposes the computed anchor grid, mainly for logging.
func (s *Sim) Grid() *Grid { return s.grid }

// Prefill populates every anchor-pitch cell of the canvas with a random tile
// at dim brightness, except cfg.Glow randomly chosen cells drawn at full
// brightness. It avoids an empty-looking canvas during the first frames and
// runs at most once, before the first Run.
func (s *Sim) Prefill() {
	const (
		dim    = 0.2
		bright = 1.0
	)

	type cell struct{ x, y int }
	var cells []cell
	for x := 0; x < s.cfg.Width; x += s.grid.colPitch {
		for y := 0; y < s.cfg.Height; y += s.grid.rowPitch {
			cells = append(cells, cell{x, y})
		}
	}

	glowing := make(map[cell]bool, s.cfg.Glow)
	for i := 0; i < s.cfg.Glow; i++ {
		glowing[cells[s.rng.Intn(len(cells))]] = true
	}

	for _, c := range cells {
		b := dim
		if glowing[c] {
			b = bright
		}
		s.cv.Paste(s.set.Random(s.rng), b, c.x, c.y)
	}
}

// Run advances every dropper once per frame in fixed order, snapshots the
// canvas after each frame and returns the accumulated frame sequence. The
// optional onFrame callback is invoked with the index of each completed
// frame. Run stops early with the context error if ctx is cancelled.
//
// All snapshots are held in memory until Run returns: usage scales linearly
// with frame count times canvas size.
func (s *Sim) Run(ctx context.Context, onFrame func(frame int)) ([]*image.RGBA, error) {
	frames := make([]*image.RGBA, 0, s.cfg.Frames)
	for i := 0; i < s.cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, d := range s.droppers {
			d.Drop(s.rng)
		}
		frames = append(frames, s.cv.Snapshot())
		if onFrame != nil {
			onFrame(i)
		}
	}
	return frames, nil
}
