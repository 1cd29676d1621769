// Package drop implements the tile-drop simulation: the anchor grid that
// constrains where tiles may land, the column dropper state machine that
// paints fading trails, and the driver that advances a pool of droppers to
// produce a frame sequence.
package drop

import (
	"math/rand"

	"github.com/coleslaw481/patrix/pkg/errors"
)

// brightnessCurve maps trail recency to a brightness factor: index 0 is the
// newest drop at full brightness, the last index the oldest still visible.
// The trailing-history cap and the row-anchor clearance both derive from its
// length, so the trail window and the fade table can never drift apart.
var brightnessCurve = [...]float64{1.0, 0.8, 0.6, 0.4, 0.2}

// TrailLen is the number of tiles visible in a fade trail.
const TrailLen = len(brightnessCurve)

// Grid holds the candidate drop anchor positions, computed once from the
// canvas size, tile size and separation parameters. Row anchors stop
// TrailLen row-pitches short of the canvas bottom so a full trail never
// needs to wrap.
type Grid struct {
	cols []int
	rows []int

	colPitch int // tile width plus column separation
	rowPitch int // tile height plus row separation
}

// NewGrid computes the anchor grid. It returns an INVALID_CONFIG error for
// degenerate dimensions and an EMPTY_ANCHOR_GRID error when the canvas is
// too small to hold a single column or a single row with trail clearance.
func NewGrid(canvasW, canvasH, tileW, tileH, colsep, rowsep int) (*Grid, error) {
	switch {
	case canvasW <= 0 || canvasH <= 0:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must be positive, got %dx%d", canvasW, canvasH)
	case tileW <= 0 || tileH <= 0:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "tile dimensions must be positive, got %dx%d", tileW, tileH)
	case colsep < 0 || rowsep < 0:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "separations must be non-negative, got colsep=%d rowsep=%d", colsep, rowsep)
	}

	g := &Grid{
		colPitch: tileW + colsep,
		rowPitch: tileH + rowsep,
	}

	for x := 0; x < canvasW; x += g.colPitch {
		g.cols = append(g.cols, x)
	}

	// Rows leave room for the full trail window below the anchor range.
	rowLimit := canvasH - TrailLen*g.rowPitch
	for y := 0; y < rowLimit; y += g.rowPitch {
		g.rows = append(g.rows, y)
	}

	if len(g.cols) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyAnchorGrid, "no column anchors fit canvas width %d with pitch %d", canvasW, g.colPitch)
	}
	if len(g.rows) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyAnchorGrid,
			"no row anchors: canvas height %d leaves no room above the %d-row trail clearance", canvasH, TrailLen)
	}
	return g, nil
}

// Cols returns the number of column anchors.
func (g *Grid) Cols() int { return len(g.cols) }

// Rows returns the number of row anchors.
func (g *Grid) Rows() int { return len(g.rows) }

// RandomCol picks a uniformly random column anchor.
func (g *Grid) RandomCol(rng *rand.Rand) int {
	return g.cols[rng.Intn(len(g.cols))]
}

// RandomRow picks a uniformly random row anchor.
func (g *Grid) RandomRow(rng *rand.Rand) int {
	return g.rows[rng.Intn(len(g.rows))]
}
