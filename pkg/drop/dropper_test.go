package drop

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/coleslaw481/patrix/pkg/canvas"
	"github.com/coleslaw481/patrix/pkg/tiles"
)

// testSet builds a tile set of solid-color squares.
func testSet(t *testing.T, size int, colors ...color.RGBA) *tiles.Set {
	t.Helper()
	imgs := make([]image.Image, 0, len(colors))
	for _, c := range colors {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		imgs = append(imgs, img)
	}
	set, err := tiles.NewSet(imgs)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return set
}

func newTestDropper(t *testing.T, canvasW, canvasH int) *Dropper {
	t.Helper()
	set := testSet(t, 8,
		color.RGBA{R: 200, A: 255},
		color.RGBA{G: 200, A: 255},
	)
	g, err := NewGrid(canvasW, canvasH, 8, 8, 0, 0)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return NewDropper(canvas.New(canvasW, canvasH), g, set)
}

func TestDropperStartsUnset(t *testing.T) {
	d := newTestDropper(t, 64, 128)
	if d.at.active {
		t.Error("new dropper should be unset")
	}
	if len(d.history) != 0 {
		t.Errorf("new dropper history length = %d, want 0", len(d.history))
	}
}

func TestDropActivatesAndAdvances(t *testing.T) {
	d := newTestDropper(t, 64, 128)
	rng := rand.New(rand.NewSource(3))

	d.Drop(rng)
	if !d.at.active {
		t.Fatal("dropper should be active after first drop")
	}
	if len(d.history) != 1 {
		t.Errorf("history length after first drop = %d, want 1", len(d.history))
	}

	before := d.at.y
	d.Drop(rng)
	if got := d.at.y - before; got != d.grid.rowPitch {
		t.Errorf("vertical advance = %d, want %d", got, d.grid.rowPitch)
	}
}

func TestHistoryNeverExceedsTrailLen(t *testing.T) {
	d := newTestDropper(t, 64, 256)
	rng := rand.New(rand.NewSource(4))

	for i := 0; i < 200; i++ {
		d.Drop(rng)
		if len(d.history) > TrailLen {
			t.Fatalf("history length %d exceeds cap %d after %d drops", len(d.history), TrailLen, i+1)
		}
	}
}

func TestResetClearsHistory(t *testing.T) {
	d := newTestDropper(t, 64, 128)
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 3; i++ {
		d.Drop(rng)
	}
	d.Reset()

	if d.at.active {
		t.Error("dropper should be unset after Reset")
	}
	if len(d.history) != 0 {
		t.Errorf("history length after Reset = %d, want 0", len(d.history))
	}

	// The next drop relocates and composites a trail of exactly one tile.
	d.Drop(rng)
	if !d.at.active {
		t.Error("dropper should be active after post-Reset drop")
	}
	if len(d.history) != 1 {
		t.Errorf("history length after post-Reset drop = %d, want 1", len(d.history))
	}
}

func TestOverflowForcesRelocation(t *testing.T) {
	d := newTestDropper(t, 64, 128)
	rng := rand.New(rand.NewSource(6))

	// Drive the dropper until it falls off the bottom and resets.
	d.Drop(rng)
	overflowed := false
	for i := 0; i < 100; i++ {
		d.Drop(rng)
		if !d.at.active {
			overflowed = true
			break
		}
	}
	if !overflowed {
		t.Fatal("dropper never overflowed the canvas bottom")
	}

	// Relocation on the following drop starts a fresh single-tile trail.
	d.Drop(rng)
	if !d.at.active {
		t.Error("dropper should relocate on the drop after overflow")
	}
	if len(d.history) != 1 {
		t.Errorf("history length after relocation = %d, want 1", len(d.history))
	}
}

func TestDropPaintsCanvas(t *testing.T) {
	set := testSet(t, 8, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	g, err := NewGrid(8, 128, 8, 8, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	cv := canvas.New(8, 128)
	d := NewDropper(cv, g, set)
	rng := rand.New(rand.NewSource(7))

	d.Drop(rng)

	// Single column, so the tile landed at x=0 at some row anchor; the
	// newest trail entry paints at full brightness.
	snap := cv.Snapshot()
	found := false
	for y := 0; y < 128 && !found; y++ {
		if snap.RGBAAt(0, y).R == 200 {
			found = true
		}
	}
	if !found {
		t.Error("no full-brightness pixel found after drop")
	}
}
