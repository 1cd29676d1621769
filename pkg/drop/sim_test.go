package drop

import (
	"bytes"
	"context"
	"image/color"
	"testing"

	"github.com/coleslaw481/patrix/pkg/errors"
)

func testConfig() Config {
	return Config{
		Width:    64,
		Height:   128,
		ColSep:   0,
		RowSep:   0,
		Droppers: 3,
		Frames:   10,
		Seed:     42,
	}
}

func TestNewValidation(t *testing.T) {
	set := testSet(t, 8, color.RGBA{R: 200, A: 255})

	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"zero droppers", func(c *Config) { c.Droppers = 0 }, errors.ErrCodeInvalidConfig},
		{"negative frames", func(c *Config) { c.Frames = -1 }, errors.ErrCodeInvalidConfig},
		{"negative glow", func(c *Config) { c.Glow = -5 }, errors.ErrCodeInvalidConfig},
		{"canvas too short for trail", func(c *Config) { c.Height = 40 }, errors.ErrCodeEmptyAnchorGrid},
		{"zero width", func(c *Config) { c.Width = 0 }, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := New(set, cfg)
			if !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunProducesRequestedFrames(t *testing.T) {
	set := testSet(t, 8, color.RGBA{R: 200, A: 255}, color.RGBA{B: 200, A: 255})
	sim, err := New(set, testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	frames, err := sim.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(frames) != 10 {
		t.Errorf("len(frames) = %d, want 10", len(frames))
	}
}

func TestRunZeroFrames(t *testing.T) {
	set := testSet(t, 8, color.RGBA{R: 200, A: 255})
	cfg := testConfig()
	cfg.Frames = 0

	sim, err := New(set, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	frames, err := sim.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("len(frames) = %d, want 0", len(frames))
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	set := testSet(t, 8, color.RGBA{R: 200, A: 255})
	sim, err := New(set, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sim.Run(ctx, nil); err != context.Canceled {
		t.Errorf("Run(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestRunInvokesFrameCallback(t *testing.T) {
	set := testSet(t, 8, color.RGBA{R: 200, A: 255})
	cfg := testConfig()
	cfg.Frames = 5

	sim, err := New(set, cfg)
	if err != nil {
		t.Fatal(err)
	}

	var seen []int
	if _, err := sim.Run(context.Background(), func(i int) { seen = append(seen, i) }); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 5 || seen[0] != 0 || seen[4] != 4 {
		t.Errorf("callback frames = %v, want [0 1 2 3 4]", seen)
	}
}

func TestSeededRunsAreIdentical(t *testing.T) {
	run := func() [][]byte {
		set := testSet(t, 8,
			color.RGBA{R: 200, A: 255},
			color.RGBA{G: 200, A: 255},
			color.RGBA{B: 200, A: 255},
		)
		cfg := testConfig()
		cfg.Prefill = true
		cfg.Glow = 4

		sim, err := New(set, cfg)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if cfg.Prefill {
			sim.Prefill()
		}
		frames, err := sim.Run(context.Background(), nil)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		pix := make([][]byte, len(frames))
		for i, f := range frames {
			pix[i] = f.Pix
		}
		return pix
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("frame counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			t.Fatalf("frame %d differs between identically seeded runs", i)
		}
	}
}

func TestPrefillPaintsEveryCell(t *testing.T) {
	set := testSet(t, 8, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	cfg := testConfig()
	cfg.Frames = 0
	cfg.Glow = 2

	sim, err := New(set, cfg)
	if err != nil {
		t.Fatal(err)
	}
	sim.Prefill()

	// Cells tile the whole canvas at grid pitch, so no pixel stays black:
	// every cell holds at least a dim (0.2) tile.
	snap := sim.cv.Snapshot()
	for _, pt := range [][2]int{{0, 0}, {30, 60}, {63, 127}} {
		if got := snap.RGBAAt(pt[0], pt[1]); got.R == 0 {
			t.Errorf("pixel (%d,%d) still black after prefill", pt[0], pt[1])
		}
	}
}
