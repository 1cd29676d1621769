// Package anim encodes a finished frame sequence into a looping animated
// GIF. The only contract the simulation cares about is: ordered frames plus
// a per-frame duration in, one infinitely-looping artifact out.
//
// GIF frames are limited to 256 colors, so the encoder builds one shared
// palette for the whole sequence: sampled frame pixels are k-means clustered
// into palette entries, sorted darkest-first so the black background maps to
// index 0. If clustering cannot produce a palette the encoder falls back to
// the standard Plan9 palette.
package anim

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/coleslaw481/patrix/pkg/errors"
)

const (
	// OutputName is the fixed name of the generated artifact.
	OutputName = "out.gif"

	// maxColors is the GIF palette size limit.
	maxColors = 256

	// sampleFrames caps how many frames feed the palette build.
	sampleFrames = 4
)

// EncodeGIF writes frames to w as an infinitely-looping GIF with the given
// inter-frame duration in milliseconds. An empty frame sequence is rejected
// with an EMPTY_FRAMES error; a non-positive duration with INVALID_CONFIG.
func EncodeGIF(w io.Writer, frames []*image.RGBA, durationMS int) error {
	if len(frames) == 0 {
		return errors.New(errors.ErrCodeEmptyFrames, "no frames to encode")
	}
	if durationMS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "frame duration must be positive, got %dms", durationMS)
	}

	pal := buildPalette(frames)
	delay := durationMS / 10 // GIF delays are in centiseconds

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0, // loop forever
	}
	for _, frame := range frames {
		out.Image = append(out.Image, quantize(frame, pal))
		out.Delay = append(out.Delay, delay)
	}

	if err := gif.EncodeAll(w, out); err != nil {
		return errors.Wrap(errors.ErrCodeOutput, err, "failed to encode GIF")
	}
	return nil
}

// WriteGIF encodes frames into outDir/out.gif, creating the directory if it
// does not exist. It returns the path of the written artifact.
func WriteGIF(outDir string, frames []*image.RGBA, durationMS int) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeOutput, err, "failed to create output directory %s", outDir)
	}

	path := filepath.Join(outDir, OutputName)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeOutput, err, "failed to create %s", path)
	}
	defer f.Close()

	if err := EncodeGIF(f, frames, durationMS); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeOutput, err, "failed to write %s", path)
	}
	return path, nil
}

// buildPalette derives a shared palette from a sample of the frame sequence.
// When the sampled frames hold few enough distinct colors they become the
// palette directly; otherwise k-means reduces them to maxColors entries.
func buildPalette(frames []*image.RGBA) color.Palette {
	uniq := sampleColors(frames)

	if len(uniq) <= maxColors {
		return sortDarkFirst(uniq)
	}

	obs := make(clusters.Observations, 0, len(uniq))
	for _, c := range uniq {
		obs = append(obs, clusters.Coordinates{
			float64(c.R) / 255.0,
			float64(c.G) / 255.0,
			float64(c.B) / 255.0,
		})
	}

	km := kmeans.New()
	parts, err := km.Partition(obs, maxColors)
	if err != nil || len(parts) == 0 {
		return palette.Plan9
	}

	pal := make([]color.RGBA, 0, len(parts))
	for _, cl := range parts {
		center := cl.Center
		pal = append(pal, color.RGBA{
			R: clamp8(center[0] * 255),
			G: clamp8(center[1] * 255),
			B: clamp8(center[2] * 255),
			A: 255,
		})
	}
	return sortDarkFirst(pal)
}

// sampleColors collects the distinct RGB values of up to sampleFrames frames
// spread across the sequence.
func sampleColors(frames []*image.RGBA) []color.RGBA {
	step := len(frames) / sampleFrames
	if step < 1 {
		step = 1
	}

	seen := make(map[color.RGBA]struct{})
	for i := 0; i < len(frames); i += step {
		b := frames[i].Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := frames[i].RGBAAt(x, y)
				c.A = 255
				seen[c] = struct{}{}
			}
		}
	}

	out := make([]color.RGBA, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	return out
}

// sortDarkFirst orders palette entries by linear luminance so index 0 is the
// darkest color, which for this generator is the black background.
func sortDarkFirst(cols []color.RGBA) color.Palette {
	slices.SortFunc(cols, func(a, b color.RGBA) int {
		la, lb := luminance(a), luminance(b)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		default:
			return 0
		}
	})
	pal := make(color.Palette, 0, len(cols))
	for _, c := range cols {
		pal = append(pal, c)
	}
	return pal
}

// luminance computes linear-light luminance of an sRGB color.
func luminance(c color.RGBA) float64 {
	col := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	r, g, b := col.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// quantize maps a frame onto the shared palette, memoizing index lookups so
// repeated colors pay the palette search once.
func quantize(frame *image.RGBA, pal color.Palette) *image.Paletted {
	b := frame.Bounds()
	out := image.NewPaletted(b, pal)
	memo := make(map[color.RGBA]uint8)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := frame.RGBAAt(x, y)
			c.A = 255
			idx, ok := memo[c]
			if !ok {
				idx = uint8(pal.Index(c))
				memo[c] = idx
			}
			out.SetColorIndex(x, y, idx)
		}
	}
	return out
}

// clamp8 converts a float channel value to uint8, saturating at the bounds.
func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
