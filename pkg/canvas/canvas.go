// Package canvas provides the shared raster buffer that tiles are
// composited onto, plus the brightness transform used for fade trails.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas is a fixed-size RGB raster buffer initialized to black.
// It is owned by the simulation driver and mutated sequentially by the
// droppers; it is never resized after creation. No locking: the simulation
// is strictly single-threaded.
type Canvas struct {
	img *image.RGBA
}

// New creates a w x h canvas filled with the black background.
func New(w, h int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return &Canvas{img: img}
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Paste applies the brightness factor to tile and overwrites the destination
// rectangle at (x, y). Pixels falling outside the canvas are silently
// clipped; partial off-canvas placement is normal during trail rendering.
func (c *Canvas) Paste(tile image.Image, brightness float64, x, y int) {
	lit := Brighten(tile, brightness)
	dst := lit.Bounds().Sub(lit.Bounds().Min).Add(image.Pt(x, y))
	draw.Draw(c.img, dst, lit, lit.Bounds().Min, draw.Src)
}

// Snapshot returns an independent copy of the current pixel contents.
// Later mutation of the canvas does not affect the returned image.
func (c *Canvas) Snapshot() *image.RGBA {
	dup := image.NewRGBA(c.img.Bounds())
	copy(dup.Pix, c.img.Pix)
	return dup
}

// Brighten returns a copy of img with every color channel scaled by factor.
// A factor of 0 yields black, 1 the unchanged image; factors above 1 are
// permitted and saturate at full intensity. The transform is pure: the
// source image is never modified.
func Brighten(img image.Image, factor float64) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			out.SetRGBA(x, y, color.RGBA{
				R: scaleChannel(c.R, factor),
				G: scaleChannel(c.G, factor),
				B: scaleChannel(c.B, factor),
				A: c.A,
			})
		}
	}
	return out
}

// scaleChannel multiplies a single 8-bit channel by factor, clamped to [0, 255].
func scaleChannel(v uint8, factor float64) uint8 {
	scaled := float64(v) * factor
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
