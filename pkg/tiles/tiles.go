// Package tiles loads the tile images that seed the drop simulation.
//
// A tile directory is scanned non-recursively for PNG files. Every matching
// file contributes four entries to the resulting set: the image itself plus
// its 90, 180 and 270 degree rotations. All tiles are assumed to share the
// same square dimensions; this is not enforced, matching the generator's
// contract that dimension mismatches are the caller's problem.
package tiles

import (
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/coleslaw481/patrix/pkg/errors"
)

// Set is an ordered, non-empty collection of tile images.
// Tiles are read-only once loaded and shared by reference across droppers.
type Set struct {
	tiles []image.Image
}

// Load scans dir for PNG files and returns a Set containing each image and
// its three rotation variants. Entries that are directories or that do not
// carry a .png extension are ignored.
//
// It returns a TILE_DIR error if the directory cannot be read and an
// EMPTY_TILE_SET error if no usable tiles are found.
func Load(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTileDir, err, "failed to read tile directory %s", dir)
	}

	var imgs []image.Image
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".png") {
			continue
		}
		img, err := imaging.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeTileDir, err, "failed to load tile %s", entry.Name())
		}
		imgs = append(imgs,
			img,
			imaging.Rotate90(img),
			imaging.Rotate180(img),
			imaging.Rotate270(img),
		)
	}

	if len(imgs) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTileSet, "no usable tile images in %s", dir)
	}
	return &Set{tiles: imgs}, nil
}

// NewSet wraps a pre-built slice of tile images.
// It returns an EMPTY_TILE_SET error for an empty slice.
func NewSet(imgs []image.Image) (*Set, error) {
	if len(imgs) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTileSet, "tile set cannot be empty")
	}
	return &Set{tiles: imgs}, nil
}

// Len returns the number of tiles, rotation variants included.
func (s *Set) Len() int {
	return len(s.tiles)
}

// Random returns a uniformly random tile drawn from rng.
func (s *Set) Random(rng *rand.Rand) image.Image {
	return s.tiles[rng.Intn(len(s.tiles))]
}

// TileSize returns the dimensions of the first tile. The whole set is
// assumed to share them.
func (s *Set) TileSize() (w, h int) {
	b := s.tiles[0].Bounds()
	return b.Dx(), b.Dy()
}
