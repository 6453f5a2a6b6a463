package raster

import (
	"errors"
	"fmt"
	"iter"

	"github.com/eak1mov/go-tilesheet/tile"
)

var ErrDimensions = errors.New("tilesheet: image size is not divisible by tile size")

// Cell is a grid position measured in tiles.
type Cell struct {
	X int
	Y int
}

// Grid returns the number of tile columns and rows of the raster.
func Grid(m *Image, tileSize int) (tilesWidth, tilesHeight int, err error) {
	if err := Validate(m, tileSize); err != nil {
		return 0, 0, err
	}
	return m.Width / tileSize, m.Height / tileSize, nil
}

// Validate checks that the raster can be split into whole tiles of tileSize.
func Validate(m *Image, tileSize int) error {
	if tileSize <= 0 {
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrDimensions, tileSize)
	}
	if m.Width%tileSize != 0 || m.Height%tileSize != 0 {
		return fmt.Errorf("%w: image is %dx%d, tile size is %d (remainder %dx%d)",
			ErrDimensions, m.Width, m.Height, tileSize, m.Width%tileSize, m.Height%tileSize)
	}
	return nil
}

// Scan returns a lazy sequence of tile candidates in row-major grid order:
// bands of tileSize rows from top to bottom, and within a band tiles from
// left to right. Every yielded tile owns its pixels.
func Scan(m *Image, tileSize int) (iter.Seq2[Cell, tile.Tile], error) {
	tilesWidth, tilesHeight, err := Grid(m, tileSize)
	if err != nil {
		return nil, err
	}
	return func(yield func(Cell, tile.Tile) bool) {
		for ty := range tilesHeight {
			for tx := range tilesWidth {
				if !yield(Cell{X: tx, Y: ty}, Extract(m, tx*tileSize, ty*tileSize, tileSize)) {
					return
				}
			}
		}
	}, nil
}

// Extract copies the tileSize square with its top-left corner at (x, y).
func Extract(m *Image, x, y, tileSize int) tile.Tile {
	t := tile.New(tileSize)
	stride := t.Stride()
	for row := range tileSize {
		start := m.PixOffset(x, y+row)
		copy(t.Row(row), m.Pix[start:start+stride])
	}
	return t
}
