// Package sheet chooses square power-of-two atlas sizes for a number of
// unique tiles and lays tiles out on those atlases.
package sheet

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/tile"
)

const (
	DefaultMinWidth = 64
	DefaultMaxWidth = 512
)

var ErrInvalidWidth = errors.New("tilesheet: invalid sheet width")

// Spec is a candidate atlas: its square width in pixels and the number of
// tiles it holds.
type Spec struct {
	Width    int
	Capacity int
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// Specs returns the sheet table ordered from maxWidth down to minWidth,
// halving the width at every step. Sheets too small to hold a single tile
// are left out.
func Specs(tileSize, minWidth, maxWidth int) ([]Spec, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidWidth, tileSize)
	}
	if !isPowerOfTwo(minWidth) || !isPowerOfTwo(maxWidth) {
		return nil, fmt.Errorf("%w: widths must be powers of two, got min %d, max %d", ErrInvalidWidth, minWidth, maxWidth)
	}
	if minWidth > maxWidth {
		return nil, fmt.Errorf("%w: min width %d is greater than max width %d", ErrInvalidWidth, minWidth, maxWidth)
	}

	specs := make([]Spec, 0)
	for width := maxWidth; width >= minWidth; width >>= 1 {
		perRow := width / tileSize
		if perRow == 0 {
			break
		}
		specs = append(specs, Spec{Width: width, Capacity: perRow * perRow})
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: tile size %d does not fit into max width %d", ErrInvalidWidth, tileSize, maxWidth)
	}
	return specs, nil
}

// Plan returns the widths of the sheets needed to hold tileCount tiles.
//
// While tiles remain, a remainder larger than the biggest sheet takes the
// biggest sheet; otherwise the smallest sheet that still holds the whole
// remainder is taken. Only the last sheet can therefore be partially filled.
func Plan(tileCount, tileSize, minWidth, maxWidth int) ([]int, error) {
	specs, err := Specs(tileSize, minWidth, maxWidth)
	if err != nil {
		return nil, err
	}

	widths := make([]int, 0)
	for left := tileCount; left > 0; {
		chosen := choose(specs, left)
		left -= chosen.Capacity
		widths = append(widths, chosen.Width)
	}
	return widths, nil
}

func choose(specs []Spec, left int) Spec {
	if left > specs[0].Capacity {
		return specs[0]
	}
	chosen := specs[len(specs)-1]
	for _, spec := range specs {
		if spec.Capacity >= left {
			chosen = spec
		}
	}
	return chosen
}

// Capacity returns the number of tiles a sheet of the given width holds.
func Capacity(width, tileSize int) int {
	perRow := width / tileSize
	return perRow * perRow
}

// Assignment is a run of consecutive unique tiles placed on one sheet.
type Assignment struct {
	Index    int // 0-based sheet number
	Width    int
	FirstGID int // 1-based index of the first tile on the sheet
	Tiles    []tile.Tile
}

// Assign partitions tiles over the planned sheet widths.
func Assign(tiles []tile.Tile, widths []int, tileSize int) []Assignment {
	assignments := make([]Assignment, 0, len(widths))
	next := 0
	firstGID := 1
	for i, width := range widths {
		capacity := Capacity(width, tileSize)
		end := min(next+capacity, len(tiles))
		assignments = append(assignments, Assignment{
			Index:    i,
			Width:    width,
			FirstGID: firstGID,
			Tiles:    tiles[next:end],
		})
		next = end
		firstGID += capacity
	}
	return assignments
}

// Layout arranges tiles on a squareWidth by squareWidth sheet, left to right
// and top to bottom. Cells without a tile stay opaque white.
func Layout(tiles []tile.Tile, squareWidth, tileSize int) *raster.Image {
	m := raster.NewFilled(squareWidth, squareWidth, 0xff, 0xff, 0xff)
	perRow := squareWidth / tileSize
	if perRow == 0 {
		return m
	}
	for i, t := range tiles[:min(len(tiles), perRow*perRow)] {
		m.CopyTile(t, (i%perRow)*tileSize, (i/perRow)*tileSize)
	}
	return m
}

// Unpack reverses Layout: it returns the first count tiles of a sheet.
func Unpack(m *raster.Image, tileSize, count int) []tile.Tile {
	perRow := m.Width / tileSize
	count = max(0, min(count, perRow*(m.Height/tileSize)))
	tiles := make([]tile.Tile, 0, count)
	for i := range count {
		tiles = append(tiles, raster.Extract(m, (i%perRow)*tileSize, (i/perRow)*tileSize, tileSize))
	}
	return tiles
}
