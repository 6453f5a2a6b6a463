// Package internal holds image fixtures shared by the package tests.
package internal

import (
	"math/rand/v2"
	"testing"

	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/tile"
)

var (
	Red   = [3]byte{0xff, 0x00, 0x00}
	Green = [3]byte{0x00, 0xff, 0x00}
	Blue  = [3]byte{0x00, 0x00, 0xff}
	White = [3]byte{0xff, 0xff, 0xff}
)

// SolidTile returns a tile filled with a single color.
func SolidTile(size int, c [3]byte) tile.Tile {
	t := tile.New(size)
	for i := 0; i < len(t.Pix); i += tile.Channels {
		copy(t.Pix[i:], c[:])
	}
	return t
}

// Quadrants returns a 2*tileSize square image split into red, green, blue
// and red quadrants in row-major order.
func Quadrants(tileSize int) *raster.Image {
	m := raster.New(2*tileSize, 2*tileSize)
	m.CopyTile(SolidTile(tileSize, Red), 0, 0)
	m.CopyTile(SolidTile(tileSize, Green), tileSize, 0)
	m.CopyTile(SolidTile(tileSize, Blue), 0, tileSize)
	m.CopyTile(SolidTile(tileSize, Red), tileSize, tileSize)
	return m
}

// RandomTiles returns count distinct tiles with random pixels.
func RandomTiles(t *testing.T, count, size int, seed uint64) []tile.Tile {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	tiles := make([]tile.Tile, 0, count)
	seen := make(map[[16]byte]bool)
	for len(tiles) < count {
		next := tile.New(size)
		for i := range next.Pix {
			next.Pix[i] = byte(rng.UintN(256))
		}
		if digest := next.Digest(); !seen[digest] {
			seen[digest] = true
			tiles = append(tiles, next)
		}
	}
	return tiles
}

// Mosaic lays tiles out as a tilesWidth by tilesHeight grid, picking tiles by
// the 0-based positions in order.
func Mosaic(tiles []tile.Tile, order []int, tilesWidth, tilesHeight, tileSize int) *raster.Image {
	m := raster.New(tilesWidth*tileSize, tilesHeight*tileSize)
	for i, n := range order {
		m.CopyTile(tiles[n], (i%tilesWidth)*tileSize, (i/tilesWidth)*tileSize)
	}
	return m
}
