// Package tile provides the tile type and common tile interfaces.
package tile

import (
	"bytes"
	"crypto/md5"
)

// Channels is the number of bytes per pixel (R, G, B).
const Channels = 3

// Tile is a square block of RGB pixels.
// Pix holds Size rows of Size pixels, three bytes per pixel, row-major.
type Tile struct {
	Size int
	Pix  []byte
}

// New returns an all-black tile of the given size.
func New(size int) Tile {
	return Tile{Size: size, Pix: make([]byte, size*size*Channels)}
}

// Stride returns the number of bytes in a single tile row.
func (t Tile) Stride() int {
	return t.Size * Channels
}

// Row returns the pixel bytes of row y. The returned slice aliases Pix.
func (t Tile) Row(y int) []byte {
	s := t.Stride()
	return t.Pix[y*s : (y+1)*s]
}

// Equal reports whether both tiles have the same size and identical pixels.
func (t Tile) Equal(other Tile) bool {
	return t.Size == other.Size && bytes.Equal(t.Pix, other.Pix)
}

// Digest returns the content digest used for hashed lookups.
func (t Tile) Digest() [16]byte {
	return md5.Sum(t.Pix)
}

// Clone returns a deep copy of the tile.
func (t Tile) Clone() Tile {
	return Tile{Size: t.Size, Pix: bytes.Clone(t.Pix)}
}

// Writer defines an interface for writing unique tiles to a storage.
type Writer interface {
	// WriteTile writes a single tile. Index is 0-based.
	WriteTile(index int, t Tile) error

	// Finalize completes the writing process.
	// It must be called before closing the Writer.
	Finalize() error
}

type Reader interface {
	// ReadTile reads a single tile by its 0-based index.
	ReadTile(index int) (Tile, error)
}

type Visitor interface {
	// VisitTiles visits all tiles in index order, calling the visitor for each.
	VisitTiles(visitor func(int, Tile) error) error
}
