// Package raster provides an RGB raster type, slicing of rasters into tile
// candidates and image file codecs.
package raster

import (
	"image"
	"image/color"

	"github.com/eak1mov/go-tilesheet/tile"
	xdraw "golang.org/x/image/draw"
)

// Image is a decoded RGB raster. Pix holds Height rows of Width pixels,
// three bytes per pixel, row-major.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// New returns a black raster of the given size.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*tile.Channels),
	}
}

// NewFilled returns a raster of the given size filled with a single color.
func NewFilled(width, height int, r, g, b byte) *Image {
	m := New(width, height)
	for i := 0; i < len(m.Pix); i += tile.Channels {
		m.Pix[i+0] = r
		m.Pix[i+1] = g
		m.Pix[i+2] = b
	}
	return m
}

// Stride returns the number of bytes in a single raster row.
func (m *Image) Stride() int {
	return m.Width * tile.Channels
}

// PixOffset returns the index in Pix of the first byte of pixel (x, y).
func (m *Image) PixOffset(x, y int) int {
	return y*m.Stride() + x*tile.Channels
}

// Row returns the pixel bytes of row y. The returned slice aliases Pix.
func (m *Image) Row(y int) []byte {
	s := m.Stride()
	return m.Pix[y*s : (y+1)*s]
}

// Equal reports whether both rasters have the same size and pixels.
func (m *Image) Equal(other *Image) bool {
	if m.Width != other.Width || m.Height != other.Height {
		return false
	}
	return string(m.Pix) == string(other.Pix)
}

// CopyTile copies the tile t into the raster with its top-left corner at (x, y).
// Parts of the tile falling outside the raster are clipped.
func (m *Image) CopyTile(t tile.Tile, x, y int) {
	for ty := 0; ty < t.Size && y+ty < m.Height; ty++ {
		w := min(t.Size, m.Width-x)
		if w <= 0 {
			return
		}
		start := m.PixOffset(x, y+ty)
		copy(m.Pix[start:start+w*tile.Channels], t.Row(ty)[:w*tile.Channels])
	}
}

// FromImage converts any image to an RGB raster. Alpha is discarded.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(nrgba, nrgba.Bounds(), src, b.Min, xdraw.Src)
	}

	m := New(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		srcRow := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+m.Width*4]
		dstRow := m.Row(y)
		for x := 0; x < m.Width; x++ {
			copy(dstRow[x*3:x*3+3], srcRow[x*4:x*4+3])
		}
	}
	return m
}

// ToImage converts the raster into an opaque image.NRGBA.
func (m *Image) ToImage() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		srcRow := m.Row(y)
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < m.Width; x++ {
			copy(dstRow[x*4:x*4+3], srcRow[x*3:x*3+3])
			dstRow[x*4+3] = 0xff
		}
	}
	return dst
}

// ColorModel, Bounds and At make Image usable as an image.Image.
func (m *Image) ColorModel() color.Model { return color.RGBAModel }

func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

func (m *Image) At(x, y int) color.Color {
	if !image.Pt(x, y).In(m.Bounds()) {
		return color.RGBA{}
	}
	i := m.PixOffset(x, y)
	return color.RGBA{m.Pix[i], m.Pix[i+1], m.Pix[i+2], 0xff}
}
