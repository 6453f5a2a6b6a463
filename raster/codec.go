package raster

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Format is an output image file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
	FormatQOI Format = "qoi"
)

var ErrUnknownFormat = errors.New("tilesheet: unknown image format")

// ParseFormat parses a format name such as "png".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatPNG, FormatBMP, FormatQOI:
		return f, nil
	case "":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath deduces the format from a file extension.
func FormatFromPath(filePath string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(filePath), "."))
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == "" {
		return string(FormatPNG)
	}
	return string(f)
}

// Encode writes the raster to w in the given format.
func Encode(w io.Writer, m *Image, format Format) error {
	img := m.ToImage()
	switch format {
	case FormatPNG, "":
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatQOI:
		return qoi.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode reads an image in any registered format (PNG, JPEG, GIF, WebP, BMP, QOI).
func Decode(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// DecodeFile opens and decodes the image at filePath.
func DecodeFile(filePath string) (*Image, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return m, nil
}
