package tiledir

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/tile"
	"github.com/maruel/natural"
)

// Reader reads numbered image files matching a file pattern.
type Reader struct {
	filePattern string
	rootDir     string
	nameRegexp  *regexp.Regexp
}

// NewReader creates a new Reader for the given file pattern (e.g. "/out/onett_{n}.png").
func NewReader(filePattern string) (*Reader, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}

	name := regexp.QuoteMeta(filepath.Base(filePattern))
	name = strings.Replace(name, regexp.QuoteMeta(placeholder), "(?P<n>\\d+)", 1)
	nameRegexp, err := regexp.Compile("^" + name + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return &Reader{filePattern, filepath.Dir(filePattern), nameRegexp}, nil
}

// ReadImage decodes image number n.
func (r *Reader) ReadImage(n int) (*raster.Image, error) {
	return raster.DecodeFile(formatPattern(r.filePattern, n))
}

// Numbers lists the numbers of all matching files in natural order.
func (r *Reader) Numbers() ([]int, error) {
	entries, err := os.ReadDir(r.rootDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() && r.nameRegexp.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	numbers := make([]int, 0, len(names))
	for _, name := range names {
		matches := r.nameRegexp.FindStringSubmatch(name)
		n, err := strconv.Atoi(matches[r.nameRegexp.SubexpIndex("n")])
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// VisitImages decodes all matching files in natural order.
func (r *Reader) VisitImages(visitor func(int, *raster.Image) error) error {
	numbers, err := r.Numbers()
	if err != nil {
		return err
	}
	for _, n := range numbers {
		m, err := r.ReadImage(n)
		if err != nil {
			return err
		}
		if err := visitor(n, m); err != nil {
			return err
		}
	}
	return nil
}

// ReadTile reads image number index as a square tile.
func (r *Reader) ReadTile(index int) (tile.Tile, error) {
	m, err := r.ReadImage(index)
	if err != nil {
		return tile.Tile{}, err
	}
	return toTile(m)
}

// VisitTiles implements tile.Visitor for directories written in per-tile mode.
func (r *Reader) VisitTiles(visitor func(int, tile.Tile) error) error {
	return r.VisitImages(func(n int, m *raster.Image) error {
		t, err := toTile(m)
		if err != nil {
			return err
		}
		return visitor(n, t)
	})
}

func toTile(m *raster.Image) (tile.Tile, error) {
	if m.Width != m.Height {
		return tile.Tile{}, fmt.Errorf("tilesheet: tile image is %dx%d, expected a square", m.Width, m.Height)
	}
	return raster.Extract(m, 0, 0, m.Width), nil
}
