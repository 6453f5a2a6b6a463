package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/eak1mov/go-tilesheet/index"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/sheet"
	"github.com/eak1mov/go-tilesheet/tile"
	"github.com/eak1mov/go-tilesheet/tmx"
)

// ReadMap parses the TMX document at filePath.
func ReadMap(filePath string) (*tmx.Map, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResource, err)
	}
	defer file.Close()

	return tmx.Decode(file)
}

// Assemble rebuilds the full image described by the TMX document at
// filePath from the sheet images it references.
func Assemble(filePath string) (*raster.Image, error) {
	m, err := ReadMap(filePath)
	if err != nil {
		return nil, err
	}
	if len(m.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", tmx.ErrFormat)
	}
	if m.TileWidth != m.TileHeight || m.TileWidth <= 0 {
		return nil, fmt.Errorf("%w: tiles are %dx%d, expected a positive square", tmx.ErrFormat, m.TileWidth, m.TileHeight)
	}

	layer := &m.Layers[0]
	indices, err := layer.Indices()
	if err != nil {
		return nil, err
	}

	tiles, err := loadTilesets(m, filepath.Dir(filePath), indices)
	if err != nil {
		return nil, err
	}

	return Reconstruct(indices, tiles, layer.Width, layer.Height, m.TileWidth)
}

func loadTilesets(m *tmx.Map, dir string, indices index.Sequence) ([]tile.Tile, error) {
	maxIndex := 0
	for _, v := range indices {
		maxIndex = max(maxIndex, int(v))
	}

	tilesets := slices.Clone(m.Tilesets)
	slices.SortFunc(tilesets, func(a, b tmx.Tileset) int { return a.FirstGID - b.FirstGID })

	tiles := make([]tile.Tile, 0, maxIndex)
	for i, ts := range tilesets {
		if ts.FirstGID != len(tiles)+1 {
			return nil, fmt.Errorf("%w: tileset %q starts at %d, expected %d", tmx.ErrFormat, ts.Name, ts.FirstGID, len(tiles)+1)
		}

		count := maxIndex - len(tiles)
		if i+1 < len(tilesets) {
			count = tilesets[i+1].FirstGID - ts.FirstGID
		}
		if count <= 0 {
			break
		}

		img, err := raster.DecodeFile(filepath.Join(dir, ts.Image.Source))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResource, err)
		}
		tiles = append(tiles, sheet.Unpack(img, m.TileWidth, count)...)
	}
	return tiles, nil
}
