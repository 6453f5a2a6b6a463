// Package extract splits a raster into unique tiles, an index sequence and
// atlas sheets, and writes the results as images, a TMX map and a tile
// database.
package extract

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/eak1mov/go-tilesheet/dedup"
	"github.com/eak1mov/go-tilesheet/index"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/sheet"
	"github.com/eak1mov/go-tilesheet/tile"
)

var (
	ErrConfiguration = errors.New("tilesheet: configuration error")
	ErrResource      = errors.New("tilesheet: resource error")
)

// Config holds extraction settings. Use options to change the defaults.
type Config struct {
	TileSize      int
	MinSheetWidth int
	MaxSheetWidth int
	QueueSize     int
	Dedup         []dedup.Option
	Progress      func(done, total int)
	Logger        *slog.Logger
}

type Option func(*Config)

// WithSheetWidths sets the range of atlas widths.
func WithSheetWidths(minWidth, maxWidth int) Option {
	return func(c *Config) {
		c.MinSheetWidth = minWidth
		c.MaxSheetWidth = maxWidth
	}
}

// WithQueue scans tiles in a separate goroutine feeding a queue of size n.
func WithQueue(n int) Option {
	return func(c *Config) { c.QueueSize = n }
}

// WithDedup passes options to the unique tile set.
func WithDedup(opts ...dedup.Option) Option {
	return func(c *Config) { c.Dedup = append(c.Dedup, opts...) }
}

// WithProgress sets a callback invoked after every band of tile rows with
// the number of bands done and the total number of bands.
func WithProgress(progress func(done, total int)) Option {
	return func(c *Config) { c.Progress = progress }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

func newConfig(tileSize int, opts []Option) Config {
	config := Config{
		TileSize:      tileSize,
		MinSheetWidth: sheet.DefaultMinWidth,
		MaxSheetWidth: sheet.DefaultMaxWidth,
		Logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// Validate checks the configuration against the image to be processed.
func (c *Config) Validate(img *raster.Image) error {
	if err := raster.Validate(img, c.TileSize); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if _, err := sheet.Specs(c.TileSize, c.MinSheetWidth, c.MaxSheetWidth); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("%w: queue size must not be negative, got %d", ErrConfiguration, c.QueueSize)
	}
	return nil
}

// Result is the outcome of an extraction. It is read-only.
type Result struct {
	TileSize      int
	TilesWidth    int
	TilesHeight   int
	MinSheetWidth int
	MaxSheetWidth int

	// Tiles are the unique tiles; Indices[i] is the 1-based index into Tiles
	// of grid cell i in row-major order.
	Tiles   []tile.Tile
	Indices index.Sequence

	logger *slog.Logger
}

type candidate struct {
	cell raster.Cell
	tile tile.Tile
}

// Extract splits img into tiles of tileSize and deduplicates them.
func Extract(img *raster.Image, tileSize int, opts ...Option) (*Result, error) {
	config := newConfig(tileSize, opts)
	if err := config.Validate(img); err != nil {
		return nil, err
	}

	tiles, err := raster.Scan(img, tileSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	result := &Result{
		TileSize:      tileSize,
		TilesWidth:    img.Width / tileSize,
		TilesHeight:   img.Height / tileSize,
		MinSheetWidth: config.MinSheetWidth,
		MaxSheetWidth: config.MaxSheetWidth,
		logger:        config.Logger,
	}
	result.Indices = make(index.Sequence, 0, result.TilesWidth*result.TilesHeight)

	config.Logger.Debug("tilesheet: extracting unique tiles",
		"width", img.Width, "height", img.Height, "tileSize", tileSize)

	set := dedup.New(config.Dedup...)
	admit := func(c raster.Cell, t tile.Tile) {
		result.Indices = append(result.Indices, uint32(set.Admit(t)))
		if c.X == result.TilesWidth-1 && config.Progress != nil {
			config.Progress(c.Y+1, result.TilesHeight)
		}
	}

	if config.QueueSize > 0 {
		queue := make(chan candidate, config.QueueSize)
		go func() {
			defer close(queue)
			for c, t := range tiles {
				queue <- candidate{c, t}
			}
		}()
		for c := range queue {
			admit(c.cell, c.tile)
		}
	} else {
		for c, t := range tiles {
			admit(c, t)
		}
	}

	result.Tiles = set.Tiles()

	config.Logger.Debug("tilesheet: extraction done",
		"cells", len(result.Indices), "unique", len(result.Tiles))
	return result, nil
}

// VisitTiles implements tile.Visitor. Indices are 0-based.
func (r *Result) VisitTiles(visitor func(int, tile.Tile) error) error {
	for i, t := range r.Tiles {
		if err := visitor(i, t); err != nil {
			return err
		}
	}
	return nil
}

// Sheets plans the atlases and assigns the unique tiles to them.
func (r *Result) Sheets() ([]sheet.Assignment, error) {
	widths, err := sheet.Plan(len(r.Tiles), r.TileSize, r.MinSheetWidth, r.MaxSheetWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return sheet.Assign(r.Tiles, widths, r.TileSize), nil
}

// Reconstruct rebuilds the source image from the unique tiles.
func (r *Result) Reconstruct() (*raster.Image, error) {
	return Reconstruct(r.Indices, r.Tiles, r.TilesWidth, r.TilesHeight, r.TileSize)
}

// Reconstruct places tiles[indices[i]-1] at every grid cell i.
func Reconstruct(indices index.Sequence, tiles []tile.Tile, tilesWidth, tilesHeight, tileSize int) (*raster.Image, error) {
	if len(indices) != tilesWidth*tilesHeight {
		return nil, fmt.Errorf("%w: %d indices for a %dx%d grid", index.ErrFormat, len(indices), tilesWidth, tilesHeight)
	}
	if err := indices.Validate(len(tiles)); err != nil {
		return nil, err
	}

	m := raster.New(tilesWidth*tileSize, tilesHeight*tileSize)
	for i, v := range indices {
		x, y := i%tilesWidth, i/tilesWidth
		m.CopyTile(tiles[v-1], x*tileSize, y*tileSize)
	}
	return m, nil
}
