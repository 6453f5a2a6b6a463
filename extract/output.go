package extract

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/eak1mov/go-tilesheet/index"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/sheet"
	"github.com/eak1mov/go-tilesheet/tile"
	"github.com/eak1mov/go-tilesheet/tiledb"
	"github.com/eak1mov/go-tilesheet/tiledir"
	"github.com/eak1mov/go-tilesheet/tmx"
)

type outputConfig struct {
	Format      raster.Format
	Compression index.Compression
}

type OutputOption func(*outputConfig)

// WithFormat sets the image format of sheet and tile files.
func WithFormat(format raster.Format) OutputOption {
	return func(c *outputConfig) { c.Format = format }
}

// WithCompression sets the compression of encoded index layers.
func WithCompression(compression index.Compression) OutputOption {
	return func(c *outputConfig) { c.Compression = compression }
}

func newOutputConfig(opts []OutputOption) outputConfig {
	config := outputConfig{
		Format:      raster.FormatPNG,
		Compression: index.CompressionNone,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

func checkOutputDir(outFolder string) error {
	if err := os.MkdirAll(outFolder, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	return nil
}

// WriteSheets writes one atlas image per planned sheet, named
// "<groupName>_<n>.<ext>".
func (r *Result) WriteSheets(outFolder, groupName string, opts ...OutputOption) error {
	config := newOutputConfig(opts)

	sheets, err := r.Sheets()
	if err != nil {
		return err
	}
	if err := checkOutputDir(outFolder); err != nil {
		return err
	}

	writer, err := tiledir.NewWriter(tiledir.Pattern(outFolder, groupName, config.Format.Ext()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	for _, s := range sheets {
		capacity := sheet.Capacity(s.Width, r.TileSize)
		r.logger.Info("tilesheet: creating tile sheet",
			"width", s.Width, "tiles", len(s.Tiles), "used", len(s.Tiles)*100/capacity)

		if err := writer.WriteImage(s.Index, sheet.Layout(s.Tiles, s.Width, r.TileSize)); err != nil {
			return fmt.Errorf("%w: %w", ErrResource, err)
		}
	}
	return nil
}

// WriteTiles writes every unique tile to its own image file, named
// "<groupName>_<n>.<ext>" with n counting from 0.
func (r *Result) WriteTiles(outFolder, groupName string, opts ...OutputOption) error {
	config := newOutputConfig(opts)

	if err := checkOutputDir(outFolder); err != nil {
		return err
	}

	writer, err := tiledir.NewWriter(tiledir.Pattern(outFolder, groupName, config.Format.Ext()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	r.logger.Info("tilesheet: writing unique tiles", "count", len(r.Tiles), "dir", outFolder)
	if err := tile.CopyTiles(writer, r); err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	return nil
}

// Map builds the TMX document describing the sheets written by WriteSheets.
func (r *Result) Map(groupName string, opts ...OutputOption) (*tmx.Map, error) {
	config := newOutputConfig(opts)

	sheets, err := r.Sheets()
	if err != nil {
		return nil, err
	}

	data, err := index.EncodeCompressed(r.Indices, config.Compression)
	if err != nil {
		return nil, err
	}

	params := tmx.Params{
		Name:        groupName,
		TilesWidth:  r.TilesWidth,
		TilesHeight: r.TilesHeight,
		TileSize:    r.TileSize,
		Data:        data,
		Compression: config.Compression.String(),
	}
	for _, s := range sheets {
		name := groupName + "_" + strconv.Itoa(s.Index)
		params.Sheets = append(params.Sheets, tmx.Sheet{
			FirstGID: s.FirstGID,
			Name:     name,
			Source:   name + "." + config.Format.Ext(),
			Width:    s.Width,
		})
	}
	return tmx.New(params), nil
}

// WriteMap writes "<groupName>.tmx" into outFolder.
func (r *Result) WriteMap(outFolder, groupName string, opts ...OutputOption) error {
	m, err := r.Map(groupName, opts...)
	if err != nil {
		return err
	}
	if err := checkOutputDir(outFolder); err != nil {
		return err
	}

	filePath := filepath.Join(outFolder, groupName+".tmx")
	r.logger.Info("tilesheet: creating map", "path", filePath)

	err = tiledir.WriteFileAtomic(filePath, func(file *os.File) error {
		writer := bufio.NewWriter(file)
		if err := m.Encode(writer); err != nil {
			return err
		}
		return writer.Flush()
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	return nil
}

// WriteDatabase writes the unique tiles and the index layer to
// "<groupName>.db" in outFolder, replacing an existing file.
func (r *Result) WriteDatabase(outFolder, groupName string, opts ...OutputOption) (err error) {
	config := newOutputConfig(opts)

	if err := checkOutputDir(outFolder); err != nil {
		return err
	}

	filePath := filepath.Join(outFolder, groupName+".db")
	tempPath := filePath + ".tmp"
	if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tempPath)
		}
	}()

	writer, err := tiledb.NewWriter(tempPath,
		tiledb.WithLogger(r.logger),
		tiledb.WithMetadata(map[string]string{
			"name":         groupName,
			"tile_size":    strconv.Itoa(r.TileSize),
			"tiles_width":  strconv.Itoa(r.TilesWidth),
			"tiles_height": strconv.Itoa(r.TilesHeight),
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}

	err = r.writeDatabase(writer, groupName, config.Compression)
	if closeErr := writer.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: %w", ErrResource, closeErr)
	}
	if err != nil {
		return err
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	return nil
}

func (r *Result) writeDatabase(writer *tiledb.Writer, groupName string, compression index.Compression) error {
	for i, t := range r.Tiles {
		if err := writer.WriteTile(i, t); err != nil {
			return fmt.Errorf("%w: %w", ErrResource, err)
		}
	}
	if err := writer.WriteLayer(groupName, r.Indices, compression); err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("%w: %w", ErrResource, err)
	}
	return nil
}
