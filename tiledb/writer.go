package tiledb

import (
	"bytes"
	"database/sql"
	"errors"
	"log/slog"
	"maps"
	"slices"

	"github.com/eak1mov/go-tilesheet/index"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/tile"
)

const schema = `
	CREATE TABLE metadata (name TEXT PRIMARY KEY, value TEXT);
	CREATE TABLE tiles (
		tile_index INTEGER,
		tile_data BLOB
	);
	CREATE TABLE layers (
		name TEXT PRIMARY KEY,
		encoding TEXT,
		compression TEXT,
		data TEXT
	);
`

// Writer implements tile.Writer interface for a tile database.
//
// Everything is written in a single transaction committed by Finalize;
// closing a Writer that was not finalized leaves the database empty.
type Writer struct {
	db     *sql.DB
	tx     *sql.Tx
	stmt   *sql.Stmt
	logger *slog.Logger
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new Writer for a tile database file, which must not
// exist yet.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	w := &Writer{db: db, logger: config.Logger}

	if err := w.init(config.Metadata); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	return w, nil
}

func (w *Writer) init(metadata map[string]string) (err error) {
	if w.tx, err = w.db.Begin(); err != nil {
		return err
	}
	if _, err := w.tx.Exec(schema); err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(metadata)) {
		if _, err := w.tx.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", name, metadata[name]); err != nil {
			return err
		}
	}

	w.stmt, err = w.tx.Prepare("INSERT INTO tiles (tile_index, tile_data) VALUES (?, ?)")
	return err
}

// Close releases the database, rolling back anything not finalized.
func (w *Writer) Close() error {
	var errs []error
	if w.stmt != nil {
		errs = append(errs, w.stmt.Close())
	}
	if w.tx != nil {
		w.logger.Debug("tilesheet: rolling back unfinalized database")
		errs = append(errs, w.tx.Rollback())
	}
	errs = append(errs, w.db.Close())
	return errors.Join(errs...)
}

// WriteTile stores the tile as a PNG blob.
func (w *Writer) WriteTile(tileIndex int, t tile.Tile) error {
	m := raster.New(t.Size, t.Size)
	m.CopyTile(t, 0, 0)

	var buffer bytes.Buffer
	if err := raster.Encode(&buffer, m, raster.FormatPNG); err != nil {
		return err
	}

	_, err := w.stmt.Exec(tileIndex, buffer.Bytes())
	return err
}

// WriteLayer stores an encoded index sequence under the given layer name.
func (w *Writer) WriteLayer(name string, seq index.Sequence, compression index.Compression) error {
	data, err := index.EncodeCompressed(seq, compression)
	if err != nil {
		return err
	}
	_, err = w.tx.Exec("INSERT INTO layers (name, encoding, compression, data) VALUES (?, ?, ?, ?)",
		name, index.EncodingBase64, compression.String(), data)
	return err
}

// Finalize indexes the tiles and commits. On error nothing is committed.
func (w *Writer) Finalize() error {
	w.logger.Debug("tilesheet: creating index")
	if _, err := w.tx.Exec("CREATE UNIQUE INDEX tiles_index ON tiles (tile_index)"); err != nil {
		return err
	}
	tx := w.tx
	w.tx = nil
	if err := tx.Commit(); err != nil {
		return err
	}

	w.logger.Debug("tilesheet: database committed")
	return nil
}
