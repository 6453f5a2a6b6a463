// Package tiledb provides API for storing unique tiles and index layers in a
// SQLite database.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package tiledb

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-tilesheet/index"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/tile"
)

var ErrNotFound = errors.New("tilesheet: not found")

// Reader implements tile.Reader and tile.Visitor interfaces for a tile database.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader creates a new Reader for the given database file path.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT tile_data FROM tiles WHERE tile_index = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

func decodeTile(tileData []byte) (tile.Tile, error) {
	m, err := raster.Decode(bytes.NewReader(tileData))
	if err != nil {
		return tile.Tile{}, err
	}
	if m.Width != m.Height {
		return tile.Tile{}, fmt.Errorf("tilesheet: stored tile is %dx%d, expected a square", m.Width, m.Height)
	}
	return raster.Extract(m, 0, 0, m.Width), nil
}

func (r *Reader) ReadTile(tileIndex int) (tile.Tile, error) {
	var tileData []byte
	if err := r.stmt.QueryRow(tileIndex).Scan(&tileData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tile.Tile{}, fmt.Errorf("%w: tile %d", ErrNotFound, tileIndex)
		}
		return tile.Tile{}, err
	}
	return decodeTile(tileData)
}

func (r *Reader) VisitTiles(visitor func(int, tile.Tile) error) error {
	rows, err := r.db.Query("SELECT tile_index, tile_data FROM tiles ORDER BY tile_index")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var tileIndex int
		var tileData []byte

		if err := rows.Scan(&tileIndex, &tileData); err != nil {
			return err
		}

		t, err := decodeTile(tileData)
		if err != nil {
			return err
		}

		if err := visitor(tileIndex, t); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}

// ReadLayer decodes the index sequence stored under the given layer name.
func (r *Reader) ReadLayer(name string) (index.Sequence, error) {
	var encoding, compression, data string
	err := r.db.QueryRow("SELECT encoding, compression, data FROM layers WHERE name = ?", name).
		Scan(&encoding, &compression, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: layer %q", ErrNotFound, name)
		}
		return nil, err
	}
	return index.Decode(data, encoding, compression)
}
