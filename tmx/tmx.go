// Package tmx builds, writes and reads the TMX map description consumed by
// the Tiled map editor.
//
// Only the subset needed to describe one tile layer over a number of
// single-image tilesets is modelled.
package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/eak1mov/go-tilesheet/index"
)

var ErrFormat = errors.New("tilesheet: invalid map document")

type Map struct {
	XMLName      xml.Name  `xml:"map"`
	Version      string    `xml:"version,attr"`
	Orientation  string    `xml:"orientation,attr"`
	RenderOrder  string    `xml:"renderorder,attr"`
	Width        int       `xml:"width,attr"`
	Height       int       `xml:"height,attr"`
	TileWidth    int       `xml:"tilewidth,attr"`
	TileHeight   int       `xml:"tileheight,attr"`
	NextObjectID int       `xml:"nextobjectid,attr"`
	Tilesets     []Tileset `xml:"tileset"`
	Layers       []Layer   `xml:"layer"`
}

type Tileset struct {
	FirstGID   int    `xml:"firstgid,attr"`
	Name       string `xml:"name,attr"`
	TileWidth  int    `xml:"tilewidth,attr"`
	TileHeight int    `xml:"tileheight,attr"`
	Image      Image  `xml:"image"`
}

type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type Layer struct {
	Name   string `xml:"name,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Data   Data   `xml:"data"`
}

type Data struct {
	Encoding    string `xml:"encoding,attr,omitempty"`
	Compression string `xml:"compression,attr,omitempty"`
	Text        string `xml:",chardata"`
}

// Sheet describes one atlas image of the map.
type Sheet struct {
	FirstGID int
	Name     string
	Source   string
	Width    int
}

// Params is the plain data a map is built from.
type Params struct {
	Name        string
	TilesWidth  int
	TilesHeight int
	TileSize    int
	Sheets      []Sheet

	// Data is the encoded index sequence, Compression its declared compression.
	Data        string
	Compression string
}

// New builds a map with one tileset per sheet and a single layer.
func New(p Params) *Map {
	m := &Map{
		Version:      "1.0",
		Orientation:  "orthogonal",
		RenderOrder:  "right-down",
		Width:        p.TilesWidth,
		Height:       p.TilesHeight,
		TileWidth:    p.TileSize,
		TileHeight:   p.TileSize,
		NextObjectID: 1,
	}
	for _, s := range p.Sheets {
		m.Tilesets = append(m.Tilesets, Tileset{
			FirstGID:   s.FirstGID,
			Name:       s.Name,
			TileWidth:  p.TileSize,
			TileHeight: p.TileSize,
			Image:      Image{Source: s.Source, Width: s.Width, Height: s.Width},
		})
	}
	m.Layers = append(m.Layers, Layer{
		Name:   p.Name,
		Width:  p.TilesWidth,
		Height: p.TilesHeight,
		Data: Data{
			Encoding:    index.EncodingBase64,
			Compression: p.Compression,
			Text:        p.Data,
		},
	})
	return m
}

// Encode writes the map as UTF-8 XML indented with four spaces.
func (m *Map) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(m); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode parses a map document.
func Decode(r io.Reader) (*Map, error) {
	var m Map
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return &m, nil
}

// Indices decodes the tile indices of the layer.
func (l *Layer) Indices() (index.Sequence, error) {
	seq, err := index.Decode(l.Data.Text, l.Data.Encoding, l.Data.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: layer %q: %w", ErrFormat, l.Name, err)
	}
	return seq, nil
}

// Indices decodes every layer and concatenates the indices in layer order.
func (m *Map) Indices() (index.Sequence, error) {
	all := make(index.Sequence, 0)
	for i := range m.Layers {
		seq, err := m.Layers[i].Indices()
		if err != nil {
			return nil, err
		}
		all = append(all, seq...)
	}
	return all, nil
}

// TilesetFor returns the tileset owning the global tile id gid: the one with
// the greatest FirstGID not above gid.
func (m *Map) TilesetFor(gid uint32) (*Tileset, bool) {
	var found *Tileset
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		if uint32(ts.FirstGID) <= gid && (found == nil || ts.FirstGID > found.FirstGID) {
			found = ts
		}
	}
	return found, found != nil
}
