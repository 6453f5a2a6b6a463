package extract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-tilesheet/extract"
	"github.com/eak1mov/go-tilesheet/index"
	"github.com/eak1mov/go-tilesheet/internal"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/tmx"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	unique := internal.RandomTiles(t, 21, 16, 9)
	order := make([]int, 0, 8*6)
	for i := range cap(order) {
		order = append(order, (i*5)%len(unique))
	}
	img := internal.Mosaic(unique, order, 8, 6, 16)

	testCases := []struct {
		Name        string
		Format      raster.Format
		Compression index.Compression
		MaxWidth    int
	}{
		{Name: "OneSheet", Format: raster.FormatPNG, Compression: index.CompressionNone, MaxWidth: 512},
		{Name: "ManySheets", Format: raster.FormatQOI, Compression: index.CompressionGzip, MaxWidth: 64},
		{Name: "Bitmap", Format: raster.FormatBMP, Compression: index.CompressionNone, MaxWidth: 32},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			outFolder := t.TempDir()
			result, err := extract.Extract(img, 16, extract.WithSheetWidths(32, tc.MaxWidth))
			require.NoError(t, err)

			opts := []extract.OutputOption{extract.WithFormat(tc.Format), extract.WithCompression(tc.Compression)}
			require.NoError(t, result.WriteSheets(outFolder, "g", opts...))
			require.NoError(t, result.WriteMap(outFolder, "g", opts...))

			got, err := extract.Assemble(filepath.Join(outFolder, "g.tmx"))
			require.NoError(t, err)
			require.True(t, got.Equal(img))
		})
	}
}

func TestAssembleErrors(t *testing.T) {
	_, err := extract.Assemble(filepath.Join(t.TempDir(), "missing.tmx"))
	require.ErrorIs(t, err, extract.ErrResource)

	outFolder := t.TempDir()
	result, err := extract.Extract(internal.Quadrants(32), 32)
	require.NoError(t, err)
	require.NoError(t, result.WriteMap(outFolder, "q"))

	// map without its sheet images
	_, err = extract.Assemble(filepath.Join(outFolder, "q.tmx"))
	require.ErrorIs(t, err, extract.ErrResource)

	// tilesets with a gap
	m, err := result.Map("q")
	require.NoError(t, err)
	m.Tilesets[0].FirstGID = 2
	writeMap(t, filepath.Join(outFolder, "gap.tmx"), m)
	_, err = extract.Assemble(filepath.Join(outFolder, "gap.tmx"))
	require.ErrorIs(t, err, tmx.ErrFormat)

	// rectangular tiles
	m, err = result.Map("q")
	require.NoError(t, err)
	m.TileHeight = 16
	writeMap(t, filepath.Join(outFolder, "rect.tmx"), m)
	_, err = extract.Assemble(filepath.Join(outFolder, "rect.tmx"))
	require.ErrorIs(t, err, tmx.ErrFormat)
}

func writeMap(t *testing.T, filePath string, m *tmx.Map) {
	t.Helper()
	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, m.Encode(file))
}
