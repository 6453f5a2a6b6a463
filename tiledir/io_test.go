package tiledir_test

import (
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-tilesheet/internal"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/tile"
	"github.com/eak1mov/go-tilesheet/tiledir"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestWriterReader(t *testing.T) {
	for _, ext := range []string{"png", "bmp", "qoi"} {
		t.Run(ext, func(t *testing.T) {
			rootDir := t.TempDir()
			pattern := tiledir.Pattern(filepath.Join(rootDir, "out"), "onett", ext)

			unique := internal.RandomTiles(t, 12, 4, 5)
			tiles := make(map[int]tile.Tile)
			for i, tl := range unique {
				tiles[i] = tl
			}

			writer, err := tiledir.NewWriter(pattern)
			if err != nil {
				t.Fatalf("NewWriter failed: %v", err)
			}
			for i, tl := range unique {
				if err := writer.WriteTile(i, tl); err != nil {
					t.Errorf("WriteTile(%v) failed: %v", i, err)
				}
			}
			if err := writer.Finalize(); err != nil {
				t.Fatalf("Finalize failed: %v", err)
			}
			require.FileExists(t, filepath.Join(rootDir, "out", "onett_11."+ext))

			reader, err := tiledir.NewReader(pattern)
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}

			numbers, err := reader.Numbers()
			require.NoError(t, err)
			require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, numbers)

			if diff := cmp.Diff(tiles, maps.Collect(tile.IterTiles(reader))); diff != "" {
				t.Errorf("VisitTiles mismatch (-want +got):\n%s", diff)
			}

			got, err := reader.ReadTile(3)
			require.NoError(t, err)
			require.True(t, got.Equal(unique[3]))

			_, err = reader.ReadTile(99)
			require.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

func TestReaderIgnoresOtherFiles(t *testing.T) {
	rootDir := t.TempDir()
	writer, err := tiledir.NewWriter(tiledir.Pattern(rootDir, "a", "png"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteImage(2, raster.New(4, 2)))
	require.NoError(t, writer.WriteImage(10, raster.New(4, 2)))

	for _, name := range []string{"a_x.png", "a_1.bmp", "b_1.png", "a.tmx"} {
		require.NoError(t, os.WriteFile(filepath.Join(rootDir, name), nil, 0644))
	}

	reader, err := tiledir.NewReader(tiledir.Pattern(rootDir, "a", "png"))
	require.NoError(t, err)
	numbers, err := reader.Numbers()
	require.NoError(t, err)
	require.Equal(t, []int{2, 10}, numbers)

	var sizes []int
	err = reader.VisitImages(func(n int, m *raster.Image) error {
		sizes = append(sizes, m.Width*m.Height)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{8, 8}, sizes)

	// not square
	_, err = reader.ReadTile(2)
	require.Error(t, err)
}

func TestInvalidPattern(t *testing.T) {
	for _, pattern := range []string{
		"/out/tile.png",
		"/out/{n}_{n}.png",
		"/out/{n}/tile.png",
	} {
		_, err := tiledir.NewWriter(pattern)
		require.ErrorIs(t, err, tiledir.ErrInvalidPattern, pattern)
		_, err = tiledir.NewReader(pattern)
		require.ErrorIs(t, err, tiledir.ErrInvalidPattern, pattern)
	}

	_, err := tiledir.NewWriter("/out/tile_{n}.tiff")
	require.ErrorIs(t, err, raster.ErrUnknownFormat)
}

func TestWriteFileAtomic(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, tiledir.WriteFileAtomic(filePath, func(file *os.File) error {
		_, err := file.WriteString("hello")
		return err
	}))
	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	entries, err := os.ReadDir(filepath.Dir(filePath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
