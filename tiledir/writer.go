package tiledir

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/tile"
)

// Writer implements tile.Writer interface for numbered image files.
type Writer struct {
	filePattern string
	format      raster.Format
}

// NewWriter creates a new Writer for the given file pattern (e.g. "/out/onett_{n}.png").
// The image format is deduced from the pattern's extension.
func NewWriter(filePattern string) (*Writer, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}
	format, err := raster.FormatFromPath(filePattern)
	if err != nil {
		return nil, err
	}
	return &Writer{filePattern, format}, nil
}

// Path returns the file path of image n.
func (w *Writer) Path(n int) string {
	return formatPattern(w.filePattern, n)
}

// WriteImage encodes m as image number n.
func (w *Writer) WriteImage(n int, m *raster.Image) error {
	filePath := w.Path(n)

	dirPath := filepath.Dir(filePath)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return err
	}

	return WriteFileAtomic(filePath, func(file *os.File) error {
		bw := bufio.NewWriter(file)
		if err := raster.Encode(bw, m, w.format); err != nil {
			return err
		}
		return bw.Flush()
	})
}

func (w *Writer) WriteTile(index int, t tile.Tile) error {
	m := raster.New(t.Size, t.Size)
	m.CopyTile(t, 0, 0)
	return w.WriteImage(index, m)
}

func (w *Writer) Finalize() error {
	return nil
}

// WriteFileAtomic writes a file through a temporary file in the same
// directory, renamed into place only after write succeeded.
func WriteFileAtomic(filePath string, write func(*os.File) error) (err error) {
	file, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	if err = write(file); err != nil {
		return err
	}
	if err = file.Chmod(0644); err != nil {
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	return os.Rename(file.Name(), filePath)
}
