package tile

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterTiles returns an iterator over all tiles of the visitor.
// It yields 0-based indices and tiles. Iteration may panic on unrecoverable errors.
func IterTiles(r Visitor) iter.Seq2[int, Tile] {
	return func(yield func(int, Tile) bool) {
		err := r.VisitTiles(func(index int, t Tile) error {
			if !yield(index, t) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}

// CopyTiles writes every tile of r to w and finalizes w.
func CopyTiles(w Writer, r Visitor) error {
	err := r.VisitTiles(func(index int, t Tile) error {
		return w.WriteTile(index, t)
	})
	if err != nil {
		return err
	}
	return w.Finalize()
}
