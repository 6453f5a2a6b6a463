// Package dedup maintains an insertion-ordered set of unique tiles.
//
// Tiles are identified by exact pixel equality. By default candidates are
// looked up through a content digest; tiles sharing a digest are still
// compared byte by byte, in insertion order, so the first inserted equal tile
// always wins. WithLinearScan selects a plain scan over all unique tiles.
package dedup

import (
	"sync"

	"github.com/eak1mov/go-tilesheet/tile"
)

// Set is the ordered set of unique tiles. The zero value is not usable;
// use New.
type Set struct {
	tiles   []tile.Tile
	buckets map[[16]byte][]int // digest -> 0-based tile indices, ascending
	linear  bool
	workers int
}

type config struct {
	linear  bool
	workers int
}

type Option func(*config)

// WithLinearScan compares each candidate against every unique tile in
// insertion order instead of using digest buckets.
func WithLinearScan() Option {
	return func(c *config) { c.linear = true }
}

// WithWorkers splits the linear scan across n goroutines. It implies
// WithLinearScan. Values below 2 keep the scan sequential.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.linear = true
		c.workers = n
	}
}

func New(opts ...Option) *Set {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	s := &Set{linear: c.linear, workers: c.workers}
	if !s.linear {
		s.buckets = make(map[[16]byte][]int)
	}
	return s
}

// Admit returns the 1-based index of the first unique tile equal to t.
// If there is none, t is appended to the set and its new index is returned.
// The set keeps t; the caller must not modify its pixels afterwards.
func (s *Set) Admit(t tile.Tile) int {
	if s.linear {
		if i := s.find(t); i >= 0 {
			return i + 1
		}
		s.tiles = append(s.tiles, t)
		return len(s.tiles)
	}

	digest := t.Digest()
	for _, i := range s.buckets[digest] {
		if s.tiles[i].Equal(t) {
			return i + 1
		}
	}
	s.buckets[digest] = append(s.buckets[digest], len(s.tiles))
	s.tiles = append(s.tiles, t)
	return len(s.tiles)
}

// Len returns the number of unique tiles.
func (s *Set) Len() int {
	return len(s.tiles)
}

// Tile returns the unique tile with the given 1-based index.
func (s *Set) Tile(index int) tile.Tile {
	return s.tiles[index-1]
}

// Tiles returns the unique tiles in insertion order.
// The returned slice must not be modified.
func (s *Set) Tiles() []tile.Tile {
	return s.tiles
}

// VisitTiles implements tile.Visitor. Indices are 0-based.
func (s *Set) VisitTiles(visitor func(int, tile.Tile) error) error {
	for i, t := range s.tiles {
		if err := visitor(i, t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Set) find(t tile.Tile) int {
	n := len(s.tiles)
	if s.workers < 2 || n < 2*s.workers {
		return scan(s.tiles, t, 0, n)
	}

	// Each worker reports the first match in its own chunk; chunks are
	// ordered, so the smallest reported index is the first match overall.
	chunk := (n + s.workers - 1) / s.workers
	results := make([]int, s.workers)
	var wg sync.WaitGroup
	for w := range s.workers {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		results[w] = -1
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[w] = scan(s.tiles, t, lo, hi)
		}()
	}
	wg.Wait()

	for _, r := range results {
		if r >= 0 {
			return r
		}
	}
	return -1
}

func scan(tiles []tile.Tile, t tile.Tile, lo, hi int) int {
	for i := lo; i < hi; i++ {
		if tiles[i].Equal(t) {
			return i
		}
	}
	return -1
}
