package sheet_test

import (
	"testing"

	"github.com/eak1mov/go-tilesheet/internal"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/sheet"
	"github.com/eak1mov/go-tilesheet/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSpecs(t *testing.T) {
	specs, err := sheet.Specs(32, 64, 512)
	require.NoError(t, err)
	want := []sheet.Spec{
		{Width: 512, Capacity: 256},
		{Width: 256, Capacity: 64},
		{Width: 128, Capacity: 16},
		{Width: 64, Capacity: 4},
	}
	if diff := cmp.Diff(want, specs); diff != "" {
		t.Errorf("Specs mismatch (-want +got):\n%s", diff)
	}

	specs, err = sheet.Specs(100, 64, 512)
	require.NoError(t, err)
	if diff := cmp.Diff([]sheet.Spec{{Width: 512, Capacity: 25}, {Width: 256, Capacity: 4}, {Width: 128, Capacity: 1}}, specs); diff != "" {
		t.Errorf("Specs with large tiles mismatch (-want +got):\n%s", diff)
	}
}

func TestSpecsErrors(t *testing.T) {
	testCases := []struct {
		Name     string
		TileSize int
		Min      int
		Max      int
	}{
		{Name: "NotPowerOfTwo", TileSize: 32, Min: 64, Max: 500},
		{Name: "MinAboveMax", TileSize: 32, Min: 512, Max: 64},
		{Name: "ZeroMin", TileSize: 32, Min: 0, Max: 64},
		{Name: "TileTooLarge", TileSize: 1024, Min: 64, Max: 512},
		{Name: "ZeroTile", TileSize: 0, Min: 64, Max: 512},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := sheet.Specs(tc.TileSize, tc.Min, tc.Max)
			require.ErrorIs(t, err, sheet.ErrInvalidWidth)
			_, err = sheet.Plan(10, tc.TileSize, tc.Min, tc.Max)
			require.ErrorIs(t, err, sheet.ErrInvalidWidth)
		})
	}
}

func TestPlan(t *testing.T) {
	testCases := []struct {
		Count int
		Want  []int
	}{
		{Count: 0, Want: []int{}},
		{Count: 1, Want: []int{64}},
		{Count: 3, Want: []int{64}},
		{Count: 4, Want: []int{64}},
		{Count: 5, Want: []int{128}},
		{Count: 64, Want: []int{256}},
		{Count: 256, Want: []int{512}},
		{Count: 257, Want: []int{512, 64}},
		{Count: 300, Want: []int{512, 256}},
		{Count: 560, Want: []int{512, 512, 256}},
		{Count: 600, Want: []int{512, 512, 512}},
	}
	for _, tc := range testCases {
		got, err := sheet.Plan(tc.Count, 32, 64, 512)
		require.NoError(t, err)
		if diff := cmp.Diff(tc.Want, got); diff != "" {
			t.Errorf("Plan(%d) mismatch (-want +got):\n%s", tc.Count, diff)
		}
	}
}

func TestPlanCoverage(t *testing.T) {
	for _, tileSize := range []int{8, 16, 32, 48} {
		for count := 0; count < 2000; count += 7 {
			widths, err := sheet.Plan(count, tileSize, 64, 512)
			require.NoError(t, err)

			total := 0
			for i, w := range widths {
				capacity := sheet.Capacity(w, tileSize)
				if i < len(widths)-1 {
					require.Equal(t, sheet.Capacity(512, tileSize), capacity, "only the last sheet may be smaller")
				}
				total += capacity
			}
			require.GreaterOrEqual(t, total, count)
			if len(widths) > 0 {
				last := sheet.Capacity(widths[len(widths)-1], tileSize)
				require.Less(t, total-last, count, "count=%d tileSize=%d", count, tileSize)
			}
		}
	}
}

func TestAssign(t *testing.T) {
	tiles := internal.RandomTiles(t, 7, 32, 3)
	assignments := sheet.Assign(tiles, []int{64, 64}, 32)

	require.Len(t, assignments, 2)
	require.Equal(t, 0, assignments[0].Index)
	require.Equal(t, 1, assignments[0].FirstGID)
	require.Len(t, assignments[0].Tiles, 4)
	require.Equal(t, 1, assignments[1].Index)
	require.Equal(t, 5, assignments[1].FirstGID)
	require.Len(t, assignments[1].Tiles, 3)
	require.True(t, assignments[1].Tiles[0].Equal(tiles[4]))
}

func TestLayout(t *testing.T) {
	red := internal.SolidTile(2, internal.Red)
	green := internal.SolidTile(2, internal.Green)
	blue := internal.SolidTile(2, internal.Blue)

	m := sheet.Layout([]tile.Tile{red, green, blue}, 4, 2)
	require.Equal(t, 4, m.Width)
	require.Equal(t, 4, m.Height)
	require.True(t, raster.Extract(m, 0, 0, 2).Equal(red))
	require.True(t, raster.Extract(m, 2, 0, 2).Equal(green))
	require.True(t, raster.Extract(m, 0, 2, 2).Equal(blue))
	require.True(t, raster.Extract(m, 2, 2, 2).Equal(internal.SolidTile(2, internal.White)))

	again := sheet.Layout([]tile.Tile{red, green, blue}, 4, 2)
	require.True(t, m.Equal(again))
}

func TestLayoutWhiteMargin(t *testing.T) {
	// 64 / 48 leaves a 16 pixel margin
	tl := internal.SolidTile(48, internal.Blue)
	m := sheet.Layout([]tile.Tile{tl}, 64, 48)
	require.Equal(t, []byte{0xff, 0xff, 0xff}, m.Pix[m.PixOffset(63, 63):m.PixOffset(63, 63)+3])
	require.Equal(t, []byte{0, 0, 0xff}, m.Pix[m.PixOffset(47, 47):m.PixOffset(47, 47)+3])
}

func TestUnpack(t *testing.T) {
	tiles := internal.RandomTiles(t, 10, 8, 4)
	m := sheet.Layout(tiles, 32, 8)

	if diff := cmp.Diff(tiles, sheet.Unpack(m, 8, len(tiles))); diff != "" {
		t.Errorf("Unpack mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, sheet.Unpack(m, 8, 100), 16)
	require.Empty(t, sheet.Unpack(m, 8, -1))
}
