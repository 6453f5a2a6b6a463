package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/eak1mov/go-tilesheet/dedup"
	"github.com/eak1mov/go-tilesheet/extract"
	"github.com/eak1mov/go-tilesheet/index"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/sheet"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

type extractCmd struct {
	inputPath string
	outFolder string
	groupName string
	tileSize  int
	minWidth  int
	maxWidth  int
	mode      string
	format    string
	gzip      bool
	database  bool
	queue     int
	workers   int
	verbose   bool
}

func (c *extractCmd) Name() string     { return "extract" }
func (c *extractCmd) Synopsis() string { return "extract unique tiles, tile sheets and a TMX map from an image" }
func (c *extractCmd) Usage() string {
	return "tilesheet extract -i <path> [-o <dir> -g <name> -s <size> -mode sheets|tiles -f png|bmp|qoi]\n"
}
func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input image path")
	f.StringVar(&c.outFolder, "o", "", "Output directory (default: directory named after the input)")
	f.StringVar(&c.groupName, "g", "", "Output file prefix (default: input file name)")
	f.IntVar(&c.tileSize, "s", 32, "Tile size in pixels")
	f.IntVar(&c.minWidth, "min", sheet.DefaultMinWidth, "Minimum sheet width (power of two)")
	f.IntVar(&c.maxWidth, "max", sheet.DefaultMaxWidth, "Maximum sheet width (power of two)")
	f.StringVar(&c.mode, "mode", "sheets", "Output mode (sheets, tiles)")
	f.StringVar(&c.format, "f", "png", "Output image format (png, bmp, qoi)")
	f.BoolVar(&c.gzip, "gzip", false, "Gzip-compress the map layer data")
	f.BoolVar(&c.database, "db", false, "Also write unique tiles and indices to <name>.db")
	f.IntVar(&c.queue, "queue", 0, "Scan tiles concurrently through a queue of this size")
	f.IntVar(&c.workers, "workers", 0, "Compare tiles with a linear scan split across workers")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func (c *extractCmd) run() error {
	if c.inputPath == "" {
		return fmt.Errorf("missing input path")
	}
	if c.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	format, err := raster.ParseFormat(c.format)
	if err != nil {
		return err
	}
	compression := index.CompressionNone
	if c.gzip {
		compression = index.CompressionGzip
	}
	groupName, outFolder := deduceGroup(c.groupName, c.outFolder, c.inputPath)

	img, err := raster.DecodeFile(c.inputPath)
	if err != nil {
		return fmt.Errorf("%w: %w", extract.ErrResource, err)
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionSetDescription("extracting"), progressbar.OptionShowCount())
	opts := []extract.Option{
		extract.WithSheetWidths(c.minWidth, c.maxWidth),
		extract.WithQueue(c.queue),
		extract.WithLogger(slog.Default()),
		extract.WithProgress(func(done, total int) {
			bar.ChangeMax(total)
			bar.Set(done)
		}),
	}
	if c.workers > 0 {
		opts = append(opts, extract.WithDedup(dedup.WithWorkers(c.workers)))
	}

	result, err := extract.Extract(img, c.tileSize, opts...)
	bar.Finish()
	fmt.Println()
	if err != nil {
		return err
	}

	outputOpts := []extract.OutputOption{
		extract.WithFormat(format),
		extract.WithCompression(compression),
	}

	switch c.mode {
	case "sheets":
		if err := result.WriteSheets(outFolder, groupName, outputOpts...); err != nil {
			return err
		}
		if err := result.WriteMap(outFolder, groupName, outputOpts...); err != nil {
			return err
		}
	case "tiles":
		if err := result.WriteTiles(outFolder, groupName, outputOpts...); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid mode: %q", c.mode)
	}

	if c.database {
		if err := result.WriteDatabase(outFolder, groupName, outputOpts...); err != nil {
			return err
		}
	}

	log.Printf("%d cells, %d unique tiles written to %s", len(result.Indices), len(result.Tiles), outFolder)
	return nil
}

func (c *extractCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.run(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
