package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/eak1mov/go-tilesheet/extract"
	"github.com/eak1mov/go-tilesheet/raster"
	"github.com/eak1mov/go-tilesheet/tiledir"
	"github.com/google/subcommands"
)

type assembleCmd struct {
	inputPath  string
	outputPath string
}

func (c *assembleCmd) Name() string     { return "assemble" }
func (c *assembleCmd) Synopsis() string { return "rebuild the original image from a map and its sheets" }
func (c *assembleCmd) Usage() string {
	return "tilesheet assemble -i <path.tmx> -o <image path>\n"
}
func (c *assembleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input .tmx path")
	f.StringVar(&c.outputPath, "o", "", "Output image path (.png, .bmp or .qoi)")
}

func (c *assembleCmd) run() error {
	if c.inputPath == "" || c.outputPath == "" {
		return fmt.Errorf("missing input or output path")
	}
	format, err := raster.FormatFromPath(c.outputPath)
	if err != nil {
		return err
	}

	img, err := extract.Assemble(c.inputPath)
	if err != nil {
		return err
	}

	return tiledir.WriteFileAtomic(c.outputPath, func(file *os.File) error {
		w := bufio.NewWriter(file)
		if err := raster.Encode(w, img, format); err != nil {
			return err
		}
		return w.Flush()
	})
}

func (c *assembleCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.run(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
