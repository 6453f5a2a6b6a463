package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/eak1mov/go-tilesheet/extract"
	"github.com/eak1mov/go-tilesheet/index"
	"github.com/eak1mov/go-tilesheet/tiledb"
	"github.com/google/subcommands"
)

type indicesCmd struct {
	inputPath string
	layerName string
	perLine   int
}

func (c *indicesCmd) Name() string     { return "indices" }
func (c *indicesCmd) Synopsis() string { return "print the tile indices stored in a map or database" }
func (c *indicesCmd) Usage() string {
	return "tilesheet indices -i <path.tmx|path.db> [-layer <name> -n <per line>]\n"
}
func (c *indicesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input .tmx or .db path")
	f.StringVar(&c.layerName, "layer", "", "Layer name for databases (default: input file name)")
	f.IntVar(&c.perLine, "n", 0, "Indices per output line (default: map width)")
}

func (c *indicesCmd) read() (index.Sequence, int, error) {
	if strings.EqualFold(filepath.Ext(c.inputPath), ".db") {
		name := c.layerName
		if name == "" {
			name, _ = deduceGroup("", "", c.inputPath)
		}
		reader, err := tiledb.NewReader(c.inputPath)
		if err != nil {
			return nil, 0, err
		}
		defer reader.Close()
		seq, err := reader.ReadLayer(name)
		return seq, 0, err
	}

	m, err := extract.ReadMap(c.inputPath)
	if err != nil {
		return nil, 0, err
	}
	seq, err := m.Indices()
	return seq, m.Width, err
}

func (c *indicesCmd) run() error {
	if c.inputPath == "" {
		return fmt.Errorf("missing input path")
	}
	seq, width, err := c.read()
	if err != nil {
		return err
	}
	if c.perLine > 0 {
		width = c.perLine
	}
	if width <= 0 {
		width = len(seq)
	}

	var sb strings.Builder
	for i, v := range seq {
		if i > 0 {
			if i%width == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprint(&sb, v)
	}
	fmt.Println(sb.String())
	return nil
}

func (c *indicesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.run(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
