package main

import (
	"path/filepath"
	"strings"
)

// deduceGroup returns the group name and output folder used when they are
// not given: the input file name without extension, and a directory of that
// name next to the input.
func deduceGroup(group, outFolder, inputPath string) (string, string) {
	base := filepath.Base(inputPath)
	if group == "" {
		group = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if outFolder == "" {
		outFolder = filepath.Join(filepath.Dir(inputPath), strings.TrimSuffix(base, filepath.Ext(base)))
	}
	return group, outFolder
}
