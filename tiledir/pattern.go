// Package tiledir provides API for reading and writing numbered images in a
// directory, where every image is stored as an individual file with a path
// like "/out/group_{n}.png".
package tiledir

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrInvalidPattern = errors.New("tilesheet: invalid file pattern")

const placeholder = "{n}"

// Pattern returns the file pattern "<dir>/<group>_{n}.<ext>".
func Pattern(dir, group, ext string) string {
	return filepath.Join(dir, group+"_"+placeholder+"."+ext)
}

func validatePattern(pattern string) error {
	if strings.Count(pattern, placeholder) != 1 {
		return fmt.Errorf("%w: placeholder %v must occur exactly once", ErrInvalidPattern, placeholder)
	}
	if strings.Contains(filepath.Dir(pattern), placeholder) {
		return fmt.Errorf("%w: placeholder %v must be in the file name", ErrInvalidPattern, placeholder)
	}
	return nil
}

func formatPattern(pattern string, n int) string {
	return strings.Replace(pattern, placeholder, strconv.Itoa(n), 1)
}
