package index

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

type Compression uint8

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionGzip
)

// Level 9 in klauspost/compress v1.18.1 corrupts long single-byte runs.
const gzipLevel = gzip.DefaultCompression

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return ""
	case CompressionGzip:
		return "gzip"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression maps a declared compression attribute to a Compression.
// Only gzip and no compression are supported.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "":
		return CompressionNone, nil
	case "gzip":
		return CompressionGzip, nil
	default:
		return CompressionUnknown, fmt.Errorf("%w: compression %q, expected \"gzip\" or none", ErrFormat, name)
	}
}

func (c Compression) check() error {
	if c != CompressionNone && c != CompressionGzip {
		return fmt.Errorf("%w: compression not supported (%v)", ErrFormat, c)
	}
	return nil
}

// Compress returns packed index data compressed with c.
func Compress(data []byte, c Compression) ([]byte, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if c == CompressionNone {
		return data, nil
	}

	var buffer bytes.Buffer
	buffer.Grow(len(data)/4 + 64)

	writer, err := gzip.NewWriterLevel(&buffer, gzipLevel)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("gzip layer data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("gzip layer data: %w", err)
	}
	return buffer.Bytes(), nil
}

// Decompress reverses Compress. Corrupted streams fail with ErrFormat.
func Decompress(data []byte, c Compression) ([]byte, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if c == CompressionNone {
		return data, nil
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gunzip layer data: %w", ErrFormat, err)
	}
	defer reader.Close()

	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: gunzip layer data: %w", ErrFormat, err)
	}
	return result, nil
}
