// Package index encodes and decodes tile index sequences.
//
// A sequence holds one 1-based unique tile index per grid cell in row-major
// order. It is packed as little-endian uint32 values and transported as
// base64 text, optionally gzip-compressed before encoding.
package index

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sequence is an ordered list of 1-based tile indices.
type Sequence []uint32

var ErrFormat = errors.New("tilesheet: invalid index data")

const (
	EncodingBase64 = "base64"
)

// WriteAll packs every index as a little-endian uint32.
func WriteAll(seq Sequence, writer io.Writer) error {
	return binary.Write(writer, binary.LittleEndian, []uint32(seq))
}

// ReadAll unpacks little-endian uint32 values.
func ReadAll(data []byte) (Sequence, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrFormat, len(data))
	}
	seq := make(Sequence, len(data)/4)

	err := binary.Read(bytes.NewReader(data), binary.LittleEndian, []uint32(seq))
	if err != nil {
		return nil, err
	}

	return seq, nil
}

func pack(seq Sequence) []byte {
	buffer := make([]byte, 0, len(seq)*4)
	for _, v := range seq {
		buffer = binary.LittleEndian.AppendUint32(buffer, v)
	}
	return buffer
}

// Encode returns the base64 text of the packed sequence.
func Encode(seq Sequence) string {
	return base64.StdEncoding.EncodeToString(pack(seq))
}

// EncodeCompressed compresses the packed sequence before base64 encoding.
func EncodeCompressed(seq Sequence, compression Compression) (string, error) {
	data, err := Compress(pack(seq), compression)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode reverses Encode and EncodeCompressed. The encoding must be "base64";
// the compression must be "gzip" or empty. Whitespace in text is ignored.
func Decode(text, encoding, compression string) (Sequence, error) {
	if encoding != EncodingBase64 {
		return nil, fmt.Errorf("%w: encoding %q, expected %q", ErrFormat, encoding, EncodingBase64)
	}
	c, err := ParseCompression(compression)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(stripSpace(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	data, err = Decompress(data, c)
	if err != nil {
		return nil, err
	}

	return ReadAll(data)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// Validate checks that every index lies in [1, tileCount].
func (seq Sequence) Validate(tileCount int) error {
	for i, v := range seq {
		if v < 1 || int64(v) > int64(tileCount) {
			return fmt.Errorf("%w: index %d at cell %d is out of range [1, %d]", ErrFormat, v, i, tileCount)
		}
	}
	return nil
}
