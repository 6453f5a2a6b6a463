package index_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/eak1mov/go-tilesheet/index"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func repeated(n int, v uint32) index.Sequence {
	seq := make(index.Sequence, n)
	for i := range seq {
		seq[i] = v
	}
	return seq
}

func TestWriteAllReadAll(t *testing.T) {
	seq := index.Sequence{1, 2, 3, 1, 0x01020304}

	var buffer bytes.Buffer
	require.NoError(t, index.WriteAll(seq, &buffer))
	require.Equal(t, []byte{1, 0, 0, 0}, buffer.Bytes()[:4])
	require.Equal(t, []byte{4, 3, 2, 1}, buffer.Bytes()[16:])

	got, err := index.ReadAll(buffer.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(seq, got); diff != "" {
		t.Errorf("ReadAll mismatch (-want +got):\n%s", diff)
	}

	_, err = index.ReadAll([]byte{1, 0, 0})
	require.Truef(t, errors.Is(err, index.ErrFormat), "%v", err)
}

func TestEncode(t *testing.T) {
	require.Equal(t, "AQAAAAIAAAADAAAAAQAAAA==", index.Encode(index.Sequence{1, 2, 3, 1}))
	require.Equal(t, "", index.Encode(index.Sequence{}))
}

func TestEncodeDecode(t *testing.T) {
	seqCases := []struct {
		Name string
		Seq  index.Sequence
	}{
		{Name: "Quadrants", Seq: index.Sequence{1, 2, 3, 1}},
		{Name: "Repeat", Seq: repeated(4096, 7)},
		{Name: "Large", Seq: index.Sequence{1, 65536, 1 << 31}},
		{Name: "UniformBytes", Seq: repeated(25125, 0x2a2a2a2a)},
	}
	compressionCases := []struct {
		Name        string
		Compression index.Compression
	}{
		{Name: "None", Compression: index.CompressionNone},
		{Name: "Gzip", Compression: index.CompressionGzip},
	}
	for _, sc := range seqCases {
		for _, cc := range compressionCases {
			t.Run(sc.Name+cc.Name, func(t *testing.T) {
				text, err := index.EncodeCompressed(sc.Seq, cc.Compression)
				require.NoError(t, err)

				got, err := index.Decode(text, index.EncodingBase64, cc.Compression.String())
				require.NoError(t, err)
				if diff := cmp.Diff(sc.Seq, got); diff != "" {
					t.Errorf("Decode mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestDecodeWhitespace(t *testing.T) {
	got, err := index.Decode("\n   AQAAAAIA\n\tAAADAAAA AQAAAA==\n", index.EncodingBase64, "")
	require.NoError(t, err)
	require.Equal(t, index.Sequence{1, 2, 3, 1}, got)
}

func TestDecodeErrors(t *testing.T) {
	valid := index.Encode(index.Sequence{1, 2})
	testCases := []struct {
		Name        string
		Text        string
		Encoding    string
		Compression string
	}{
		{Name: "CSV", Text: "1,2", Encoding: "csv"},
		{Name: "NoEncoding", Text: valid, Encoding: ""},
		{Name: "Zlib", Text: valid, Encoding: index.EncodingBase64, Compression: "zlib"},
		{Name: "Zstd", Text: valid, Encoding: index.EncodingBase64, Compression: "zstd"},
		{Name: "BadBase64", Text: "!!!!", Encoding: index.EncodingBase64},
		{Name: "BadLength", Text: base64.StdEncoding.EncodeToString([]byte{1, 2, 3}), Encoding: index.EncodingBase64},
		{Name: "NotGzip", Text: valid, Encoding: index.EncodingBase64, Compression: "gzip"},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := index.Decode(tc.Text, tc.Encoding, tc.Compression)
			require.Truef(t, errors.Is(err, index.ErrFormat), "%v", err)
		})
	}
}

func TestValidate(t *testing.T) {
	seq := index.Sequence{1, 2, 3, 1}
	require.NoError(t, seq.Validate(3))
	require.ErrorIs(t, seq.Validate(2), index.ErrFormat)
	require.ErrorIs(t, index.Sequence{0}.Validate(3), index.ErrFormat)
	require.NoError(t, index.Sequence{}.Validate(0))
}

func TestEncodeCompressedUniformMap(t *testing.T) {
	// a map made of a single tile: every cell is index 1
	seq := repeated(512*512, 1)

	text, err := index.EncodeCompressed(seq, index.CompressionGzip)
	require.NoError(t, err)
	require.Less(t, len(text), len(index.Encode(seq))/10)

	got, err := index.Decode(text, index.EncodingBase64, "gzip")
	require.NoError(t, err)
	if diff := cmp.Diff(seq, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}
