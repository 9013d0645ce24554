package blockzip

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompress_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte(`{"embedding": [0.25, 0.5, 0.75], "title": "repetitive json"}`), 64)

	for _, codec := range []Codec{None, LZ4, ZSTD} {
		packed, err := Compress(data, codec)
		require.NoError(t, err, codec.String())

		unpacked, err := Decompress(packed, codec)
		require.NoError(t, err, codec.String())
		assert.Equal(t, data, unpacked, codec.String())
	}
}

func TestCompress_RepetitiveShrinks(t *testing.T) {
	data := bytes.Repeat([]byte("0.125, "), 512)

	for _, codec := range []Codec{LZ4, ZSTD} {
		packed, err := Compress(data, codec)
		require.NoError(t, err, codec.String())
		assert.Less(t, len(packed), len(data), codec.String())
	}
}

func TestCompress_IncompressibleStoredVerbatim(t *testing.T) {
	// Pseudo-random bytes do not compress; the block falls back to the
	// verbatim form under the header and still round-trips.
	data := make([]byte, 1024)
	state := uint32(0x9e3779b9)
	for i := range data {
		state = state*1664525 + 1013904223
		data[i] = byte(state >> 24)
	}

	packed, err := Compress(data, LZ4)
	require.NoError(t, err)
	require.Len(t, packed, len(data)+headerSize)
	assert.Zero(t, binary.LittleEndian.Uint32(packed[4:]), "compressed size marker")

	unpacked, err := Decompress(packed, LZ4)
	require.NoError(t, err)
	assert.Equal(t, data, unpacked)
}

func TestCompress_EmptyPassesThrough(t *testing.T) {
	for _, codec := range []Codec{None, LZ4, ZSTD} {
		packed, err := Compress(nil, codec)
		require.NoError(t, err)
		assert.Empty(t, packed)

		unpacked, err := Decompress(nil, codec)
		require.NoError(t, err)
		assert.Empty(t, unpacked)
	}
}

func TestDecompress_Truncated(t *testing.T) {
	_, err := Decompress([]byte{1, 2, 3}, LZ4)
	assert.Error(t, err, "header shorter than 8 bytes")

	// Header claims 100 compressed bytes but carries 2.
	bad := make([]byte, headerSize+2)
	binary.LittleEndian.PutUint32(bad[0:], 500)
	binary.LittleEndian.PutUint32(bad[4:], 100)
	_, err = Decompress(bad, LZ4)
	assert.Error(t, err)
}

func TestParseCodec(t *testing.T) {
	cases := []struct {
		name string
		want Codec
	}{
		{"", None},
		{"none", None},
		{"lz4", LZ4},
		{"zstd", ZSTD},
	}
	for _, tc := range cases {
		got, err := ParseCodec(tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
		if tc.name != "" {
			assert.Equal(t, tc.name, got.String())
		}
	}

	_, err := ParseCodec("snappy")
	assert.Error(t, err)
}
