// Package blockzip compresses single blocks, used for document sources at
// rest. Compressed blocks carry an 8-byte little-endian header of
// [uncompressed size uint32][compressed size uint32]; a compressed size of
// zero marks a block stored verbatim because compression did not pay off.
package blockzip

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the compression algorithm of a stored block.
type Codec uint8

const (
	// None stores blocks verbatim without a header.
	None Codec = 0
	// LZ4 uses LZ4 block compression (fast, good for hot data).
	LZ4 Codec = 1
	// ZSTD uses zstd block compression (better ratio, good for cold data).
	ZSTD Codec = 2
)

const headerSize = 8

// Incompressible blocks whose compressed form saves less than this fraction
// are stored verbatim under the header.
const minSavings = 0.1

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	}
	return fmt.Sprintf("codec(%d)", uint8(c))
}

// ParseCodec resolves a codec name as used in configuration and CLI flags.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	}
	return None, fmt.Errorf("blockzip: unknown codec %q", name)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Compress encodes one block under the given codec. None and empty input
// pass through untouched.
func Compress(data []byte, codec Codec) ([]byte, error) {
	if codec == None || len(data) == 0 {
		return data, nil
	}

	var compressed []byte
	var err error
	switch codec {
	case LZ4:
		compressed, err = compressLZ4(data)
	case ZSTD:
		compressed, err = compressZSTD(data)
	default:
		return nil, fmt.Errorf("blockzip: unknown codec %d", codec)
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*(1-minSavings) {
		// Store verbatim under the header.
		out := make([]byte, headerSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[headerSize:], data)
		return out, nil
	}

	out := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[headerSize:], compressed)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible.
		return nil, nil
	}
	return buf[:n], nil
}

func compressZSTD(data []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

// Decompress decodes one block produced by Compress under the same codec.
func Decompress(data []byte, codec Codec) ([]byte, error) {
	if codec == None || len(data) == 0 {
		return data, nil
	}
	if len(data) < headerSize {
		return nil, errors.New("blockzip: block too small for header")
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	if compressedSize == 0 {
		if uint32(len(data)) < headerSize+uncompressedSize {
			return nil, errors.New("blockzip: verbatim block shorter than header claims")
		}
		return data[headerSize : headerSize+uncompressedSize], nil
	}

	if uint32(len(data)) < headerSize+compressedSize {
		return nil, errors.New("blockzip: compressed block shorter than header claims")
	}
	payload := data[headerSize : headerSize+compressedSize]

	switch codec {
	case LZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, errors.New("blockzip: decompressed size mismatch")
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(payload, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != uncompressedSize {
			return nil, errors.New("blockzip: decompressed size mismatch")
		}
		return out, nil
	}
	return nil, fmt.Errorf("blockzip: unknown codec %d", codec)
}
