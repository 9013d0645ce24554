package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// float32Bytes is the encoded size of one IEEE 754 float32 value.
const float32Bytes = 4

// Encode serializes a parsed vector into its storage BLOB: dims consecutive
// little-endian IEEE 754 float32 values, followed by the precomputed
// Euclidean magnitude when the field's format carries the norm suffix.
//
// The magnitude is accumulated in float64 while the values are written, so
// the blob is produced in a single pass with a single allocation. Encode
// panics if len(values) != d.Dims(); arity is enforced during parsing and a
// mismatch here means a caller bypassed ParseValue.
func Encode(d *Descriptor, values []float32) []byte {
	if len(values) != d.dims {
		panic(fmt.Sprintf("vector: encoding %d values for field %q declared with dims=%d", len(values), d.name, d.dims))
	}
	b := make([]byte, d.BlobLen())
	var dot float64
	for i, v := range values {
		dot += float64(v) * float64(v)
		binary.LittleEndian.PutUint32(b[i*float32Bytes:], math.Float32bits(v))
	}
	if d.NormSuffix() {
		norm := float32(math.Sqrt(dot))
		binary.LittleEndian.PutUint32(b[d.dims*float32Bytes:], math.Float32bits(norm))
	}
	return b
}

// Decode deserializes a storage BLOB produced by Encode back into its
// float32 values, excluding any magnitude suffix. The blob length must match
// the field's layout exactly.
func Decode(blob []byte, d *Descriptor) ([]float32, error) {
	if len(blob) != d.BlobLen() {
		return nil, fmt.Errorf("vector: field %q: invalid blob length %d, want %d", d.name, len(blob), d.BlobLen())
	}
	vec := make([]float32, d.dims)
	for i := range vec {
		bits := binary.LittleEndian.Uint32(blob[i*float32Bytes:])
		vec[i] = math.Float32frombits(bits)
	}
	return vec, nil
}

// DecodeNorm extracts the precomputed Euclidean magnitude from a storage
// BLOB. It fails when the field's format predates the norm suffix.
func DecodeNorm(blob []byte, d *Descriptor) (float32, error) {
	if !d.NormSuffix() {
		return 0, fmt.Errorf("vector: field %q: format version %d does not store a magnitude", d.name, d.format)
	}
	if len(blob) != d.BlobLen() {
		return 0, fmt.Errorf("vector: field %q: invalid blob length %d, want %d", d.name, len(blob), d.BlobLen())
	}
	bits := binary.LittleEndian.Uint32(blob[d.dims*float32Bytes:])
	return math.Float32frombits(bits), nil
}
