// Package vector implements the dense vector field codec: a fixed-width
// binary encoding for float32 vectors stored as a single document field
// value, the token-level parser that validates incoming arrays against the
// field's declared dimension count, and the immutable field descriptor that
// both sides share.
//
// Wire contract: an encoded blob is dims consecutive IEEE-754 single
// precision floats in little-endian byte order, written in declared order.
// Fields created at storage format 2 or later carry one extra little-endian
// float32 after the values, holding the vector's Euclidean magnitude as
// precomputed at encode time. Blob length is therefore dims*4 bytes, or
// dims*4+4 with the magnitude suffix; no other length is valid for a given
// descriptor. The byte order is fixed regardless of host platform so blobs
// stay portable across architectures and match every blob this module has
// ever written.
//
// Dense vector fields are write/fetch only: they are not searchable, not
// aggregatable, and define no doc-value formats. The descriptor's query and
// formatting hooks exist so callers integrating the field type receive a
// named failure instead of silently wrong results.
package vector
