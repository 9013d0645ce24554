package vector

import "fmt"

// TypeName is the fixed identifier of the dense vector field type, used in
// mappings, error messages and schema introspection.
const TypeName = "dense_vector"

// MaxDims is the hard upper bound on the declared number of dimensions.
const MaxDims = 2048

// FormatVersion is the storage-format version a field was created under. It
// is captured once from the store when the field is defined and frozen for
// the lifetime of the field; later format releases never rewrite existing
// fields.
type FormatVersion int

const (
	// FormatV1 stores the raw float values only.
	FormatV1 FormatVersion = 1
	// FormatV2 appends the precomputed Euclidean magnitude after the values.
	FormatV2 FormatVersion = 2

	// CurrentFormat is stamped on newly initialized stores.
	CurrentFormat = FormatV2
)

// normSuffixMinFormat is the single threshold deciding the blob layout:
// fields created at or above it carry the magnitude suffix.
const normSuffixMinFormat = FormatV2

// ValidateDims checks a declared dimension count for the named field.
// A zero value means the declaration was absent. Valid counts are in
// [1, MaxDims]. Runs when a schema is built or merged, never per document.
func ValidateDims(field string, dims int) error {
	if dims == 0 {
		return &ConfigError{Field: field, Missing: true}
	}
	if dims < 1 || dims > MaxDims {
		return &ConfigError{Field: field, Dims: dims}
	}
	return nil
}

// Descriptor is the immutable schema object for one dense vector field. It
// holds the declared dimension count and the storage format the field was
// created under, which together fully determine the encoded blob layout.
// A Descriptor is safe for unsynchronized concurrent use; schema updates
// derive a fresh descriptor instead of mutating an existing one.
type Descriptor struct {
	name   string
	dims   int
	format FormatVersion
	meta   map[string]string
}

// NewDescriptor validates dims and builds a descriptor. format must be a
// known storage-format version; meta may be nil and is copied.
func NewDescriptor(name string, dims int, format FormatVersion, meta map[string]string) (*Descriptor, error) {
	if err := ValidateDims(name, dims); err != nil {
		return nil, err
	}
	if format < FormatV1 || format > CurrentFormat {
		return nil, fmt.Errorf("vector: field %q: unknown storage format version %d", name, format)
	}
	d := &Descriptor{name: name, dims: dims, format: format}
	if len(meta) > 0 {
		d.meta = make(map[string]string, len(meta))
		for k, v := range meta {
			d.meta[k] = v
		}
	}
	return d, nil
}

// Name returns the field name.
func (d *Descriptor) Name() string { return d.name }

// Dims returns the declared dimension count.
func (d *Descriptor) Dims() int { return d.dims }

// Format returns the storage-format version frozen at field creation.
func (d *Descriptor) Format() FormatVersion { return d.format }

// TypeName returns the fixed field type identifier.
func (d *Descriptor) TypeName() string { return TypeName }

// NormSuffix reports whether encoded blobs for this field carry the trailing
// precomputed magnitude.
func (d *Descriptor) NormSuffix() bool { return d.format >= normSuffixMinFormat }

// BlobLen returns the exact encoded blob length in bytes. Any stored blob of
// a different length violates the wire contract for this field.
func (d *Descriptor) BlobLen() int {
	n := d.dims * float32Bytes
	if d.NormSuffix() {
		n += float32Bytes
	}
	return n
}

// Meta returns a copy of the free-form field metadata.
func (d *Descriptor) Meta() map[string]string {
	if d.meta == nil {
		return nil
	}
	out := make(map[string]string, len(d.meta))
	for k, v := range d.meta {
		out[k] = v
	}
	return out
}

// Searchable reports whether the field can serve term or range queries.
// Always false for dense vector fields.
func (d *Descriptor) Searchable() bool { return false }

// Aggregatable reports whether the field can back an aggregation.
// Always false for dense vector fields.
func (d *Descriptor) Aggregatable() bool { return false }

// TermQuery returns the failure a query planner must surface when a caller
// attempts a term query against this field. The value is ignored; no term
// query over an opaque binary blob is defined.
func (d *Descriptor) TermQuery(value any) error {
	return &UnsupportedOperationError{Field: d.name, Operation: "term queries"}
}

// RangeQuery returns the failure surfaced for range queries; see TermQuery.
func (d *Descriptor) RangeQuery(lower, upper any) error {
	return &UnsupportedOperationError{Field: d.name, Operation: "range queries"}
}

// DocValueFormat returns the failure surfaced when a doc-value formatting
// request names this field.
func (d *Descriptor) DocValueFormat(format string) error {
	return &UnsupportedOperationError{Field: d.name, Operation: "doc value formatting"}
}

// AggregationSource returns the failure surfaced when an aggregation asks
// for this field as its value source.
func (d *Descriptor) AggregationSource() error {
	return &UnsupportedOperationError{Field: d.name, Operation: "aggregations"}
}
