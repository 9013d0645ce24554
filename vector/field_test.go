package vector

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDims(t *testing.T) {
	// Bounds are inclusive.
	if err := ValidateDims("embedding", 1); err != nil {
		t.Fatalf("ValidateDims(1) failed: %v", err)
	}
	if err := ValidateDims("embedding", MaxDims); err != nil {
		t.Fatalf("ValidateDims(%d) failed: %v", MaxDims, err)
	}

	cases := []struct {
		name string
		dims int
		msg  string
	}{
		{"missing", 0, "missing required parameter dims"},
		{"negative", -3, "must be in the range [1, 2048]"},
		{"too large", MaxDims + 1, "must be in the range [1, 2048]"},
	}
	for _, tc := range cases {
		err := ValidateDims("embedding", tc.dims)
		var cfg *ConfigError
		if !errors.As(err, &cfg) {
			t.Fatalf("%s: error = %v, want ConfigError", tc.name, err)
		}
		if !strings.Contains(err.Error(), tc.msg) {
			t.Fatalf("%s: message %q does not contain %q", tc.name, err.Error(), tc.msg)
		}
	}
}

func TestNewDescriptor_InvalidDims(t *testing.T) {
	if _, err := NewDescriptor("embedding", MaxDims+1, FormatV2, nil); err == nil {
		t.Fatalf("expected error for dims above the bound")
	}
	if _, err := NewDescriptor("embedding", 0, FormatV2, nil); err == nil {
		t.Fatalf("expected error for missing dims")
	}
}

func TestNewDescriptor_UnknownFormat(t *testing.T) {
	if _, err := NewDescriptor("embedding", 3, FormatVersion(99), nil); err == nil {
		t.Fatalf("expected error for unknown format version")
	}
	if _, err := NewDescriptor("embedding", 3, FormatVersion(0), nil); err == nil {
		t.Fatalf("expected error for zero format version")
	}
}

func TestDescriptor_Layout(t *testing.T) {
	v1 := newTestDescriptor(t, 3, FormatV1)
	if v1.NormSuffix() {
		t.Fatalf("format v1 must not carry the norm suffix")
	}
	if v1.BlobLen() != 12 {
		t.Fatalf("v1 BlobLen = %d, want 12", v1.BlobLen())
	}

	v2 := newTestDescriptor(t, 3, FormatV2)
	if !v2.NormSuffix() {
		t.Fatalf("format v2 must carry the norm suffix")
	}
	if v2.BlobLen() != 16 {
		t.Fatalf("v2 BlobLen = %d, want 16", v2.BlobLen())
	}

	if CurrentFormat != FormatV2 {
		t.Fatalf("CurrentFormat = %d, want %d", CurrentFormat, FormatV2)
	}
}

func TestDescriptor_Capabilities(t *testing.T) {
	d := newTestDescriptor(t, 3, FormatV2)

	if d.Searchable() {
		t.Fatalf("dense vector fields must not be searchable")
	}
	if d.Aggregatable() {
		t.Fatalf("dense vector fields must not be aggregatable")
	}

	ops := []error{
		d.TermQuery("x"),
		d.RangeQuery(1, 2),
		d.DocValueFormat("###.#"),
		d.AggregationSource(),
	}
	for i, err := range ops {
		var unsupported *UnsupportedOperationError
		if !errors.As(err, &unsupported) {
			t.Fatalf("ops[%d]: error = %v, want UnsupportedOperationError", i, err)
		}
		if !strings.Contains(err.Error(), "does not support") {
			t.Fatalf("ops[%d]: message %q", i, err.Error())
		}
	}
}

func TestDescriptor_MetaIsCopied(t *testing.T) {
	meta := map[string]string{"unit": "cosine"}
	d, err := NewDescriptor("embedding", 3, FormatV2, meta)
	if err != nil {
		t.Fatalf("NewDescriptor failed: %v", err)
	}

	// Mutating the input after construction must not leak in.
	meta["unit"] = "dot"
	if got := d.Meta()["unit"]; got != "cosine" {
		t.Fatalf("meta leaked caller mutation: %q", got)
	}

	// Mutating the returned copy must not leak back.
	d.Meta()["unit"] = "l2"
	if got := d.Meta()["unit"]; got != "cosine" {
		t.Fatalf("meta copy shared internal state: %q", got)
	}
}
