package document

import (
	"errors"
	"testing"

	"github.com/viant/densevec/vector"
)

func TestDocument_AddBinary(t *testing.T) {
	doc := New("doc-1")

	if err := doc.AddBinary("embedding", []byte{1, 2}); err != nil {
		t.Fatalf("AddBinary failed: %v", err)
	}
	blob, ok := doc.Binary("embedding")
	if !ok || len(blob) != 2 {
		t.Fatalf("Binary = %v, %v; want the stored blob", blob, ok)
	}
	if _, ok := doc.Binary("missing"); ok {
		t.Fatalf("Binary reported a value for an empty slot")
	}
}

func TestDocument_DuplicateKeepsFirst(t *testing.T) {
	doc := New("doc-1")

	if err := doc.AddBinary("embedding", []byte{1}); err != nil {
		t.Fatalf("AddBinary failed: %v", err)
	}
	err := doc.AddBinary("embedding", []byte{9})
	var dup *vector.DuplicateValueError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateValueError", err)
	}
	if dup.Field != "embedding" || dup.DocID != "doc-1" {
		t.Fatalf("error names %q/%q, want embedding/doc-1", dup.Field, dup.DocID)
	}

	blob, _ := doc.Binary("embedding")
	if blob[0] != 1 {
		t.Fatalf("first value was overwritten")
	}
	if doc.Len() != 1 {
		t.Fatalf("Len = %d, want 1", doc.Len())
	}
}

func TestDocument_KeysInsertionOrder(t *testing.T) {
	doc := New("doc-1")

	for _, k := range []string{"c", "a", "b"} {
		if err := doc.AddBinary(k, []byte{1}); err != nil {
			t.Fatalf("AddBinary(%q) failed: %v", k, err)
		}
	}
	keys := doc.Keys()
	if len(keys) != 3 || keys[0] != "c" || keys[1] != "a" || keys[2] != "b" {
		t.Fatalf("Keys = %v, want [c a b]", keys)
	}
}
