package engine

import (
	"database/sql"
	"math"
	"testing"

	"github.com/viant/densevec/vector"
)

func TestRegisterVectorFunctionsAndUse(t *testing.T) {
	// Register globally before the first connection so the functions are
	// available on it.
	if err := RegisterVectorFunctions(nil); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	d, err := vector.NewDescriptor("embedding", 3, vector.FormatV2, nil)
	if err != nil {
		t.Fatalf("NewDescriptor failed: %v", err)
	}
	blob := vector.Encode(d, []float32{1, 2, 2})

	// vec_dims with the norm suffix flagged -> declared dims.
	var dims int64
	if err := db.QueryRow(`SELECT vec_dims(?, 1)`, blob).Scan(&dims); err != nil {
		t.Fatalf("vec_dims query failed: %v", err)
	}
	if dims != 3 {
		t.Fatalf("vec_dims = %d, want 3", dims)
	}

	// vec_norm reads the stored suffix back: sqrt(1+4+4) = 3.
	var norm float64
	if err := db.QueryRow(`SELECT vec_norm(?)`, blob).Scan(&norm); err != nil {
		t.Fatalf("vec_norm query failed: %v", err)
	}
	if math.Abs(norm-3) > 1e-9 {
		t.Fatalf("vec_norm = %v, want 3", norm)
	}

	// vec_json decodes the values, excluding the suffix.
	var jsonText string
	if err := db.QueryRow(`SELECT vec_json(?, 1)`, blob).Scan(&jsonText); err != nil {
		t.Fatalf("vec_json query failed: %v", err)
	}
	if jsonText != "[1,2,2]" {
		t.Fatalf("vec_json = %q, want [1,2,2]", jsonText)
	}

	// A raw blob without the suffix counts every value.
	v1, err := vector.NewDescriptor("embedding", 2, vector.FormatV1, nil)
	if err != nil {
		t.Fatalf("NewDescriptor failed: %v", err)
	}
	raw := vector.Encode(v1, []float32{3, 4})
	if err := db.QueryRow(`SELECT vec_dims(?, 0)`, raw).Scan(&dims); err != nil {
		t.Fatalf("vec_dims(raw) query failed: %v", err)
	}
	if dims != 2 {
		t.Fatalf("vec_dims(raw) = %d, want 2", dims)
	}
}

func TestVectorFunctions_Errors(t *testing.T) {
	if err := RegisterVectorFunctions(nil); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	// NULL in -> NULL out.
	var out sql.NullInt64
	if err := db.QueryRow(`SELECT vec_dims(NULL, 1)`).Scan(&out); err != nil {
		t.Fatalf("vec_dims(NULL) query failed: %v", err)
	}
	if out.Valid {
		t.Fatalf("vec_dims(NULL) = %v, want NULL", out.Int64)
	}

	// A blob that is not a whole number of float32 values is an error.
	var dims int64
	if err := db.QueryRow(`SELECT vec_dims(?, 1)`, []byte{1, 2, 3}).Scan(&dims); err == nil {
		t.Fatalf("expected error for a 3-byte blob")
	}

	// A 4-byte blob flagged with a norm suffix has no values left.
	if err := db.QueryRow(`SELECT vec_dims(?, 1)`, []byte{0, 0, 0, 0}).Scan(&dims); err == nil {
		t.Fatalf("expected error for a suffix-only blob")
	}
}
