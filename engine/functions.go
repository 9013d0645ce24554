package engine

import (
	"database/sql"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
	sqlite "modernc.org/sqlite"
)

// RegisterVectorFunctions registers vec_dims, vec_norm and vec_json with the
// driver so they are available on connections opened after this call.
// Existing open connections will not see new functions.
//
// The functions never go through the field mapping; they read stored blobs
// by the wire layout alone: consecutive little-endian float32 values, plus a
// trailing precomputed magnitude when the store's format carries it. The
// has_norm argument tells them whether that suffix is present.
func RegisterVectorFunctions(_ *sql.DB) error {
	// Registration is driver-global; duplicates from repeated calls are
	// rejected by the driver and ignored here.
	_ = sqlite.RegisterDeterministicScalarFunction("vec_dims", 2, vecDimsImpl)
	_ = sqlite.RegisterDeterministicScalarFunction("vec_norm", 1, vecNormImpl)
	_ = sqlite.RegisterDeterministicScalarFunction("vec_json", 2, vecJSONImpl)
	return nil
}

func asBlob(arg driver.Value) ([]byte, bool, error) {
	switch v := arg.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return v, true, nil
	default:
		return nil, false, fmt.Errorf("vec: unsupported argument type %T, want BLOB", arg)
	}
}

func asFlag(arg driver.Value) (bool, bool, error) {
	switch v := arg.(type) {
	case nil:
		return false, false, nil
	case bool:
		return v, true, nil
	case int64:
		return v != 0, true, nil
	default:
		return false, false, fmt.Errorf("vec: unsupported argument type %T, want 0 or 1", arg)
	}
}

// blobDims derives the value count from the blob length and the norm flag.
func blobDims(blob []byte, hasNorm bool) (int, error) {
	if len(blob) == 0 || len(blob)%4 != 0 {
		return 0, fmt.Errorf("vec: invalid vector blob length %d", len(blob))
	}
	dims := len(blob) / 4
	if hasNorm {
		dims--
	}
	if dims < 1 {
		return 0, fmt.Errorf("vec: invalid vector blob length %d", len(blob))
	}
	return dims, nil
}

// vec_dims(blob, has_norm) -> number of vector values in the blob.
func vecDimsImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("vec_dims: expected 2 arguments, got %d", len(args))
	}
	blob, ok, err := asBlob(args[0])
	if err != nil || !ok {
		return nil, err
	}
	hasNorm, ok, err := asFlag(args[1])
	if err != nil || !ok {
		return nil, err
	}
	dims, err := blobDims(blob, hasNorm)
	if err != nil {
		return nil, err
	}
	return int64(dims), nil
}

// vec_norm(blob) -> the stored magnitude suffix, read back, not recomputed.
func vecNormImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("vec_norm: expected 1 argument, got %d", len(args))
	}
	blob, ok, err := asBlob(args[0])
	if err != nil || !ok {
		return nil, err
	}
	if _, err := blobDims(blob, true); err != nil {
		return nil, err
	}
	bits := binary.LittleEndian.Uint32(blob[len(blob)-4:])
	return float64(math.Float32frombits(bits)), nil
}

// vec_json(blob, has_norm) -> the vector values as a JSON array, for
// debugging stored rows.
func vecJSONImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("vec_json: expected 2 arguments, got %d", len(args))
	}
	blob, ok, err := asBlob(args[0])
	if err != nil || !ok {
		return nil, err
	}
	hasNorm, ok, err := asFlag(args[1])
	if err != nil || !ok {
		return nil, err
	}
	dims, err := blobDims(blob, hasNorm)
	if err != nil {
		return nil, err
	}
	values := make([]float32, dims)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	out, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("vec_json: %v", err)
	}
	return string(out), nil
}
