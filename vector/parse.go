package vector

import (
	"errors"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// ParseValue reads one document's value for field d: the elements of a JSON
// array of numeric scalars. The caller must already have consumed the
// array-start token; ParseValue consumes the elements and the closing
// bracket, enforcing the declared dimension count as it goes.
//
// The element at index d.Dims() fails the parse before its value is
// inspected and before anything after it is tokenized, so oversized arrays
// are rejected without reading them through. Non-numeric elements fail with
// the zero-based position of the offender. The decoder should have UseNumber
// set; ParseValue changes no decoder settings.
func ParseValue(dec *json.Decoder, d *Descriptor, docID string) ([]float32, error) {
	values := make([]float32, 0, d.dims)
	for dec.More() {
		if len(values) >= d.dims {
			return nil, &ArityError{Field: d.name, DocID: docID, Declared: d.dims, Actual: d.dims + 1}
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("vector: field %q: %w", d.name, err)
		}
		switch t := tok.(type) {
		case json.Number:
			v, err := parseFloat32(t.String())
			if err != nil {
				return nil, fmt.Errorf("vector: field %q: element %d: %w", d.name, len(values), err)
			}
			values = append(values, v)
		case float64:
			values = append(values, float32(t))
		default:
			return nil, &TypeMismatchError{Field: d.name, DocID: docID, Position: len(values), Token: tokenName(tok)}
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("vector: field %q: %w", d.name, err)
	}
	if len(values) != d.dims {
		return nil, &ArityError{Field: d.name, DocID: docID, Declared: d.dims, Actual: len(values)}
	}
	return values, nil
}

// parseFloat32 parses a JSON number literal at float32 precision.
// Out-of-range literals saturate to ±Inf instead of failing.
func parseFloat32(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return float32(f), nil
}

// tokenName describes a decoded token for error reporting.
func tokenName(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		if t == '{' {
			return "an object"
		}
		return "a nested array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", tok)
}
