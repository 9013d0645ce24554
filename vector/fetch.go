package vector

import (
	"fmt"

	"github.com/buger/jsonparser"
	json "github.com/goccy/go-json"
)

// ValueFetcher retrieves a field's value from a stored document source for
// the _source retrieval path. Dense vector fields are returned exactly as
// they were supplied at write time: the raw JSON array, untouched by the
// encoded blob.
type ValueFetcher func(source []byte) (json.RawMessage, error)

// ValueFetcher builds the source pass-through fetcher for the field. format
// must be empty: dense vector fields define no formatting transforms, and a
// non-empty request fails here, before any document is read.
func (d *Descriptor) ValueFetcher(format string) (ValueFetcher, error) {
	if format != "" {
		return nil, &UnsupportedFormatError{Field: d.name, Format: format}
	}
	field := d.name
	return func(source []byte) (json.RawMessage, error) {
		raw, typ, _, err := jsonparser.Get(source, field)
		if err != nil {
			if err == jsonparser.KeyPathNotFoundError {
				return nil, nil
			}
			return nil, fmt.Errorf("vector: field %q: %w", field, err)
		}
		if typ == jsonparser.String {
			// Get strips the quotes from string values; restore the
			// original JSON representation.
			return json.RawMessage(`"` + string(raw) + `"`), nil
		}
		out := make(json.RawMessage, len(raw))
		copy(out, raw)
		return out, nil
	}, nil
}
