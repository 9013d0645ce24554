package document

import "github.com/viant/densevec/vector"

// Document accumulates the encoded field values of one document under
// construction. It lives for the duration of a single indexing call and is
// not safe for concurrent use; each write builds its own Document.
type Document struct {
	id    string
	keys  []string
	slots map[string][]byte
}

// New returns an empty document with the given identifier.
func New(id string) *Document {
	return &Document{id: id, slots: make(map[string][]byte)}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// AddBinary stores blob under key. A second value for the same key fails
// with a DuplicateValueError and leaves the first value in place.
func (d *Document) AddBinary(key string, blob []byte) error {
	if _, ok := d.slots[key]; ok {
		return &vector.DuplicateValueError{Field: key, DocID: d.id}
	}
	d.keys = append(d.keys, key)
	d.slots[key] = blob
	return nil
}

// Binary returns the value stored under key.
func (d *Document) Binary(key string) ([]byte, bool) {
	blob, ok := d.slots[key]
	return blob, ok
}

// Len returns the number of populated slots.
func (d *Document) Len() int { return len(d.keys) }

// Keys returns the slot keys in insertion order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}
