// Package store persists documents carrying dense vector fields in SQLite.
// Mapped fields are parsed from the document source, encoded into their
// fixed-width blobs and written to a values table next to the (optionally
// compressed) source; everything else in the source is stored untouched.
// Retrieval of a vector field goes through the stored source, never through
// the blob.
package store
