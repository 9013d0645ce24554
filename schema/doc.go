// Package schema holds the field mapping configuration for a dense vector
// store and its SQLite-backed catalog. A mapping declares which document
// fields are dense vectors and how many dimensions each carries; the catalog
// persists the mapping together with the storage-format version the store
// was initialized under, so the encoded blob layout never changes for the
// lifetime of a database file.
package schema
