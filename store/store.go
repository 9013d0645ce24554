package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/viant/densevec/document"
	"github.com/viant/densevec/internal/blockzip"
	"github.com/viant/densevec/schema"
	"github.com/viant/densevec/vector"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS densevec_docs (
    id TEXT PRIMARY KEY,
    source BLOB NOT NULL,
    source_codec INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS densevec_values (
    doc_id TEXT NOT NULL,
    field TEXT NOT NULL,
    embedding BLOB NOT NULL,
    PRIMARY KEY (doc_id, field)
);
`

// ErrNotFound reports a document id with no row in the store.
var ErrNotFound = errors.New("document not found")

// Doc is one input of a batch write.
type Doc struct {
	ID     string
	Source []byte
}

// Stats summarizes the store contents: total documents and encoded values
// per field.
type Stats struct {
	Docs   int64
	Values map[string]int64
}

// Store defines the application-level document store API for dense vector
// fields. SQLiteStore is the baseline implementation; the interface keeps
// callers and tests decoupled from the driver.
type Store interface {
	// IndexDocument parses, encodes and stores one document source,
	// returning the document id (generated when empty).
	IndexDocument(ctx context.Context, id string, source []byte) (string, error)

	// IndexVector stores one vector for callers that already hold the float
	// values; a minimal source document is synthesized.
	IndexVector(ctx context.Context, id, field string, values []float32) (string, error)

	// IndexBatch indexes documents concurrently, at most parallelism at a
	// time.
	IndexBatch(ctx context.Context, docs []Doc, parallelism int) ([]string, error)

	// FetchValue returns a field's raw JSON value from the stored source.
	FetchValue(ctx context.Context, id, field, format string) (json.RawMessage, error)

	// Source returns the stored document source, decompressed.
	Source(ctx context.Context, id string) ([]byte, error)

	// Remove deletes a document and its encoded values.
	Remove(ctx context.Context, id string) error

	// Stats reports document and per-field value counts.
	Stats(ctx context.Context) (*Stats, error)
}

// SQLiteStore persists documents and their encoded vector values in SQLite.
type SQLiteStore struct {
	db      *sql.DB
	catalog *schema.Catalog
	logger  *slog.Logger
	metrics MetricsCollector
	codec   blockzip.Codec
}

// New creates a SQLite-backed store over an opened database and its schema
// catalog. It ensures the document tables exist.
func New(db *sql.DB, catalog *schema.Catalog, opts ...Option) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("store: db is nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("store: catalog is nil")
	}
	o := applyOptions(opts)
	if _, err := db.Exec(storeSchema); err != nil {
		return nil, fmt.Errorf("store: creating tables: %w", err)
	}
	return &SQLiteStore{
		db:      db,
		catalog: catalog,
		logger:  o.logger,
		metrics: o.metrics,
		codec:   o.codec,
	}, nil
}

// IndexDocument parses, encodes and stores one document. An empty id gets a
// generated UUID. Mapped fields must hold arrays of exactly the declared
// number of numeric scalars; any violation fails the whole write and leaves
// a previously stored version of the document untouched. Unmapped fields are
// not inspected beyond tokenization and live on in the stored source.
func (s *SQLiteStore) IndexDocument(ctx context.Context, id string, source []byte) (docID string, err error) {
	start := time.Now()
	defer func() { s.metrics.RecordIndex(time.Since(start), err) }()

	if id == "" {
		id = uuid.NewString()
	}
	doc, err := s.parseSource(ctx, id, source)
	if err != nil {
		return "", err
	}
	if err := s.write(ctx, doc, source); err != nil {
		return "", err
	}
	s.logger.DebugContext(ctx, "indexed document", "doc", id, "vector_fields", doc.Len())
	return id, nil
}

// parseSource walks the top-level object of source, routing mapped fields
// through the vector parser into their document slots.
func (s *SQLiteStore) parseSource(ctx context.Context, id string, source []byte) (*document.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(source))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("store: doc %q: reading source: %w", id, err)
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("store: doc %q: source must be a JSON object", id)
	}

	doc := document.New(id)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("store: doc %q: reading source: %w", id, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("store: doc %q: unexpected token %v in object", id, keyTok)
		}

		d, mapped := s.catalog.Descriptor(key)
		if !mapped {
			if err := skipValue(dec); err != nil {
				return nil, fmt.Errorf("store: doc %q: field %q: %w", id, key, err)
			}
			s.logger.DebugContext(ctx, "skipping unmapped field", "doc", id, "field", key)
			continue
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("store: doc %q: field %q: %w", id, key, err)
		}
		if valTok != json.Delim('[') {
			return nil, fmt.Errorf("store: field %q of doc %q: %s values must be supplied as a JSON array",
				key, id, vector.TypeName)
		}
		values, err := vector.ParseValue(dec, d, id)
		if err != nil {
			return nil, err
		}
		if err := doc.AddBinary(key, vector.Encode(d, values)); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, fmt.Errorf("store: doc %q: reading source: %w", id, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("store: doc %q: trailing data after source object", id)
	}
	return doc, nil
}

// skipValue consumes one JSON value without materializing it.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch tok {
	case json.Delim('{'), json.Delim('['):
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			switch tok {
			case json.Delim('{'), json.Delim('['):
				depth++
			case json.Delim('}'), json.Delim(']'):
				depth--
			}
		}
	}
	return nil
}

// write stores the source and the document's encoded values in one
// transaction.
func (s *SQLiteStore) write(ctx context.Context, doc *document.Document, source []byte) error {
	packed, err := blockzip.Compress(source, s.codec)
	if err != nil {
		return fmt.Errorf("store: doc %q: compressing source: %w", doc.ID(), err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: doc %q: %w", doc.ID(), err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO densevec_docs(id, source, source_codec) VALUES(?, ?, ?)`,
		doc.ID(), packed, int(s.codec)); err != nil {
		return fmt.Errorf("store: doc %q: %w", doc.ID(), err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM densevec_values WHERE doc_id = ?`, doc.ID()); err != nil {
		return fmt.Errorf("store: doc %q: %w", doc.ID(), err)
	}
	for _, key := range doc.Keys() {
		blob, _ := doc.Binary(key)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO densevec_values(doc_id, field, embedding) VALUES(?, ?, ?)`,
			doc.ID(), key, blob); err != nil {
			return fmt.Errorf("store: doc %q: field %q: %w", doc.ID(), key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: doc %q: %w", doc.ID(), err)
	}
	return nil
}

// IndexVector writes one vector for callers that already hold the float
// values. Arity is checked against the mapping; a source document holding
// just this field is synthesized so the fetch path behaves the same as for
// parsed documents.
func (s *SQLiteStore) IndexVector(ctx context.Context, id, field string, values []float32) (docID string, err error) {
	start := time.Now()
	defer func() { s.metrics.RecordIndex(time.Since(start), err) }()

	d, ok := s.catalog.Descriptor(field)
	if !ok {
		return "", fmt.Errorf("store: field %q is not mapped", field)
	}
	if id == "" {
		id = uuid.NewString()
	}
	if len(values) != d.Dims() {
		return "", &vector.ArityError{Field: field, DocID: id, Declared: d.Dims(), Actual: len(values)}
	}

	source, err := json.Marshal(map[string][]float32{field: values})
	if err != nil {
		return "", fmt.Errorf("store: doc %q: synthesizing source: %w", id, err)
	}
	doc := document.New(id)
	if err := doc.AddBinary(field, vector.Encode(d, values)); err != nil {
		return "", err
	}
	if err := s.write(ctx, doc, source); err != nil {
		return "", err
	}
	s.logger.DebugContext(ctx, "indexed vector", "doc", id, "field", field, "dims", d.Dims())
	return id, nil
}

// IndexBatch indexes documents concurrently, at most parallelism at a time.
// Documents are written independently: a failure stops the batch with the
// first error while documents already committed stay committed.
func (s *SQLiteStore) IndexBatch(ctx context.Context, docs []Doc, parallelism int) ([]string, error) {
	start := time.Now()
	if parallelism <= 0 {
		parallelism = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	ids := make([]string, len(docs))
	var failed atomic.Int64
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			id, err := s.IndexDocument(ctx, doc.ID, doc.Source)
			if err != nil {
				failed.Add(1)
				return err
			}
			ids[i] = id
			return nil
		})
	}
	err := g.Wait()
	s.metrics.RecordBatch(len(docs), int(failed.Load()), time.Since(start))
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "batch indexed", "count", len(docs), "parallelism", parallelism)
	return ids, nil
}

// FetchValue returns the field's raw JSON value from the stored document
// source. A non-empty format fails before any row is read; dense vector
// fields define no formats.
func (s *SQLiteStore) FetchValue(ctx context.Context, id, field, format string) (raw json.RawMessage, err error) {
	start := time.Now()
	defer func() { s.metrics.RecordFetch(time.Since(start), err) }()

	d, ok := s.catalog.Descriptor(field)
	if !ok {
		return nil, fmt.Errorf("store: field %q is not mapped", field)
	}
	fetch, err := d.ValueFetcher(format)
	if err != nil {
		return nil, err
	}
	source, err := s.source(ctx, id)
	if err != nil {
		return nil, err
	}
	return fetch(source)
}

// Source returns the stored document source, decompressed.
func (s *SQLiteStore) Source(ctx context.Context, id string) (source []byte, err error) {
	start := time.Now()
	defer func() { s.metrics.RecordFetch(time.Since(start), err) }()
	return s.source(ctx, id)
}

func (s *SQLiteStore) source(ctx context.Context, id string) ([]byte, error) {
	var (
		packed []byte
		codec  int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT source, source_codec FROM densevec_docs WHERE id = ?`, id).Scan(&packed, &codec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: doc %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: doc %q: %w", id, err)
	}
	source, err := blockzip.Decompress(packed, blockzip.Codec(codec))
	if err != nil {
		return nil, fmt.Errorf("store: doc %q: decompressing source: %w", id, err)
	}
	return source, nil
}

// Remove deletes a document and its encoded values. Removing an id with no
// rows is a no-op.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("store: Remove called with empty id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: doc %q: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM densevec_values WHERE doc_id = ?`, id); err != nil {
		return fmt.Errorf("store: doc %q: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM densevec_docs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: doc %q: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: doc %q: %w", id, err)
	}
	s.logger.DebugContext(ctx, "removed document", "doc", id)
	return nil
}

// Stats reports document and per-field value counts.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Values: make(map[string]int64)}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM densevec_docs`).Scan(&st.Docs); err != nil {
		return nil, fmt.Errorf("store: counting docs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT field, COUNT(*) FROM densevec_values GROUP BY field ORDER BY field`)
	if err != nil {
		return nil, fmt.Errorf("store: counting values: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			field string
			n     int64
		)
		if err := rows.Scan(&field, &n); err != nil {
			return nil, fmt.Errorf("store: counting values: %w", err)
		}
		st.Values[field] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: counting values: %w", err)
	}
	return st, nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
