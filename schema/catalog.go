package schema

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/viant/densevec/vector"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS densevec_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    format_version INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS densevec_fields (
    name TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    dims INTEGER NOT NULL,
    meta TEXT,
    created_format INTEGER NOT NULL
);
`

// Catalog persists the field mapping of one store together with the
// storage-format version stamped when the database file was first
// initialized. The stamp is read back on every reopen and decides the blob
// layout for every field ever added to this store.
type Catalog struct {
	db     *sql.DB
	format vector.FormatVersion

	mu      sync.RWMutex
	mapping *Mapping
	descs   map[string]*vector.Descriptor
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	format    vector.FormatVersion
	formatSet bool
}

// WithFormatVersion sets the storage-format version stamped when the
// database is first initialized. On a database that already carries a stamp
// it only verifies the two agree. The default is vector.CurrentFormat.
func WithFormatVersion(v vector.FormatVersion) Option {
	return func(o *openOptions) {
		o.format = v
		o.formatSet = true
	}
}

// Open ensures the catalog tables exist, stamps or reads the frozen
// storage-format version and loads the persisted mapping.
func Open(ctx context.Context, db *sql.DB, opts ...Option) (*Catalog, error) {
	if db == nil {
		return nil, fmt.Errorf("schema: db is nil")
	}
	o := openOptions{format: vector.CurrentFormat}
	for _, opt := range opts {
		opt(&o)
	}
	if o.format < vector.FormatV1 || o.format > vector.CurrentFormat {
		return nil, fmt.Errorf("schema: unknown storage format version %d", o.format)
	}

	if _, err := db.ExecContext(ctx, catalogSchema); err != nil {
		return nil, fmt.Errorf("schema: creating catalog tables: %w", err)
	}

	// First writer wins; every later open reads the same stamp back.
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO densevec_meta(id, format_version, created_at) VALUES(1, ?, ?)`,
		int(o.format), createdAt); err != nil {
		return nil, fmt.Errorf("schema: stamping format version: %w", err)
	}
	var stamped int
	if err := db.QueryRowContext(ctx,
		`SELECT format_version FROM densevec_meta WHERE id = 1`).Scan(&stamped); err != nil {
		return nil, fmt.Errorf("schema: reading format version: %w", err)
	}
	format := vector.FormatVersion(stamped)
	if o.formatSet && o.format != format {
		return nil, fmt.Errorf("schema: store is stamped with format version %d, requested %d", format, o.format)
	}

	c := &Catalog{db: db, format: format}
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Format returns the frozen storage-format version of this store.
func (c *Catalog) Format() vector.FormatVersion { return c.format }

// load reads the persisted field rows and rebuilds the in-memory mapping and
// descriptor snapshot.
func (c *Catalog) load(ctx context.Context) error {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name, type, dims, meta, created_format FROM densevec_fields ORDER BY name`)
	if err != nil {
		return fmt.Errorf("schema: loading fields: %w", err)
	}
	defer rows.Close()

	mapping := &Mapping{Fields: make(map[string]FieldMapping)}
	descs := make(map[string]*vector.Descriptor)
	for rows.Next() {
		var (
			name, typ string
			dims      int
			metaJSON  sql.NullString
			created   int
		)
		if err := rows.Scan(&name, &typ, &dims, &metaJSON, &created); err != nil {
			return fmt.Errorf("schema: scanning field row: %w", err)
		}
		var meta map[string]string
		if metaJSON.Valid && metaJSON.String != "" {
			if err := json.Unmarshal([]byte(metaJSON.String), &meta); err != nil {
				return fmt.Errorf("schema: field %q: decoding meta: %w", name, err)
			}
		}
		d, err := vector.NewDescriptor(name, dims, vector.FormatVersion(created), meta)
		if err != nil {
			return err
		}
		mapping.Fields[name] = FieldMapping{Type: typ, Dims: dims, Meta: meta}
		descs[name] = d
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("schema: loading fields: %w", err)
	}

	c.mu.Lock()
	c.mapping = mapping
	c.descs = descs
	c.mu.Unlock()
	return nil
}

// Apply merges a mapping update into the catalog and persists the result.
// The first Apply on a fresh store defines the schema; later calls follow
// the Merge rules. Field rows keep the created_format they were first
// written with; Apply never rewrites it.
func (c *Catalog) Apply(ctx context.Context, upd *Mapping) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged, err := Merge(c.mapping, upd)
	if err != nil {
		return err
	}

	// Validate and derive descriptors before touching the database. Existing
	// fields keep their created_format, new fields get the store stamp.
	descs := make(map[string]*vector.Descriptor, len(merged.Fields))
	for name, fm := range merged.Fields {
		format := c.format
		if prev, ok := c.descs[name]; ok {
			format = prev.Format()
		}
		if name == "" {
			return fmt.Errorf("schema: mapping contains a field with an empty name")
		}
		if fm.Type != vector.TypeName {
			return fmt.Errorf("schema: field %q: unsupported field type %q", name, fm.Type)
		}
		d, err := vector.NewDescriptor(name, fm.Dims, format, fm.Meta)
		if err != nil {
			return err
		}
		descs[name] = d
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("schema: applying mapping: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO densevec_fields(name, type, dims, meta, created_format)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET meta = excluded.meta`)
	if err != nil {
		return fmt.Errorf("schema: applying mapping: %w", err)
	}
	defer stmt.Close()

	for name, fm := range merged.Fields {
		var metaJSON any
		if len(fm.Meta) > 0 {
			buf, err := json.Marshal(fm.Meta)
			if err != nil {
				return fmt.Errorf("schema: field %q: encoding meta: %w", name, err)
			}
			metaJSON = string(buf)
		}
		if _, err := stmt.ExecContext(ctx, name, fm.Type, fm.Dims, metaJSON,
			int(descs[name].Format())); err != nil {
			return fmt.Errorf("schema: field %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("schema: applying mapping: %w", err)
	}

	c.mapping = merged
	c.descs = descs
	return nil
}

// Descriptor returns the descriptor of one mapped field.
func (c *Catalog) Descriptor(name string) (*vector.Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.descs[name]
	return d, ok
}

// Descriptors returns a snapshot of all field descriptors. The map is a
// copy; the descriptors themselves are immutable.
func (c *Catalog) Descriptors() map[string]*vector.Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*vector.Descriptor, len(c.descs))
	for name, d := range c.descs {
		out[name] = d
	}
	return out
}

// Mapping returns a copy of the catalog's current mapping.
func (c *Catalog) Mapping() *Mapping {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := &Mapping{Fields: make(map[string]FieldMapping, len(c.mapping.Fields))}
	for name, fm := range c.mapping.Fields {
		out.Fields[name] = cloneField(fm)
	}
	return out
}
