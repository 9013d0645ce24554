package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./db.sqlite". For in-memory
// databases, pass ":memory:". Driver pragmas can ride on the DSN, e.g.
// "file:db.sqlite?_pragma=busy_timeout(5000)" keeps concurrent writers from
// failing fast on lock contention.
func Open(dsn string) (*sql.DB, error) { return sql.Open("sqlite", dsn) }
