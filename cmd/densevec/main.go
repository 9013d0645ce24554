// Command densevec administers a dense vector document store: defining the
// field mapping, writing documents, reading values back and inspecting the
// stored blobs.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/densevec/engine"
	"github.com/viant/densevec/schema"
	"github.com/viant/densevec/store"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "densevec",
	Short:        "Dense vector document store administration",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `densevec stores documents whose mapped fields hold fixed-width dense
vectors, encoded as binary blobs in SQLite alongside the document source.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "densevec.db", "path to the SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// logger builds the CLI logger on stderr, honoring --verbose.
func logger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openCatalog opens the database and its schema catalog.
func openCatalog(ctx context.Context, opts ...schema.Option) (*sql.DB, *schema.Catalog, error) {
	db, err := engine.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", dbPath, err)
	}
	cat, err := schema.Open(ctx, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, cat, nil
}

// openStore opens the database, catalog and document store in one go.
func openStore(ctx context.Context, opts ...store.Option) (*sql.DB, *store.SQLiteStore, error) {
	db, cat, err := openCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]store.Option{store.WithLogger(logger())}, opts...)
	s, err := store.New(db, cat, opts...)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
