package main

import (
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/viant/densevec/vector"
)

var (
	inspectID    string
	inspectField string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Decode a stored vector blob by the wire layout",
	Long: `Inspect reads the encoded blob of one field directly from storage
and decodes it: blob length, value count, the values, and the precomputed
magnitude when the store's format carries it. This is the external reader's
view of the wire contract; the regular read path never decodes blobs.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectID, "id", "", "document id")
	inspectCmd.Flags().StringVar(&inspectField, "field", "", "field name")
	_ = inspectCmd.MarkFlagRequired("id")
	_ = inspectCmd.MarkFlagRequired("field")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, cat, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	d, ok := cat.Descriptor(inspectField)
	if !ok {
		return fmt.Errorf("field %q is not mapped", inspectField)
	}

	var blob []byte
	err = db.QueryRowContext(ctx,
		`SELECT embedding FROM densevec_values WHERE doc_id = ? AND field = ?`,
		inspectID, inspectField).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("doc %q has no stored value for field %q", inspectID, inspectField)
	}
	if err != nil {
		return err
	}

	values, err := vector.Decode(blob, d)
	if err != nil {
		return err
	}
	asJSON, err := json.Marshal(values)
	if err != nil {
		return err
	}

	fmt.Printf("field:       %s (%s, dims=%d, format=%d)\n", d.Name(), d.TypeName(), d.Dims(), d.Format())
	fmt.Printf("blob length: %d bytes\n", len(blob))
	fmt.Printf("values:      %s\n", asJSON)
	if d.NormSuffix() {
		norm, err := vector.DecodeNorm(blob, d)
		if err != nil {
			return err
		}
		fmt.Printf("norm:        %g\n", norm)
	}
	return nil
}
