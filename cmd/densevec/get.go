package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	getID     string
	getField  string
	getFormat string
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch a field's original value from a stored document",
	Long: `Get returns the field value exactly as it was supplied at write
time, read from the stored document source. Dense vector fields define no
formatting transforms, so any --format fails with an unsupported-format
error.`,
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVar(&getID, "id", "", "document id")
	getCmd.Flags().StringVar(&getField, "field", "", "field name")
	getCmd.Flags().StringVar(&getFormat, "format", "", "value format (none are supported)")
	_ = getCmd.MarkFlagRequired("id")
	_ = getCmd.MarkFlagRequired("field")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	raw, err := s.FetchValue(ctx, getID, getField, getFormat)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("doc %q has no value for field %q", getID, getField)
	}
	fmt.Println(string(raw))
	return nil
}
