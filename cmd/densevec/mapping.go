package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/viant/densevec/schema"
)

var mappingApply string

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Show the field mapping, or merge an update into it",
	Long: `Without --apply, mapping prints the store's current field mapping.
With --apply, the given mapping file is merged in: new fields may be added and
meta may be replaced, but the type and dims of an existing field are frozen.`,
	RunE: runMapping,
}

func init() {
	mappingCmd.Flags().StringVar(&mappingApply, "apply", "", "mapping file to merge into the store")
	rootCmd.AddCommand(mappingCmd)
}

func runMapping(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, cat, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if mappingApply != "" {
		upd, err := schema.LoadMapping(mappingApply)
		if err != nil {
			return err
		}
		if err := cat.Apply(ctx, upd); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(cat.Mapping(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
