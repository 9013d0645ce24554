package main

import (
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm id...",
	Short: "Remove documents and their encoded values",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, id := range args {
		if err := s.Remove(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
