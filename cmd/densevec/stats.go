package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show document and per-field value counts",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	st, err := s.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("documents: %d\n", st.Docs)
	fields := make([]string, 0, len(st.Values))
	for field := range st.Values {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Printf("  %s: %d values\n", field, st.Values[field])
	}
	return nil
}
