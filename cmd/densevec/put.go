package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/densevec/internal/blockzip"
	"github.com/viant/densevec/store"
)

var (
	putID       string
	putCompress string
)

var putCmd = &cobra.Command{
	Use:   "put [file]",
	Short: "Index one document from a file or stdin",
	Long: `Put reads a JSON document source from the given file (or stdin when
the file is "-" or omitted) and indexes it. Mapped fields must hold arrays of
exactly the declared number of numeric values; any violation fails the whole
write without storing anything.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPut,
}

func init() {
	putCmd.Flags().StringVar(&putID, "id", "", "document id (generated when empty)")
	putCmd.Flags().StringVar(&putCompress, "compress", "none", "source compression codec: none, lz4 or zstd")
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	codec, err := blockzip.ParseCodec(putCompress)
	if err != nil {
		return err
	}

	var source []byte
	if len(args) == 0 || args[0] == "-" {
		source, err = io.ReadAll(os.Stdin)
	} else {
		source, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading document source: %w", err)
	}

	ctx := cmd.Context()
	db, s, err := openStore(ctx, store.WithSourceCompression(codec))
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := s.IndexDocument(ctx, putID, source)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}
