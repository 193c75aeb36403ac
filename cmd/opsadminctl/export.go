package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/seed"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every record as a fixtures file",
	Long: `Export every organization, server and command in the database as a
fixtures file that "opsadminctl seed load" can import.

Example:
  opsadminctl export
  opsadminctl export --out backup.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := cmd.Flags().GetString("out")

		records, err := openPostgres(config.Get())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		w := cmd.OutOrStdout()
		if out != "" && out != "-" {
			file, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
				os.Exit(1)
			}
			defer func() { _ = file.Close() }()
			w = file
		}

		if err := runExport(cmd.Context(), records, w); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
}

func runExport(ctx context.Context, records store.RecordsStore, w io.Writer) error {
	f, err := seed.Export(ctx, records)
	if err != nil {
		return err
	}

	data, err := f.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
