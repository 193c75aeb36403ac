package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/seed"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// seedLoadCmd represents the seed load command
var seedLoadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Import a fixtures file",
	Long: `Import a fixtures file into the database.

Records keep the ids given in the file and replace existing records with
the same id. Without a file the built-in fixtures are loaded.

Example:
  opsadminctl seed load fixtures.yml
  opsadminctl seed load`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		records, err := openPostgres(config.Get())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		filename := ""
		if len(args) > 0 {
			filename = args[0]
		}
		if err := loadFixtures(cmd.Context(), records, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load fixtures: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	seedCmd.AddCommand(seedLoadCmd)
}

func loadFixtures(ctx context.Context, importer store.RecordsImporter, filename string) error {
	f, err := fixtures(filename, true)
	if err != nil {
		return err
	}

	counts, err := seed.Apply(ctx, importer, f)
	if err != nil {
		return err
	}

	source := filename
	if source == "" {
		source = "built-in fixtures"
	}
	fmt.Printf("Loaded %s:\n", source)
	for _, resource := range model.ResourceValues() {
		fmt.Printf("  %s: %d\n", resource, counts[resource])
	}
	return nil
}
