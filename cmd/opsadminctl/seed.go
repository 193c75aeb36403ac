package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture records into the database",
	Long:  `Load fixture records into the PostgreSQL store.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'seed' requires a subcommand (load, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
