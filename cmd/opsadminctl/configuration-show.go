package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
)

// configurationCmd represents the configuration command
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Manage opsadmin configuration",
	Long:  `Inspect the configuration opsadmin resolves from defaults, file and environment.`,
	// Invalid configuration must still be inspectable, so the root
	// validation is skipped.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'configuration' requires a subcommand (show)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show opsadmin configuration attributes and their sources",
	Long: `Show opsadmin configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources. For example, the environment variables and config
file. These may not reflect the current values used by the running
opsadmin server.

Config file location: /etc/opsadmin/config/opsadmin.yml (or OPSADMIN_CONFIG_PATH)

Example:
  opsadminctl configuration show
  opsadminctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(cmd.OutOrStdout(), output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(configurationCmd)
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(w io.Writer, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if output == "json" {
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jsonOutput)
		return nil
	}

	fmt.Fprint(w, cfg.FormatText())
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(w, "\nWarning: %v\n", err)
	}
	return nil
}
