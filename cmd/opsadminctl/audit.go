package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/opsadmin/pkg/audit"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
	Long:  `Inspect the audit messages persisted in AUDIT_DATABASE_URL.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'audit' requires a subcommand (recent)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the newest audit messages",
	Long: `Show the newest audit messages, newest first.

Example:
  opsadminctl audit recent
  opsadminctl audit recent --limit 50`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := audit.NewStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to audit database: %v\n", err)
			os.Exit(1)
		}
		if s == nil {
			fmt.Fprintln(os.Stderr, "AUDIT_DATABASE_URL environment variable is required")
			os.Exit(1)
		}
		defer func() { _ = s.Close() }()

		messages, err := s.Recent(limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read audit messages: %v\n", err)
			os.Exit(1)
		}
		printAuditMessages(cmd.OutOrStdout(), messages)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditRecentCmd)
	auditRecentCmd.Flags().IntP("limit", "n", 20, "Number of messages to show")
}

func printAuditMessages(w io.Writer, messages []audit.Message) {
	if len(messages) == 0 {
		fmt.Fprintln(w, "No audit messages")
		return
	}
	for _, msg := range messages {
		fmt.Fprintf(w, "%s  %-12s %s\n",
			msg.Timestamp.UTC().Format(time.RFC3339),
			msg.Msgid,
			strings.TrimSpace(msg.Message),
		)
	}
}
