package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the opsadmin server to be ready",
	Long: `Wait for the opsadmin server to be ready by polling the health endpoint.

This command will repeatedly check the server health until it responds
successfully or the maximum number of retries is reached.

Example:
  opsadminctl wait
  opsadminctl wait --port 3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")

		if err := waitForServer(fmt.Sprintf("http://localhost:%d/health", port), retries, time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "Server did not become ready: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
}

func waitForServer(url string, retries int, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}

	fmt.Println("Waiting for opsadmin to be ready...")

	for i := 0; i < retries; i++ {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < 300 {
				fmt.Println()
				fmt.Println("opsadmin is ready!")
				return nil
			}
		}

		fmt.Print(".")
		time.Sleep(interval)
	}

	fmt.Println()
	return fmt.Errorf("opsadmin is not ready after %d attempts", retries)
}
