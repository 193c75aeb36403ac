package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// seedWatchCmd represents the seed watch command
var seedWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a fixtures file and import it whenever it's modified",
	Long: `Watch a fixtures file and import it into the database when it changes.

The file is imported once on start and again after every write. Editors
that save by replacing the file are handled by watching its directory.

Example:
  opsadminctl seed watch /run/opsadmin/fixtures.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		records, err := openPostgres(config.Get())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := watchFixtures(ctx, records, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch fixtures: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	seedCmd.AddCommand(seedWatchCmd)
}

// watchFixtures imports filename now and after every change until ctx is done.
func watchFixtures(ctx context.Context, importer store.RecordsImporter, filename string) error {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filename, err)
	}

	reload := func() {
		if err := loadFixtures(ctx, importer, filename); err != nil {
			logger.Error("fixtures not loaded", zap.String("file", filename), zap.Error(err))
		}
	}

	fmt.Printf("Watching %s for changes\n", filename)
	reload()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != filename {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, reloading fixtures...\n", time.Now().Format(time.RFC3339))
				reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-ctx.Done():
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
