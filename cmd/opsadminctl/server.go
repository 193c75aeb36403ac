package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/server"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/endpoints"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/graphql"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the opsadmin application server",
	Long: `Run the opsadmin application server.

The store backend comes from store_backend (OPSADMIN_STORE_BACKEND). The
memory backend starts from the seed file, or the built-in fixtures when
seed_defaults is on. The postgres backend requires DATABASE_URL and runs
database migrations on startup unless --no-migrate is given.

Example:
  opsadminctl server
  opsadminctl server -p 3000 --seed fixtures.yml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		seedFile, _ := cmd.Flags().GetString("seed")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, config.Get(), host, port, noMigrate, seedFile)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().String("seed", "", "fixtures file to load on start (overrides seed_file)")
}

func runServer(ctx context.Context, cfg *config.AdminConfig, host, port string, noMigrate bool, seedFile string) error {
	if seedFile == "" {
		seedFile = cfg.SeedFile
	}

	var records backend
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if !noMigrate {
			logger.Info("running database migrations")
			if err := runMigrations(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		}

		pg, err := openPostgres(cfg)
		if err != nil {
			return err
		}
		records = pg

		// Only an explicit fixtures file is loaded into a persistent store.
		if seedFile != "" {
			f, err := fixtures(seedFile, false)
			if err != nil {
				return err
			}
			if err := applyFixtures(ctx, records, f, seedFile); err != nil {
				return err
			}
		}
	default:
		records = newMemory(cfg)

		f, err := fixtures(seedFile, cfg.SeedDefaults)
		if err != nil {
			return err
		}
		if f != nil {
			source := seedFile
			if source == "" {
				source = "built-in fixtures"
			}
			if err := applyFixtures(ctx, records, f, source); err != nil {
				return err
			}
		}
	}

	s := server.NewServer(records, records, cfg, logger, host, port)
	endpoints.RegisterAll(s)
	if err := graphql.RegisterGraphQLEndpoint(s); err != nil {
		return fmt.Errorf("building graphql schema: %w", err)
	}

	logger.Info("running server",
		zap.String("url", fmt.Sprintf("http://%s", s.Addr())),
		zap.String("backend", cfg.StoreBackend),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
