package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/db"
	"github.com/doodlesbykumbi/opsadmin/pkg/server"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/endpoints"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/graphql"
	gormstore "github.com/doodlesbykumbi/opsadmin/pkg/server/store/gorm"
)

// portCounter is used to allocate unique ports for each test server
var portCounter int32 = 19000

// ServerConfig holds configuration for a test opsadmin server instance
type ServerConfig struct {
	StrictNotFound bool
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{StrictNotFound: true}
}

// ServerInstance represents a running opsadmin server
type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	Port          int
	Config        ServerConfig
	cancel        context.CancelFunc
	listener      net.Listener
	serverProcess *exec.Cmd // For binary mode
}

// StartServer starts a new opsadmin server against the test database.
// This supports both inline and binary modes based on how the test suite was started.
func StartServer(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	if tc.InlineMode {
		return startInlineServerInstance(tc.DatabaseURL, cfg)
	}
	return startBinaryServerInstance(tc.BinaryPath, tc.DatabaseURL, cfg)
}

// startInlineServerInstance starts an in-process server
func startInlineServerInstance(dbURL string, cfg ServerConfig) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))

	adminCfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	adminCfg.StoreBackend = config.BackendPostgres
	adminCfg.StrictNotFound = cfg.StrictNotFound

	database, err := db.Connect(db.Config{URL: dbURL})
	if err != nil {
		return nil, err
	}

	var opts []gormstore.Option
	if !cfg.StrictNotFound {
		opts = append(opts, gormstore.WithLenientNotFound())
	}
	records, err := gormstore.NewRecordsStore(database, opts...)
	if err != nil {
		return nil, err
	}

	s := server.NewServer(records, gormstore.NewHealthStore(database), adminCfg, nil, "127.0.0.1", strconv.Itoa(port))
	endpoints.RegisterAll(s)
	if err := graphql.RegisterGraphQLEndpoint(s); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}

	instance := &ServerInstance{
		Server:    s,
		ServerURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:      port,
		Config:    cfg,
		listener:  listener,
	}

	go func() {
		_ = s.Serve(listener)
	}()

	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// startBinaryServerInstance starts a server using the opsadminctl binary
func startBinaryServerInstance(binaryPath, dbURL string, cfg ServerConfig) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))

	ctx, cancel := context.WithCancel(context.Background())

	// Migrations already ran in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", strconv.Itoa(port))
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"OPSADMIN_STORE_BACKEND="+config.BackendPostgres,
		"OPSADMIN_SEED_DEFAULTS=false",
		"OPSADMIN_STRICT_NOT_FOUND="+strconv.FormatBool(cfg.StrictNotFound),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:          port,
		Config:        cfg,
		cancel:        cancel,
		serverProcess: cmd,
	}

	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.cancel != nil {
		si.cancel()
	}
	if si.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = si.Server.Shutdown(ctx)
	}
	if si.listener != nil {
		_ = si.listener.Close()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}
