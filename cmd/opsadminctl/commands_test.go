package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/opsadmin/pkg/audit"
	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/seed"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store/memory"
)

const oneOrganization = `organizations:
  - id: 1
    orgId: ORG001
    orgName: Tech Solutions Inc
    mnemonic: TSI
    authorizationMode: functional
`

const twoOrganizations = oneOrganization + `  - id: 2
    orgId: ORG002
    orgName: Global Finance Corp
    mnemonic: GFC
    authorizationMode: ad_group
`

func TestFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yml")
	require.NoError(t, os.WriteFile(path, []byte(oneOrganization), 0o600))

	f, err := fixtures(path, true)
	require.NoError(t, err)
	assert.Len(t, f.Organizations, 1)

	f, err = fixtures("", true)
	require.NoError(t, err)
	assert.Equal(t, seed.Default(), f)

	f, err = fixtures("", false)
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = fixtures(filepath.Join(t.TempDir(), "missing.yml"), true)
	assert.Error(t, err)
}

func TestNewMemoryHonorsStrictNotFound(t *testing.T) {
	ctx := context.Background()

	strict := newMemory(&config.AdminConfig{StrictNotFound: true})
	_, err := strict.GetOne(ctx, model.ResourceServers, 1)
	assert.Error(t, err)

	lenient := newMemory(&config.AdminConfig{StrictNotFound: false})
	r, err := lenient.GetOne(ctx, model.ResourceServers, 1)
	assert.NoError(t, err)
	assert.Nil(t, r)
}

func TestRunExport(t *testing.T) {
	ctx := context.Background()
	records := memory.NewRecordsStore()
	_, err := seed.Apply(ctx, records, seed.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runExport(ctx, records, &buf))

	exported, err := seed.Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, exported.Organizations, 3)
	assert.Len(t, exported.Servers, 6)
	assert.Len(t, exported.Commands, 5)
}

func TestWatchFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yml")
	require.NoError(t, os.WriteFile(path, []byte(oneOrganization), 0o600))

	records := memory.NewRecordsStore()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchFixtures(ctx, records, path) }()

	count := func() int {
		n, err := records.Count(context.Background(), model.ResourceOrganizations)
		require.NoError(t, err)
		return n
	}
	assert.Eventually(t, func() bool { return count() == 1 }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(twoOrganizations), 0o600))
	assert.Eventually(t, func() bool { return count() == 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWaitForServer(t *testing.T) {
	ready := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ready.Close()
	assert.NoError(t, waitForServer(ready.URL, 1, time.Millisecond))

	unavailable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unavailable.Close()
	assert.Error(t, waitForServer(unavailable.URL, 2, time.Millisecond))
}

func TestShowConfiguration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("store_backend: sqlite\n"), 0o600))
	t.Setenv("OPSADMIN_CONFIG_PATH", dir)

	var buf bytes.Buffer
	require.NoError(t, showConfiguration(&buf, "text"))
	assert.Contains(t, buf.String(), "sqlite")
	assert.Contains(t, buf.String(), "Warning: invalid store_backend value: sqlite")

	buf.Reset()
	require.NoError(t, showConfiguration(&buf, "json"))
	assert.Contains(t, buf.String(), `"store_backend"`)
}

func TestPrintPending(t *testing.T) {
	files := []string{
		"000001_create_organizations.up.sql",
		"000002_create_servers.up.sql",
		"000003_create_commands.up.sql",
	}

	out := captureStdout(t, func() { printPending(files, 1) })
	assert.Contains(t, out, "Pending migrations (2):")
	assert.Contains(t, out, "000002_create_servers")
	assert.NotContains(t, out, "000001_create_organizations")

	out = captureStdout(t, func() { printPending(files, 3) })
	assert.Contains(t, out, "No pending migrations")
}

func TestPrintAuditMessages(t *testing.T) {
	var buf bytes.Buffer
	printAuditMessages(&buf, nil)
	assert.Equal(t, "No audit messages\n", buf.String())

	buf.Reset()
	printAuditMessages(&buf, []audit.Message{{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Msgid:     audit.OperationUpdate,
		Message:   "10.0.0.1 updated servers 4",
	}})
	assert.Equal(t, "2026-03-01T12:00:00Z  update       10.0.0.1 updated servers 4\n", buf.String())
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	fn()
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}
