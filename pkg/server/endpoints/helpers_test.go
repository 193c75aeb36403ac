package endpoints

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/seed"
	"github.com/doodlesbykumbi/opsadmin/pkg/server"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store/memory"
)

func testConfig() *config.AdminConfig {
	return &config.AdminConfig{
		StoreBackend:       config.BackendMemory,
		SeedDefaults:       true,
		StrictNotFound:     true,
		ListLimitMax:       1000,
		DefaultPerPage:     10,
		CORSAllowedOrigins: []string{"*"},
		AuditEnabled:       true,
		LogLevel:           "info",
	}
}

// newSeededServer returns a server backed by a memory store loaded with the
// default fixtures.
func newSeededServer(t *testing.T, opts ...memory.Option) *server.Server {
	t.Helper()

	records := memory.NewRecordsStore(opts...)
	_, err := seed.Apply(context.Background(), records, seed.Default())
	require.NoError(t, err)

	return newServer(records, records)
}

func newServer(records store.RecordsStore, health store.HealthStore) *server.Server {
	srv := server.NewServer(records, health, testConfig(), zap.NewNop(), "127.0.0.1", "0")
	RegisterAll(srv)
	return srv
}

func do(t *testing.T, srv *server.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func names(data []map[string]any, field string) []any {
	out := make([]any, len(data))
	for i, row := range data {
		out[i] = row[field]
	}
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, w.Code, w.Body.String())
}

