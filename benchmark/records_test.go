package benchmark

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/seed"
	"github.com/doodlesbykumbi/opsadmin/pkg/server"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/endpoints"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store/memory"
)

func newHandler(b *testing.B) http.Handler {
	b.Helper()

	cfg, err := config.Load()
	if err != nil {
		b.Fatal(err)
	}
	records := memory.NewRecordsStore()
	if _, err := seed.Apply(context.Background(), records, seed.Default()); err != nil {
		b.Fatal(err)
	}

	s := server.NewServer(records, records, cfg, nil, "127.0.0.1", "0")
	endpoints.RegisterAll(s)
	return s.Handler()
}

func BenchmarkListServers(b *testing.B) {
	handler := newHandler(b)

	for _, target := range []string{
		"/api/servers",
		"/api/servers?sort=hostName&order=DESC&page=2&perPage=2",
		"/api/servers?q=server",
		"/api/organizations/1/servers",
	} {
		b.Run("GET "+target, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				r := httptest.NewRequest("GET", target, nil)
				handler.ServeHTTP(httptest.NewRecorder(), r)
			}
		})
	}
}

func BenchmarkListServersParallel(b *testing.B) {
	handler := newHandler(b)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r := httptest.NewRequest("GET", "/api/servers?sort=hostName", nil)
			handler.ServeHTTP(httptest.NewRecorder(), r)
		}
	})
}

// BenchmarkRunningServer targets a server started separately, e.g.
// OPSADMIN_BENCH_URL=http://localhost:8000.
func BenchmarkRunningServer(b *testing.B) {
	base := os.Getenv("OPSADMIN_BENCH_URL")
	if base == "" {
		b.Skip("OPSADMIN_BENCH_URL is not set")
	}

	b.Run("GET /api/servers", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			resp, err := http.Get(base + "/api/servers")
			if err != nil {
				b.Fatal(err)
			}
			_ = resp.Body.Close()
		}
	})
}
