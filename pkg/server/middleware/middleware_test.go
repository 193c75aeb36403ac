package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "generated when absent"},
		{name: "reused when valid", incoming: "4f1c2d3e-5a6b-4c7d-8e9f-0a1b2c3d4e5f", reuse: true},
		{name: "replaced when malformed", incoming: "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/servers", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
			if tt.reuse {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
			}
		})
	}
}

func TestRequestIDFromEmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestID(AccessLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodDelete, "/api/commands/3?x=1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "DELETE", fields["method"])
	assert.Equal(t, "/api/commands/3?x=1", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(15), fields["size"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), fields["request_id"])
}
