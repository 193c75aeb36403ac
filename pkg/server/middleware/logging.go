package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

// AccessLog writes one structured log entry per request.
func AccessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, params handlers.LogFormatterParams) {
			logger.Info("request",
				zap.String("method", params.Request.Method),
				zap.String("path", params.URL.RequestURI()),
				zap.Int("status", params.StatusCode),
				zap.Int("size", params.Size),
				zap.Duration("duration", time.Since(params.TimeStamp)),
				zap.String("remote", params.Request.RemoteAddr),
				zap.String("request_id", params.Request.Header.Get(RequestIDHeader)),
			)
		})
	}
}
