package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/middleware"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// Exposed to browser clients so paginated lists can read their totals.
var exposedHeaders = []string{"X-Total-Count", "Content-Range", middleware.RequestIDHeader}

type Server struct {
	Records store.RecordsStore
	Health  store.HealthStore
	Config  *config.AdminConfig
	Logger  *zap.Logger
	Router  *mux.Router
	srv     *http.Server
}

func NewServer(
	records store.RecordsStore,
	health store.HealthStore,
	cfg *config.AdminConfig,
	logger *zap.Logger,
	host string,
	port string,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter().UseEncodedPath()
	s := &Server{
		Records: records,
		Health:  health,
		Config:  cfg,
		Logger:  logger,
		Router:  router,
	}
	s.srv = &http.Server{
		Handler: s.Handler(),
		Addr:    net.JoinHostPort(host, port),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return s
}

// Handler returns the router wrapped in the server's middleware chain.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	h = handlers.CORS(
		handlers.AllowedOrigins(s.Config.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders(exposedHeaders),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.Logger)),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = middleware.AccessLog(s.Logger)(h)
	return middleware.RequestID(h)
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Start serves until the server is shut down. It returns
// http.ErrServerClosed after a Shutdown.
func (s *Server) Start() error {
	s.Logger.Info("listening", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Serve accepts connections on l until the server is shut down.
func (s *Server) Serve(l net.Listener) error {
	s.Logger.Info("listening", zap.Stringer("addr", l.Addr()))
	return s.srv.Serve(l)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
