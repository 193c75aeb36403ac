package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/server"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// StatusResponse is the JSON form of the status page
type StatusResponse struct {
	Version   string         `json:"version"`
	Backend   string         `json:"backend"`
	Resources map[string]int `json:"resources"`
}

// HealthResponse represents the response from /health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// RegisterStatusEndpoints registers the status page and health check
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page, HTML unless JSON is requested
	s.Router.HandleFunc("/", handleStatus(s.Records, s.Config, s.Logger)).Methods("GET")

	// GET /health - Backend connectivity
	s.Router.HandleFunc("/health", handleHealth(s.Health)).Methods("GET")
}

func version() string {
	if v := os.Getenv("OPSADMIN_VERSION_DISPLAY"); v != "" {
		return v
	}
	return "0.1.0"
}

func handleStatus(records store.RecordsStore, cfg *config.AdminConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := StatusResponse{
			Version:   version(),
			Backend:   cfg.StoreBackend,
			Resources: map[string]int{},
		}
		for _, resource := range model.ResourceValues() {
			count, err := records.Count(r.Context(), resource)
			if err != nil {
				respondWithStoreError(w, logger, err)
				return
			}
			status.Resources[resource.String()] = count
		}

		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		if format == "json" || strings.Contains(accept, "application/json") {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(status)
			return
		}

		page, err := renderStatus(status)
		if err != nil {
			logger.Error("rendering status page", zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}

func renderStatus(status StatusResponse) ([]byte, error) {
	var src bytes.Buffer
	fmt.Fprintf(&src, "# Status\n\nYour opsadmin server is running!\n\n")
	fmt.Fprintf(&src, "- Version %s\n- Store backend `%s`\n\n", status.Version, status.Backend)
	fmt.Fprintf(&src, "| Resource | Records |\n|---|---:|\n")
	for _, resource := range model.ResourceValues() {
		name := resource.String()
		fmt.Fprintf(&src, "| [%s](/api/%s) | %d |\n", resourceLabel(resource), name, status.Resources[name])
	}

	var body bytes.Buffer
	if err := markdown.Convert(src.Bytes(), &body); err != nil {
		return nil, err
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n  <head>\n    <meta charset=\"utf-8\">\n    <title>opsadmin Status</title>\n  </head>\n  <body>\n")
	page.Write(body.Bytes())
	page.WriteString("  </body>\n</html>\n")
	return page.Bytes(), nil
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
