package endpoints

import (
	"github.com/doodlesbykumbi/opsadmin/pkg/server"
)

// RegisterAll registers all REST endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterRecordsEndpoints(srv)
}
