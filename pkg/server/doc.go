// Package server provides the HTTP server for the opsadmin API.
//
// The server wires a records store to a gorilla/mux router. Every request
// passes through request-id tagging, structured access logging, panic
// recovery and CORS before reaching the router.
//
// # Server Setup
//
//	srv := server.NewServer(records, health, cfg, logger, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// API endpoints are registered via the endpoints and graphql subpackages:
//
//   - /api/{resource} - list, bulk read, bulk update and bulk delete
//   - /api/{resource}/{id} - read, update and delete one record
//   - /api/organizations/{id}/{servers|commands} - records owned by an organization
//   - /api/resources - resource names with record counts
//   - /graphql - the same operations over GraphQL
//   - /health and / - liveness and status page
package server
