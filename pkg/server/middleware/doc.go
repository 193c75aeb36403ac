// Package middleware provides the HTTP middleware shared by every opsadmin
// endpoint: request ids and structured access logging.
package middleware
