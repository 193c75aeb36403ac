package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/server"
)

// Request is the body of a GraphQL request
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// RegisterGraphQLEndpoint serves the records schema at /graphql
func RegisterGraphQLEndpoint(s *server.Server) error {
	schema, err := NewSchema(s.Records, s.Config)
	if err != nil {
		return err
	}

	// POST /graphql - JSON request body
	s.Router.HandleFunc("/graphql", Handler(schema, s.Logger)).Methods("POST")

	// GET /graphql?query= - queries only, mutations are refused
	s.Router.HandleFunc("/graphql", Handler(schema, s.Logger)).Methods("GET").Queries("query", "{query}")
	return nil
}

// Handler executes GraphQL requests against schema
func Handler(schema graphql.Schema, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params Request
		if r.Method == http.MethodGet {
			params.Query = r.URL.Query().Get("query")
			params.OperationName = r.URL.Query().Get("operationName")
		} else if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			respond(w, http.StatusBadRequest, map[string]interface{}{
				"errors": []map[string]interface{}{{"message": "Invalid request body"}},
			})
			return
		}

		if r.Method == http.MethodGet && isMutation(params.Query, params.OperationName) {
			w.Header().Set("Allow", http.MethodPost)
			respond(w, http.StatusMethodNotAllowed, map[string]interface{}{
				"errors": []map[string]interface{}{{"message": "Mutations must be sent with POST"}},
			})
			return
		}

		opName := params.OperationName
		if opName == "" {
			opName = "-"
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  params.Query,
			VariableValues: params.Variables,
			OperationName:  params.OperationName,
			Context:        WithClientIP(r.Context(), r.RemoteAddr),
		})
		if result.HasErrors() {
			logger.Debug("graphql request failed", zap.String("operation", opName), zap.Any("errors", result.Errors))
		}

		respond(w, http.StatusOK, result)
	}
}

// isMutation reports whether the operation selected by operationName is a
// mutation. Documents that don't parse are left to graphql.Do to report.
func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok || op.Operation != ast.OperationTypeMutation {
			continue
		}
		if operationName == "" || (op.Name != nil && op.Name.Value == operationName) {
			return true
		}
	}
	return false
}

func respond(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
