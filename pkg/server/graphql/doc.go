// Package graphql exposes the records store over GraphQL at /graphql.
//
// Each resource gets the same operations as the REST surface. For servers:
//
//	query {
//	  allServers(sort: "hostName", order: "ASC", page: 1, perPage: 10) { data { id hostName } total }
//	  server(id: 4) { hostName isActive }
//	  manyServers(ids: [1, 2]) { id }
//	}
//
//	mutation {
//	  updateServer(id: 4, data: "{\"isActive\": true}") { id isActive }
//	}
//
// Mutation data is a JSON object encoded as a string, using the same field
// names as the REST API.
package graphql
