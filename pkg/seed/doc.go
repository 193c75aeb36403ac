// Package seed loads fixture records into a records store and exports a
// store's contents back to the same YAML layout.
//
// A fixtures file lists records per resource, keyed by the JSON field names
// the REST API uses:
//
//	organizations:
//	  - id: 1
//	    orgId: ORG001
//	    orgName: Tech Solutions Inc
//	servers:
//	  - id: 1
//	    hostName: app-server-01
//	    orgId: 1
//
// Records keep the ids given in the file. Records without an id are assigned
// the next free one.
package seed
