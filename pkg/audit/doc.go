// Package audit records every record mutation as an RFC5424 syslog line.
//
// Events are written to stdout and, when AUDIT_DATABASE_URL is set,
// persisted into the messages table of that database. Set
// OPSADMIN_AUDIT_ENABLED=false to turn the trail off.
//
// # Usage
//
//	audit.Log(audit.RecordEvent{
//	    Operation: audit.OperationUpdate,
//	    Resource:  "servers",
//	    IDs:       []string{"4"},
//	    ClientIP:  r.RemoteAddr,
//	    Success:   true,
//	})
package audit
