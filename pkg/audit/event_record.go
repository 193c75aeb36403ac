package audit

import (
	"fmt"
	"strings"
)

// Record operations
const (
	OperationCreate     = "create"
	OperationUpdate     = "update"
	OperationUpdateMany = "update-many"
	OperationDelete     = "delete"
	OperationDeleteMany = "delete-many"
)

// RecordEvent represents a mutation of one or more records
type RecordEvent struct {
	Operation    string
	Resource     string
	IDs          []string
	ClientIP     string
	RequestID    string
	Success      bool
	ErrorMessage string
}

func (e RecordEvent) MessageID() string {
	return e.Operation
}

func (e RecordEvent) target() string {
	switch len(e.IDs) {
	case 0:
		return e.Resource
	case 1:
		return fmt.Sprintf("%s %s", e.Resource, e.IDs[0])
	}
	return fmt.Sprintf("%s [%s]", e.Resource, strings.Join(e.IDs, ","))
}

func (e RecordEvent) verb() string {
	switch e.Operation {
	case OperationCreate:
		return "created"
	case OperationUpdate, OperationUpdateMany:
		return "updated"
	case OperationDelete, OperationDeleteMany:
		return "deleted"
	}
	return e.Operation
}

func (e RecordEvent) Message() string {
	client := e.ClientIP
	if client == "" {
		client = "unknown client"
	}
	if e.Success {
		return fmt.Sprintf("%s %s %s", client, e.verb(), e.target())
	}
	msg := fmt.Sprintf("%s failed to %s %s", client, strings.TrimSuffix(e.Operation, "-many"), e.target())
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RecordEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e RecordEvent) Facility() int {
	return FacilityLocal0
}

func (e RecordEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDRecord: {
			"resource": e.Resource,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if len(e.IDs) > 0 {
		sd[SDIDRecord]["ids"] = strings.Join(e.IDs, ",")
	}
	if e.RequestID != "" {
		sd[SDIDClient]["request"] = e.RequestID
	}
	return sd
}
