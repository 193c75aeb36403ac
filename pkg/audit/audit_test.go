package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := RecordEvent{
		Operation: OperationUpdate,
		Resource:  "servers",
		IDs:       []string{"4"},
		ClientIP:  "192.168.1.1",
		RequestID: "req-1",
		Success:   true,
	}

	logger.Log(event)

	output := buf.String()

	// PRI is local0 * 8 + info
	if !strings.HasPrefix(output, "<134>1 ") {
		t.Errorf("Expected <134>1 prefix, got %q", output)
	}
	if !strings.Contains(output, " opsadmin ") {
		t.Error("Expected app name 'opsadmin' in output")
	}
	if !strings.Contains(output, " update ") {
		t.Error("Expected message ID 'update' in output")
	}
	if !strings.Contains(output, `[action@32473 operation="update" result="success"]`) {
		t.Errorf("Expected sorted action element in output, got %q", output)
	}
	if !strings.Contains(output, `[client@32473 ip="192.168.1.1" request="req-1"]`) {
		t.Errorf("Expected client element in output, got %q", output)
	}
	if !strings.Contains(output, "192.168.1.1 updated servers 4") {
		t.Error("Expected success message in output")
	}
}

func TestRecordEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     RecordEvent
		wantMsg   string
		wantSev   Severity
		wantMsgID string
	}{
		{
			name: "create",
			event: RecordEvent{
				Operation: OperationCreate,
				Resource:  "organizations",
				IDs:       []string{"4"},
				ClientIP:  "10.0.0.1",
				Success:   true,
			},
			wantMsg:   "10.0.0.1 created organizations 4",
			wantSev:   SeverityInfo,
			wantMsgID: "create",
		},
		{
			name: "bulk delete",
			event: RecordEvent{
				Operation: OperationDeleteMany,
				Resource:  "commands",
				IDs:       []string{"1", "2", "3"},
				ClientIP:  "10.0.0.1",
				Success:   true,
			},
			wantMsg:   "10.0.0.1 deleted commands [1,2,3]",
			wantSev:   SeverityInfo,
			wantMsgID: "delete-many",
		},
		{
			name: "failed bulk update",
			event: RecordEvent{
				Operation:    OperationUpdateMany,
				Resource:     "servers",
				IDs:          []string{"7", "8"},
				Success:      false,
				ErrorMessage: "invalid server: rack is not a known field",
			},
			wantMsg:   "unknown client failed to update servers [7,8]: invalid server: rack is not a known field",
			wantSev:   SeverityWarning,
			wantMsgID: "update-many",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != FacilityLocal0 {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), FacilityLocal0)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestStructuredData(t *testing.T) {
	event := RecordEvent{
		Operation: OperationDelete,
		Resource:  "servers",
		IDs:       []string{"9"},
		ClientIP:  "10.0.0.1",
		Success:   false,
	}

	sd := event.StructuredData()
	if sd[SDIDRecord]["resource"] != "servers" {
		t.Errorf("resource = %q, want servers", sd[SDIDRecord]["resource"])
	}
	if sd[SDIDRecord]["ids"] != "9" {
		t.Errorf("ids = %q, want 9", sd[SDIDRecord]["ids"])
	}
	if sd[SDIDAction]["result"] != "failure" {
		t.Errorf("result = %q, want failure", sd[SDIDAction]["result"])
	}
	if _, ok := sd[SDIDClient]["request"]; ok {
		t.Error("request should be omitted when empty")
	}
}

func TestAuditToggle(t *testing.T) {
	var buf bytes.Buffer
	original := DefaultLogger
	DefaultLogger = NewLogger()
	DefaultLogger.SetWriter(&buf)
	defer func() {
		DefaultLogger = original
		SetEnabled(true)
	}()

	SetEnabled(false)
	Log(RecordEvent{Operation: OperationCreate, Resource: "servers", Success: true})
	if buf.Len() != 0 {
		t.Errorf("Expected no output while disabled, got %q", buf.String())
	}

	t.Setenv("AUDIT_DATABASE_URL", "")
	SetEnabled(true)
	Log(RecordEvent{Operation: OperationCreate, Resource: "servers", Success: true})
	if buf.Len() == 0 {
		t.Error("Expected output while enabled")
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
	}

	for _, tt := range tests {
		if got := escapeSDValue(tt.input); got != tt.want {
			t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
