package audit

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// SDID constants for structured data IDs (RFC5424).
// 32473 is the enterprise number reserved for documentation and private use.
const (
	OpsAdminPEN = 32473
	SDIDRecord  = "record@32473"
	SDIDAction  = "action@32473"
	SDIDClient  = "client@32473"
)

// Syslog facility constants
const (
	FacilityUser   = 1  // LOG_USER - user-level messages
	FacilityLocal0 = 16 // LOG_LOCAL0 - application audit trail
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// AppName is written as APP-NAME in every audit line
const AppName = "opsadmin"

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Logger handles audit logging in RFC5424 syslog format
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	hostname string
	appName  string
	pid      int
}

// NewLogger creates a new audit logger
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		appName:  AppName,
		pid:      os.Getpid(),
	}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// Log writes an audit event in RFC5424 syslog format
// Format: <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (l *Logger) Log(event Event) {
	pri := event.Facility()*8 + int(event.Severity())
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	hostname := l.hostname
	if hostname == "" {
		hostname = "-"
	}

	logLine := fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s\n",
		pri,
		timestamp,
		hostname,
		l.appName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write([]byte(logLine))
}

// formatStructuredData formats the structured data according to RFC5424.
// Elements and params are sorted so lines are reproducible.
// Format: [sdid param1="value1" param2="value2"][sdid2 ...]
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	sdids := make([]string, 0, len(sd))
	for sdid := range sd {
		sdids = append(sdids, sdid)
	}
	sort.Strings(sdids)

	var parts []string
	for _, sdid := range sdids {
		params := sd[sdid]
		keys := make([]string, 0, len(params))
		for key := range params {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		paramParts := []string{sdid}
		for _, key := range keys {
			paramParts = append(paramParts, fmt.Sprintf("%s=%s", key, escapeSDValue(params[key])))
		}
		parts = append(parts, "["+strings.Join(paramParts, " ")+"]")
	}
	return strings.Join(parts, "")
}

// escapeSDValue escapes special characters in structured data values per RFC5424
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

// Default logger instance
var DefaultLogger = NewLogger()

// Default store for database persistence (nil if AUDIT_DATABASE_URL not set)
var DefaultStore *Store

// Audit is on unless OPSADMIN_AUDIT_ENABLED says otherwise
var (
	auditEnabled     = true
	auditEnabledOnce sync.Once
	storeInitOnce    sync.Once
)

// IsEnabled returns whether audit logging is enabled
func IsEnabled() bool {
	auditEnabledOnce.Do(func() {
		if env := os.Getenv("OPSADMIN_AUDIT_ENABLED"); env != "" {
			auditEnabled = env != "false" && env != "0" && env != "no"
		}
	})
	return auditEnabled
}

// SetEnabled allows programmatic control of audit logging
// Note: This should be called before any Log calls for consistent behavior
func SetEnabled(enabled bool) {
	auditEnabledOnce.Do(func() {})
	auditEnabled = enabled
}

// Log writes an event to the default logger and store (if audit is enabled)
func Log(event Event) {
	if !IsEnabled() {
		return
	}
	DefaultLogger.Log(event)

	storeInitOnce.Do(func() {
		var err error
		DefaultStore, err = NewStore()
		if err != nil {
			// audit DB is optional
			fmt.Fprintf(os.Stderr, "audit: failed to connect to audit database: %v\n", err)
		}
	})

	if DefaultStore != nil {
		if err := DefaultStore.Save(event); err != nil {
			fmt.Fprintf(os.Stderr, "audit: failed to save event: %v\n", err)
		}
	}
}
