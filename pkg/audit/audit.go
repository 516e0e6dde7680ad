package audit

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// SDID constants for structured data IDs (RFC5424)
const (
	SDIDAuth    = "auth@58434"
	SDIDSubject = "subject@58434"
	SDIDAction  = "action@58434"
	SDIDClient  = "client@58434"
)

// Syslog facility constants
const (
	FacilityAuth     = 4  // LOG_AUTH - security/authorization messages
	FacilityAuthPriv = 10 // LOG_AUTHPRIV - security/authorization messages (private)
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

// Event represents an audit event. Every state-changing or secret-revealing
// action emits one.
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
	// Record is the append-only row persisted for this event.
	Record() model.AuditLog
}

// Store persists audit records. Rows are append-only; there is no update or
// delete path.
type Store interface {
	SaveAuditLog(entry model.AuditLog) error
}

// Logger writes audit events in RFC5424 syslog format.
type Logger struct {
	writer   io.Writer
	hostname string
	appName  string
	pid      int
}

// NewLogger creates a new audit logger writing to stdout.
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		appName:  "keyhaven",
		pid:      os.Getpid(),
	}
}

// SetWriter sets the output writer for the logger.
func (l *Logger) SetWriter(w io.Writer) {
	l.writer = w
}

// Log writes an audit event in RFC5424 syslog format.
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

	_, _ = l.writer.Write([]byte(logLine))
}

// formatStructuredData formats the structured data according to RFC5424.
// Format: [sdid param1="value1" param2="value2"][sdid2 ...]
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	var parts []string
	for sdid, params := range sd {
		var paramParts []string
		paramParts = append(paramParts, sdid)
		for key, value := range params {
			escaped := escapeSDValue(value)
			paramParts = append(paramParts, fmt.Sprintf("%s=%s", key, escaped))
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

// Auditor emits audit events: each event is written as an RFC5424 line and
// persisted as an append-only row. Auditors are constructed once at process
// start and injected into the server; there is no package-level default.
type Auditor struct {
	logger *Logger
	store  Store
	zlog   *zap.Logger
}

// NewAuditor creates an Auditor. store may be nil (line logging only).
func NewAuditor(store Store, zlog *zap.Logger) *Auditor {
	if zlog == nil {
		zlog = zap.NewNop()
	}
	return &Auditor{
		logger: NewLogger(),
		store:  store,
		zlog:   zlog,
	}
}

// SetWriter redirects the RFC5424 line output (used by tests).
func (a *Auditor) SetWriter(w io.Writer) {
	a.logger.SetWriter(w)
}

// Log records an event. A persistence failure is logged and swallowed: the
// triggering mutation has already committed and is never rolled back or
// failed because of the audit write.
func (a *Auditor) Log(event Event) {
	a.logger.Log(event)

	if a.store == nil {
		return
	}
	if err := a.store.SaveAuditLog(event.Record()); err != nil {
		a.zlog.Error("audit: failed to persist event",
			zap.String("event_type", event.MessageID()),
			zap.Error(err),
		)
	}
}
