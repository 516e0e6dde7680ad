package audit

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyhaven/keyhaven/pkg/model"
)

type recordingStore struct {
	saved []model.AuditLog
	err   error
}

func (s *recordingStore) SaveAuditLog(entry model.AuditLog) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, entry)
	return nil
}

func testActor() Actor {
	return Actor{
		UserID:    "u-1",
		UserEmail: "ops@example.com",
		ClientIP:  "10.1.2.3",
		UserAgent: "curl/8.0",
	}
}

func TestLoggerRFC5424Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	logger.Log(ItemRevealedEvent{
		Base:  Base{Actor: testActor(), ItemID: "it-1", VaultID: "v-1"},
		Title: "prod db password",
	})

	line := buf.String()
	require.True(t, strings.HasSuffix(line, "\n"))

	// <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
	header := regexp.MustCompile(`^<\d+>1 \d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z \S+ keyhaven \d+ item_revealed `)
	assert.Regexp(t, header, line)

	assert.Contains(t, line, `[auth@58434`)
	assert.Contains(t, line, `email="ops@example.com"`)
	assert.Contains(t, line, `item="it-1"`)
	assert.Contains(t, line, "prod db password")
}

func TestLoggerPriEncodesFacilityAndSeverity(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	// authpriv(10)*8 + critical(2) = 82
	logger.Log(BreakGlassRequestedEvent{
		Base:   Base{Actor: testActor()},
		Reason: "pager is down",
	})
	assert.True(t, strings.HasPrefix(buf.String(), "<82>1 "))
}

func TestEscapeSDValue(t *testing.T) {
	assert.Equal(t, `"plain"`, escapeSDValue("plain"))
	assert.Equal(t, `"a\"b"`, escapeSDValue(`a"b`))
	assert.Equal(t, `"a\\b"`, escapeSDValue(`a\b`))
	assert.Equal(t, `"a\]b"`, escapeSDValue("a]b"))
}

func TestAuditorPersistsRecord(t *testing.T) {
	store := &recordingStore{}
	auditor := NewAuditor(store, nil)
	auditor.SetWriter(&bytes.Buffer{})

	auditor.Log(JITApprovedEvent{
		Base:      Base{Actor: testActor(), ItemID: "it-9"},
		RequestID: "req-1",
	})

	require.Len(t, store.saved, 1)
	entry := store.saved[0]
	assert.Equal(t, "jit_approved", entry.EventType)
	assert.Equal(t, "u-1", entry.UserID)
	assert.Equal(t, "ops@example.com", entry.UserEmail)
	assert.Equal(t, "it-9", entry.ItemID)
	assert.Equal(t, "10.1.2.3", entry.IPAddress)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestAuditorSwallowsStoreFailure(t *testing.T) {
	store := &recordingStore{err: errors.New("connection reset")}
	auditor := NewAuditor(store, nil)

	var buf bytes.Buffer
	auditor.SetWriter(&buf)

	// Must not panic and must still emit the syslog line.
	auditor.Log(LogoutEvent{Base: Base{Actor: testActor()}})
	assert.Contains(t, buf.String(), "logout")
}

func TestAuditorNilStore(t *testing.T) {
	auditor := NewAuditor(nil, nil)
	var buf bytes.Buffer
	auditor.SetWriter(&buf)

	auditor.Log(LoginEvent{Base: Base{Actor: testActor()}})
	assert.Contains(t, buf.String(), "login")
}
