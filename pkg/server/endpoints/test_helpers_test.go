package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/authn"
	"github.com/keyhaven/keyhaven/pkg/config"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/notify"
	"github.com/keyhaven/keyhaven/pkg/server"
	"github.com/keyhaven/keyhaven/pkg/server/middleware"
)

// recordingAuditStore captures persisted audit rows for assertions.
type recordingAuditStore struct {
	entries []model.AuditLog
}

func (s *recordingAuditStore) SaveAuditLog(entry model.AuditLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *recordingAuditStore) eventTypes() []string {
	var types []string
	for _, e := range s.entries {
		types = append(types, e.EventType)
	}
	return types
}

// recordingSink captures webhook payloads for assertions.
type recordingSink struct {
	payloads []interface{}
}

func (s *recordingSink) Send(ctx context.Context, payload interface{}) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

type testServer struct {
	srv      *server.Server
	users    *MockUsersStore
	vaults   *MockVaultsStore
	items    *MockItemsStore
	requests *MockRequestsStore
	auditDB  *MockAuditStore
	stats    *MockStatsStore
	auditRec *recordingAuditStore
	sink     *recordingSink
	issuer   *authn.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		BindAddress:          "127.0.0.1",
		Port:                 0,
		SessionTokenTTLHours: 1,
		APIListLimitMax:      1000,
	}

	users := NewMockUsersStore()
	vaults := NewMockVaultsStore()
	items := NewMockItemsStore()
	requests := NewMockRequestsStore()
	auditDB := NewMockAuditStore()
	stats := NewMockStatsStore()

	auditRec := &recordingAuditStore{}
	auditor := audit.NewAuditor(auditRec, nil)
	auditor.SetWriter(&bytes.Buffer{})

	sink := &recordingSink{}
	notifier := notify.NewNotifier(sink, nil)

	issuer := authn.NewTokenIssuer([]byte("endpoint-test-key"), time.Hour)
	loginService := authn.NewLoginService(users, issuer, "")
	sessionMiddleware := middleware.NewSessionAuthenticator(issuer, users)

	srv := server.NewServer(cfg, nil, server.Stores{
		Users:    users,
		Vaults:   vaults,
		Items:    items,
		Requests: requests,
		Audit:    auditDB,
		Stats:    stats,
	}, auditor, notifier, loginService, nil, sessionMiddleware)

	RegisterAll(srv)

	return &testServer{
		srv:      srv,
		users:    users,
		vaults:   vaults,
		items:    items,
		requests: requests,
		auditDB:  auditDB,
		stats:    stats,
		auditRec: auditRec,
		sink:     sink,
		issuer:   issuer,
	}
}

// authAs mints a session for a user with the given role and primes the users
// store to resolve it.
func (ts *testServer) authAs(t *testing.T, role string) string {
	t.Helper()
	user := &model.User{
		ID:     "u-" + role,
		Email:  role + "@example.com",
		Role:   role,
		Status: model.StatusActive,
	}
	ts.users.On("FindByID", user.ID).Return(user, nil)

	token, err := ts.issuer.Issue(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
