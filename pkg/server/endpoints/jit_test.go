package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/notify"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

func TestCreateJITRequest(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleContributor)

	item := &model.Item{ID: "it-1", VaultID: "v-1", Title: "prod db"}
	ts.items.On("FindByID", "it-1").Return(item, nil)
	ts.vaults.On("FindByID", "v-1").Return(&model.Vault{ID: "v-1", Name: "Prod", Path: "Ops > Prod"}, nil)
	ts.requests.On("HasActiveGrant", "u-contributor", "it-1", mock.AnythingOfType("time.Time")).Return(false, nil)
	ts.requests.On("CreateJIT", mock.AnythingOfType("*model.JITRequest")).Return(nil)

	rec := ts.do(t, http.MethodPost, "/jit-requests", token, map[string]interface{}{
		"item_id":        "it-1",
		"reason":         "deploy window",
		"duration_hours": 4,
	})
	requireStatus(t, rec, http.StatusCreated)

	var created model.JITRequest
	decodeResponse(t, rec, &created)
	assert.Equal(t, model.RequestPending, created.Status)
	assert.Equal(t, "u-contributor", created.RequesterID)
	assert.Equal(t, 4, created.RequestedDurationHours)
	assert.Contains(t, ts.auditRec.eventTypes(), "jit_requested")

	// Filing a request announces it on the channel.
	require.Len(t, ts.sink.payloads, 1)
	msg, ok := ts.sink.payloads[0].(notify.TextMessage)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "prod db")
	assert.Contains(t, msg.Text, "Ops > Prod")
	assert.Contains(t, msg.Text, "deploy window")
}

func TestCreateJITRequestRejectsDuplicateGrant(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleContributor)

	item := &model.Item{ID: "it-1", VaultID: "v-1", Title: "prod db"}
	ts.items.On("FindByID", "it-1").Return(item, nil)
	ts.requests.On("HasActiveGrant", "u-contributor", "it-1", mock.AnythingOfType("time.Time")).Return(true, nil)

	rec := ts.do(t, http.MethodPost, "/jit-requests", token, map[string]interface{}{
		"item_id":        "it-1",
		"reason":         "again please",
		"duration_hours": 1,
	})
	requireStatus(t, rec, http.StatusBadRequest)
	ts.requests.AssertNotCalled(t, "CreateJIT", mock.Anything)
}

func TestCreateJITRequestValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleContributor)

	rec := ts.do(t, http.MethodPost, "/jit-requests", token, map[string]interface{}{
		"item_id":        "it-1",
		"duration_hours": 4,
	})
	requireStatus(t, rec, http.StatusUnprocessableEntity)

	rec = ts.do(t, http.MethodPost, "/jit-requests", token, map[string]interface{}{
		"item_id":        "it-1",
		"reason":         "x",
		"duration_hours": -1,
	})
	requireStatus(t, rec, http.StatusUnprocessableEntity)
}

func TestCreateJITRequestDefaultsDuration(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleContributor)

	item := &model.Item{ID: "it-1", VaultID: "v-1", Title: "prod db"}
	ts.items.On("FindByID", "it-1").Return(item, nil)
	ts.vaults.On("FindByID", "v-1").Return(&model.Vault{ID: "v-1", Name: "Prod", Path: "Ops > Prod"}, nil)
	ts.requests.On("HasActiveGrant", "u-contributor", "it-1", mock.AnythingOfType("time.Time")).Return(false, nil)
	ts.requests.On("CreateJIT", mock.AnythingOfType("*model.JITRequest")).Return(nil)

	rec := ts.do(t, http.MethodPost, "/jit-requests", token, map[string]interface{}{
		"item_id": "it-1",
		"reason":  "forgot the duration",
	})
	requireStatus(t, rec, http.StatusCreated)

	var created model.JITRequest
	decodeResponse(t, rec, &created)
	assert.Equal(t, 2, created.RequestedDurationHours)
}

func TestApproveJITStampsExpiryFromDuration(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleManager)

	pending := &model.JITRequest{
		ID:                     "req-1",
		RequesterID:            "u-dev",
		ItemID:                 "it-1",
		Status:                 model.RequestPending,
		RequestedDurationHours: 6,
	}
	ts.requests.On("FindJITByID", "req-1").Return(pending, nil)

	approvedAt := time.Now().UTC()
	expiresAt := approvedAt.Add(6 * time.Hour)
	var gotDuration time.Duration
	approved := &model.JITRequest{
		ID:          "req-1",
		RequesterID: "u-dev",
		ItemID:      "it-1",
		Status:      model.RequestApproved,
		ApprovedAt:  &approvedAt,
		ExpiresAt:   &expiresAt,
	}
	ts.requests.On("ApproveJIT", "req-1", "u-manager", mock.AnythingOfType("time.Duration")).
		Run(func(args mock.Arguments) { gotDuration = args.Get(2).(time.Duration) }).
		Return(approved, nil)
	ts.users.On("FindByID", "u-dev").Return(&model.User{ID: "u-dev", Name: "Dev One", Email: "dev@example.com"}, nil)
	ts.items.On("FindByID", "it-1").Return(&model.Item{ID: "it-1", VaultID: "v-1", Title: "prod db"}, nil)

	rec := ts.do(t, http.MethodPost, "/jit-requests/req-1/approve", token, nil)
	requireStatus(t, rec, http.StatusOK)

	assert.Equal(t, 6*time.Hour, gotDuration)
	assert.Contains(t, ts.auditRec.eventTypes(), "jit_approved")

	// Approval announces the grant and its expiry.
	require.Len(t, ts.sink.payloads, 1)
	msg, ok := ts.sink.payloads[0].(notify.TextMessage)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "Dev One")
	assert.Contains(t, msg.Text, "prod db")
	assert.Contains(t, msg.Text, expiresAt.Format("2006-01-02 15:04 UTC"))
}

func TestApproveJITTwiceIsBadRequest(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleManager)

	decided := &model.JITRequest{ID: "req-1", Status: model.RequestApproved, RequestedDurationHours: 2}
	ts.requests.On("FindJITByID", "req-1").Return(decided, nil)
	ts.requests.On("ApproveJIT", "req-1", "u-manager", mock.AnythingOfType("time.Duration")).
		Return(nil, store.ErrInvalidState)

	rec := ts.do(t, http.MethodPost, "/jit-requests/req-1/approve", token, nil)
	requireStatus(t, rec, http.StatusBadRequest)
	assert.NotContains(t, ts.auditRec.eventTypes(), "jit_approved")
}

func TestContributorCannotDecideJIT(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleContributor)

	rec := ts.do(t, http.MethodPost, "/jit-requests/req-1/approve", token, nil)
	requireStatus(t, rec, http.StatusForbidden)

	rec = ts.do(t, http.MethodPost, "/jit-requests/req-1/deny", token, nil)
	requireStatus(t, rec, http.StatusForbidden)
	ts.requests.AssertNotCalled(t, "ApproveJIT", mock.Anything, mock.Anything, mock.Anything)
	ts.requests.AssertNotCalled(t, "DenyJIT", mock.Anything, mock.Anything)
}

func TestListJITSweepsOverdueGrants(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleManager)

	ts.requests.On("ExpireOverdue", mock.AnythingOfType("time.Time")).Return(nil)
	ts.requests.On("ListJIT", store.RequestFilter{}).Return([]model.JITRequest{}, nil)

	rec := ts.do(t, http.MethodGet, "/jit-requests", token, nil)
	requireStatus(t, rec, http.StatusOK)
	ts.requests.AssertCalled(t, "ExpireOverdue", mock.AnythingOfType("time.Time"))
}

func TestListJITContributorSeesOnlyOwn(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleContributor)

	ts.requests.On("ExpireOverdue", mock.AnythingOfType("time.Time")).Return(nil)
	ts.requests.On("ListJIT", store.RequestFilter{UserID: "u-contributor"}).
		Return([]model.JITRequest{}, nil)

	rec := ts.do(t, http.MethodGet, "/jit-requests", token, nil)
	requireStatus(t, rec, http.StatusOK)
	ts.requests.AssertExpectations(t)
}

func TestDenyJIT(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleAdmin)

	denied := &model.JITRequest{ID: "req-1", ItemID: "it-1", Status: model.RequestDenied}
	ts.requests.On("DenyJIT", "req-1", "u-admin").Return(denied, nil)

	rec := ts.do(t, http.MethodPost, "/jit-requests/req-1/deny", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var got model.JITRequest
	decodeResponse(t, rec, &got)
	require.Equal(t, model.RequestDenied, got.Status)
	assert.Contains(t, ts.auditRec.eventTypes(), "jit_denied")
}
