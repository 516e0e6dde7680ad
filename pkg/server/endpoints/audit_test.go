package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

func TestListAuditLogsClampsLimit(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleManager)

	entries := []model.AuditLog{{ID: "a-1", EventType: "item_revealed"}}
	var captured store.AuditFilter
	ts.auditDB.On("ListAuditLogs", mock.AnythingOfType("store.AuditFilter")).
		Run(func(args mock.Arguments) { captured = args.Get(0).(store.AuditFilter) }).
		Return(entries, nil)
	ts.auditDB.On("CountAuditLogs", mock.AnythingOfType("store.AuditFilter")).Return(int64(1), nil)

	rec := ts.do(t, http.MethodGet, "/audit-logs?limit=99999&event_type=item_revealed", token, nil)
	requireStatus(t, rec, http.StatusOK)

	assert.Equal(t, 1000, captured.Limit)
	assert.Equal(t, "item_revealed", captured.EventType)

	var resp struct {
		Entries []model.AuditLog `json:"entries"`
		Total   int64            `json:"total"`
		Limit   int              `json:"limit"`
	}
	decodeResponse(t, rec, &resp)
	assert.Len(t, resp.Entries, 1)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 1000, resp.Limit)
}

func TestListAuditLogsEnrichesNames(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleManager)

	entries := []model.AuditLog{
		{ID: "a-1", EventType: "item_revealed", VaultID: "v-1", ItemID: "it-1"},
		{ID: "a-2", EventType: "vault_deleted", VaultID: "v-gone"},
	}
	ts.auditDB.On("ListAuditLogs", mock.AnythingOfType("store.AuditFilter")).Return(entries, nil)
	ts.auditDB.On("CountAuditLogs", mock.AnythingOfType("store.AuditFilter")).Return(int64(2), nil)
	ts.vaults.On("FindByID", "v-1").Return(&model.Vault{ID: "v-1", Name: "Prod"}, nil)
	ts.vaults.On("FindByID", "v-gone").Return(nil, store.ErrVaultNotFound)
	ts.items.On("FindByID", "it-1").Return(&model.Item{ID: "it-1", Title: "prod db"}, nil)

	rec := ts.do(t, http.MethodGet, "/audit-logs", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var resp struct {
		Entries []model.AuditLog `json:"entries"`
	}
	decodeResponse(t, rec, &resp)
	if assert.Len(t, resp.Entries, 2) {
		assert.Equal(t, "Prod", resp.Entries[0].Details["vault_name"])
		assert.Equal(t, "prod db", resp.Entries[0].Details["item_title"])
		assert.Equal(t, "Unknown Vault", resp.Entries[1].Details["vault_name"])
	}
}

func TestContributorCannotReadAuditLogs(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleContributor)

	rec := ts.do(t, http.MethodGet, "/audit-logs", token, nil)
	requireStatus(t, rec, http.StatusForbidden)
}

func TestDashboardStats(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authAs(t, model.RoleContributor)

	ts.stats.On("Dashboard").Return(&store.DashboardStats{
		TotalVaults:        4,
		TotalItems:         120,
		PendingJITRequests: 2,
	}, nil)

	rec := ts.do(t, http.MethodGet, "/stats/dashboard", token, nil)
	requireStatus(t, rec, http.StatusOK)

	var stats store.DashboardStats
	decodeResponse(t, rec, &stats)
	assert.Equal(t, int64(120), stats.TotalItems)
	assert.Equal(t, int64(2), stats.PendingJITRequests)
}

func TestRecentActivityRequiresAuditRead(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/stats/activity", ts.authAs(t, model.RoleContributor), nil)
	requireStatus(t, rec, http.StatusForbidden)

	ts.stats.On("RecentActivity", 20).Return([]model.AuditLog{{ID: "a-1"}}, nil)
	rec = ts.do(t, http.MethodGet, "/stats/activity", ts.authAs(t, model.RoleManager), nil)
	requireStatus(t, rec, http.StatusOK)
}

func TestSettingsAdminOnly(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/settings", ts.authAs(t, model.RoleManager), nil)
	requireStatus(t, rec, http.StatusForbidden)

	rec = ts.do(t, http.MethodGet, "/settings", ts.authAs(t, model.RoleAdmin), nil)
	requireStatus(t, rec, http.StatusOK)

	var cfg map[string]interface{}
	decodeResponse(t, rec, &cfg)
	assert.EqualValues(t, 1000, cfg["api_list_limit_max"])
}
