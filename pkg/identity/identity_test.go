package identity

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keyhaven/keyhaven/pkg/model"
)

func TestContextRoundTrip(t *testing.T) {
	id := FromUser(&model.User{ID: "u1", Email: "ana@example.com", Role: model.RoleManager})

	ctx := Set(context.Background(), id)
	got, ok := Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", got.UserID)

	_, ok = Get(context.Background())
	assert.False(t, ok)
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, (&Identity{Role: model.RoleAdmin}).IsAdmin())
	assert.False(t, (&Identity{Role: model.RoleManager}).IsAdmin())
	assert.True(t, (&Identity{Role: model.RoleManager}).IsManagerOrAdmin())
	assert.False(t, (&Identity{Role: model.RoleContributor}).IsManagerOrAdmin())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:55000"
	assert.Equal(t, "10.1.2.3", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}

func TestWithRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:55000"
	r.Header.Set("User-Agent", "keyhaven-test")

	id := (&Identity{UserID: "u1"}).WithRequest(r)
	assert.Equal(t, "10.1.2.3", id.RemoteIP)
	assert.Equal(t, "keyhaven-test", id.UserAgent)
}
