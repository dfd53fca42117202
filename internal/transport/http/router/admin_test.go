package router_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sandeepramdas/tether/internal/domain"
	"github.com/sandeepramdas/tether/internal/transport/http/router"
	"github.com/sandeepramdas/tether/pkg/utils"
)

func newAdminEnv(t *testing.T) *testEnv {
	t.Helper()
	e := newTestEnv(t)
	e.engine = router.NewAdminEngine(zap.NewNop(), e.db, e.jwter)
	return e
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	tok, err := e.jwter.Issue("admin-1", "admin")
	assert.NoError(t, err)
	return tok
}

func seedTestUser(t *testing.T, e *testEnv, email, userType string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID: utils.NewID(), Email: email, DisplayName: email,
		Role: "user", UserType: userType, CountryCode: domain.CountryOther,
	}
	assert.NoError(t, e.db.Create(u).Error)
	return u
}

func TestAdminRequiresAdminRole(t *testing.T) {
	e := newAdminEnv(t)

	w := e.do(t, http.MethodGet, "/admin/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	userTok, err := e.jwter.Issue("user-1", "user")
	assert.NoError(t, err)
	w = e.do(t, http.MethodGet, "/admin/v1/users", userTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminListUsers(t *testing.T) {
	e := newAdminEnv(t)
	tok := e.adminToken(t)
	seedTestUser(t, e, "a@example.com", domain.UserTypeSeeker)
	seedTestUser(t, e, "b.provider@example.com", domain.UserTypeProvider)

	w := e.do(t, http.MethodGet, "/admin/v1/users", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := dataOf(t, w)
	assert.Equal(t, float64(2), data["total"])

	w = e.do(t, http.MethodGet, "/admin/v1/users?user_type=PROVIDER", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = dataOf(t, w)
	assert.Equal(t, float64(1), data["total"])
	items, _ := data["items"].([]any)
	if assert.Len(t, items, 1) {
		first, _ := items[0].(map[string]any)
		assert.Equal(t, "b.provider@example.com", first["email"])
	}

	w = e.do(t, http.MethodGet, "/admin/v1/users?q=b.provider", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), dataOf(t, w)["total"])
}

func TestAdminBanUser(t *testing.T) {
	e := newAdminEnv(t)
	tok := e.adminToken(t)
	u := seedTestUser(t, e, "ban.me@example.com", domain.UserTypeSeeker)

	w := e.do(t, http.MethodPost, "/admin/v1/users/"+u.ID+"/ban", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 软删后常规查询不可见
	var count int64
	e.db.Model(&domain.User{}).Where("id = ?", u.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	e.db.Unscoped().Model(&domain.User{}).Where("id = ?", u.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// 再封一次 → 404
	w = e.do(t, http.MethodPost, "/admin/v1/users/"+u.ID+"/ban", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 含软删的列表能看到
	w = e.do(t, http.MethodGet, "/admin/v1/users?with_deleted=true", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), dataOf(t, w)["total"])
}

func TestAdminProviderStatus(t *testing.T) {
	e := newAdminEnv(t)
	tok := e.adminToken(t)
	u := seedTestUser(t, e, "prov@example.com", domain.UserTypeProvider)
	p := &domain.ProviderProfile{
		ID: utils.NewID(), UserID: u.ID, BusinessName: "Prov Co",
		ServiceRadius: 10, Status: domain.ProfileStatusActive,
	}
	assert.NoError(t, e.db.Create(p).Error)

	w := e.do(t, http.MethodPost, "/admin/v1/providers/"+p.ID+"/status", tok, gin.H{"status": "INACTIVE"})
	assert.Equal(t, http.StatusOK, w.Code)

	var got domain.ProviderProfile
	assert.NoError(t, e.db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, domain.ProfileStatusInactive, got.Status)

	w = e.do(t, http.MethodPost, "/admin/v1/providers/missing/status", tok, gin.H{"status": "ACTIVE"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodPost, "/admin/v1/providers/"+p.ID+"/status", tok, gin.H{"status": "banana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
