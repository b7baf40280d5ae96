package middleware

import (
	"context"
	"ggsc_backend/internal/config"
	"ggsc_backend/internal/model"
	"ggsc_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRevocations map[string]bool

func (s stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

func testCfg() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", ExpireTime: time.Hour}}
}

func newRouter(cfg *config.Config, rev RevocationChecker) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg, rev), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": util.GetUserFromContext(c).UserID})
	})
	r.GET("/admin", AuthMiddleware(cfg, rev), RoleMiddleware(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func token(t *testing.T, cfg *config.Config, role model.UserRole) (string, *util.Claims) {
	t.Helper()
	user := &model.User{Email: "a@x.com", Role: role}
	user.ID = "11111111-2222-3333-4444-555555555555"
	tok, claims, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		t.Fatal(err)
	}
	return tok, claims
}

func do(r *gin.Engine, path, tok string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testCfg()
	tok, claims := token(t, cfg, model.Participant)

	if code := do(newRouter(cfg, nil), "/me", ""); code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", code)
	}
	if code := do(newRouter(cfg, nil), "/me", "garbage"); code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", code)
	}
	if code := do(newRouter(cfg, nil), "/me", tok); code != http.StatusOK {
		t.Errorf("valid token: expected 200, got %d", code)
	}
	revoked := stubRevocations{claims.ID: true}
	if code := do(newRouter(cfg, revoked), "/me", tok); code != http.StatusUnauthorized {
		t.Errorf("revoked token: expected 401, got %d", code)
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testCfg()
	participant, _ := token(t, cfg, model.Participant)
	admin, _ := token(t, cfg, model.Admin)

	if code := do(newRouter(cfg, nil), "/admin", participant); code != http.StatusForbidden {
		t.Errorf("participant: expected 403, got %d", code)
	}
	if code := do(newRouter(cfg, nil), "/admin", admin); code != http.StatusNoContent {
		t.Errorf("admin: expected 204, got %d", code)
	}
}
