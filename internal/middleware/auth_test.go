package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/debatearchive/backend/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(sessions *auth.SessionService) *gin.Engine {
	router := gin.New()
	router.Use(AuthMiddleware(sessions))
	router.GET("/protected", func(c *gin.Context) {
		ident, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": ident.UserID})
	})
	return router
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	sessions := auth.NewSessionService("test-secret", "")
	router := newAuthRouter(sessions)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_NotBearer(t *testing.T) {
	sessions := auth.NewSessionService("test-secret", "")
	router := newAuthRouter(sessions)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	sessions := auth.NewSessionService("test-secret", "")
	router := newAuthRouter(sessions)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	sessions := auth.NewSessionService("test-secret", "")
	router := newAuthRouter(sessions)

	token, err := sessions.GenerateToken("user_2abc", nil, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
}

type staticChecker struct {
	ok  bool
	err error
}

func (s staticChecker) IsVerifier(auth.Identity) (bool, error) { return s.ok, s.err }

func newModRouter(checker auth.CapabilityChecker, withIdentity bool) *gin.Engine {
	router := gin.New()
	if withIdentity {
		router.Use(func(c *gin.Context) {
			c.Set(ContextIdentity, auth.Identity{UserID: "user_mod"})
			c.Set(ContextUserID, "user_mod")
		})
	}
	router.Use(RequireVerifier(checker))
	router.GET("/mod", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestRequireVerifier(t *testing.T) {
	tests := []struct {
		name         string
		checker      staticChecker
		withIdentity bool
		wantStatus   int
	}{
		{"granted", staticChecker{ok: true}, true, http.StatusOK},
		{"denied", staticChecker{ok: false}, true, http.StatusForbidden},
		{"checker error", staticChecker{err: errors.New("db down")}, true, http.StatusInternalServerError},
		{"no identity", staticChecker{ok: true}, false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newModRouter(tt.checker, tt.withIdentity)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/mod", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded single", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			if got := ClientIP(c); got != tt.want {
				t.Errorf("ClientIP() = %s, want %s", got, tt.want)
			}
		})
	}
}
