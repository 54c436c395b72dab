package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var testSecret = []byte("test-secret")

func TestSignAndParseToken(t *testing.T) {
	tok, err := SignToken(testSecret, "u1", "a@b.com", "customer", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := ParseToken(testSecret, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@b.com" || claims.Role != "customer" {
		t.Fatalf("claims round trip: %+v", claims)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, _ := SignToken(testSecret, "u1", "a@b.com", "customer", time.Hour)
	if _, err := ParseToken([]byte("other"), tok); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseToken_Expired(t *testing.T) {
	tok, _ := SignToken(testSecret, "u1", "a@b.com", "customer", -time.Minute)
	if _, err := ParseToken(testSecret, tok); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(testSecret), func(c *gin.Context) {
		claims, _ := ClaimsFrom(c)
		c.String(http.StatusOK, claims.UserID)
	})
	r.GET("/admin", Auth(testSecret), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// no token
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d", w.Code)
	}

	// valid token
	tok, _ := SignToken(testSecret, "u1", "a@b.com", "customer", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "u1" {
		t.Fatalf("valid token: status=%d body=%s", w.Code, w.Body.String())
	}

	// customer hitting admin route
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route: status=%d", w.Code)
	}

	// admin token
	admTok, _ := SignToken(testSecret, "u2", "adm@b.com", RoleAdmin, time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+admTok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin on admin route: status=%d", w.Code)
	}
}
