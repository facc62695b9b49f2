package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pa1nf0rce/yatube/internal/db"
	"github.com/pa1nf0rce/yatube/internal/models"
	"github.com/pa1nf0rce/yatube/pkg/config"
)

func setupUsers(t *testing.T) (*db.UserRepository, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db.NewUserRepository(db.NewRepository(gdb)), gdb
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
	user := &models.User{ID: 42}

	token, err := IssueToken(user, cfg)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	id, err := parseToken(token, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("parseToken: %v", err)
	}
	if id != 42 {
		t.Errorf("parseToken = %d, want 42", id)
	}

	// A different secret must not verify
	if _, err := parseToken(token, "other-secret"); err == nil {
		t.Error("token signed with another secret should not parse")
	}
}

func TestCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users, gdb := setupUsers(t)
	cfg := &config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}

	seeded := &models.User{Username: "leo", Email: "leo@example.com", PasswordHash: "x"}
	if err := gdb.Create(seeded).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	router := gin.New()
	router.Use(CurrentUser(users, cfg))
	router.GET("/whoami", func(c *gin.Context) {
		if user := GetCurrentUser(c); user != nil {
			c.String(http.StatusOK, user.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	// Valid cookie resolves the user
	token, err := IssueToken(seeded, cfg)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Body.String() != "leo" {
		t.Errorf("whoami with cookie = %q, want leo", w.Body.String())
	}

	// Bearer header works too
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Body.String() != "leo" {
		t.Errorf("whoami with bearer = %q, want leo", w.Body.String())
	}

	// Garbage token falls through to anonymous
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Body.String() != "anonymous" {
		t.Errorf("whoami with garbage token = %q, want anonymous", w.Body.String())
	}
}

func TestLoginRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/private", LoginRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/private?page=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	want := LoginPath + "?next=%2Fprivate%3Fpage%3D2"
	if got := w.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}
