package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func doGet(t *testing.T, router *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestPageMiddleware_ByteIdenticalWithinWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := newTestCache(t)
	counter := 0
	router := gin.New()
	router.GET("/", c.PageMiddleware(20*time.Second), func(ctx *gin.Context) {
		counter++
		ctx.String(http.StatusOK, "render-%d", counter)
	})

	first := doGet(t, router, "/")
	second := doGet(t, router, "/")

	if first.Body.String() != second.Body.String() {
		t.Errorf("responses within the window differ: %q vs %q", first.Body.String(), second.Body.String())
	}
	if counter != 1 {
		t.Errorf("handler ran %d times, want 1", counter)
	}
}

func TestPageMiddleware_ExpiryRecomputes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, mr := newTestCache(t)
	counter := 0
	router := gin.New()
	router.GET("/", c.PageMiddleware(20*time.Second), func(ctx *gin.Context) {
		counter++
		ctx.String(http.StatusOK, "render-%d", counter)
	})

	first := doGet(t, router, "/")
	mr.FastForward(21 * time.Second)
	third := doGet(t, router, "/")

	if first.Body.String() == third.Body.String() {
		t.Error("response after expiry should reflect a fresh render")
	}
	if counter != 2 {
		t.Errorf("handler ran %d times, want 2", counter)
	}
}

func TestPageMiddleware_KeyIncludesQueryString(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := newTestCache(t)
	router := gin.New()
	router.GET("/", c.PageMiddleware(20*time.Second), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "page-%s", ctx.Query("page"))
	})

	p1 := doGet(t, router, "/?page=1")
	p2 := doGet(t, router, "/?page=2")

	if p1.Body.String() == p2.Body.String() {
		t.Error("different query strings must cache independently")
	}
}

func TestPageMiddleware_NilCachePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var c *Cache
	counter := 0
	router := gin.New()
	router.GET("/", c.PageMiddleware(20*time.Second), func(ctx *gin.Context) {
		counter++
		ctx.String(http.StatusOK, "render-%d", counter)
	})

	doGet(t, router, "/")
	doGet(t, router, "/")
	if counter != 2 {
		t.Errorf("nil cache should recompute every request, handler ran %d times", counter)
	}
}
