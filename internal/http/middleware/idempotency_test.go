package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newIdemRouter(lookup IdempotencyLookup, authedUser string) *gin.Engine {
	r := newTestRouter(func(c *gin.Context) {
		if authedUser != "" {
			c.Set(CtxUserID, authedUser)
		}
		c.Next()
	}, IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/orders", func(c *gin.Context) {
		key, _ := GetIdempotencyKey(c)
		c.JSON(http.StatusOK, gin.H{"key": key, "replay": IsReplay(c)})
	})
	return r
}

func TestIdempotencyValidator_NoHeaderPassesThrough(t *testing.T) {
	r := newIdemRouter(nil, "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"key":""`) {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestIdempotencyValidator_RejectsMalformedKey(t *testing.T) {
	r := newIdemRouter(nil, "u1")

	for _, bad := range []string{"has spaces", "emoji☃", strings.Repeat("x", 201)} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(HeaderIdempotencyKey, bad)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("key %q: status = %d, want 400", bad, w.Code)
		}
	}
}

func TestIdempotencyValidator_MarksReplay(t *testing.T) {
	lookup := func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
		return userID == "u1" && key == "seen-before", nil
	}
	r := newIdemRouter(lookup, "u1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set(HeaderIdempotencyKey, "seen-before")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"replay":true`) {
		t.Fatalf("replay not marked: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set(HeaderIdempotencyKey, "fresh-key")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("fresh key marked as replay: %s", w.Body.String())
	}
}

func TestIdempotencyValidator_AnonymousSkipsLookup(t *testing.T) {
	called := false
	lookup := func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
		called = true
		return true, nil
	}
	r := newIdemRouter(lookup, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set(HeaderIdempotencyKey, "some-key")
	r.ServeHTTP(w, req)
	if called {
		t.Fatal("lookup ran for anonymous request")
	}
	if !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("anonymous marked as replay: %s", w.Body.String())
	}
}
