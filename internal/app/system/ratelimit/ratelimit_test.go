package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllow_DeniesAfterBurst(t *testing.T) {
	l := New(1, 3)
	defer l.Close()

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("expected request beyond burst to be denied")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := New(1, 1)
	defer l.Close()

	if !l.Allow("a") {
		t.Fatal("first request for a denied")
	}
	if l.Allow("a") {
		t.Error("second request for a should be denied")
	}
	if !l.Allow("b") {
		t.Error("b should have its own bucket")
	}
}

func TestReset(t *testing.T) {
	l := New(1, 1)
	defer l.Close()

	l.Allow("a")
	l.Reset("a")
	if !l.Allow("a") {
		t.Error("expected full bucket after Reset")
	}
}

func TestEvictIdle(t *testing.T) {
	l := New(60, 5)
	defer l.Close()

	l.Allow("old")
	l.Allow("new")
	l.mu.Lock()
	l.buckets["old"].lastSeen = time.Now().Add(-time.Hour)
	l.mu.Unlock()

	l.evictIdle(time.Now())

	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestMiddleware(t *testing.T) {
	l := New(1, 1)
	defer l.Close()

	limited := 0
	h := l.Middleware(func(r *http.Request) string {
		return r.Header.Get("X-Key")
	}, func() { limited++ })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/images", nil)
		if key != "" {
			req.Header.Set("X-Key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do("t1"); rec.Code != http.StatusOK {
		t.Fatalf("first request: status %d", rec.Code)
	}
	rec := do("t1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if limited != 1 {
		t.Errorf("onLimited called %d times, want 1", limited)
	}

	// Requests without a key are not limited.
	for i := 0; i < 3; i++ {
		if rec := do(""); rec.Code != http.StatusOK {
			t.Errorf("keyless request %d: status %d", i, rec.Code)
		}
	}
}

func TestClose_Idempotent(t *testing.T) {
	l := New(10, 1)
	l.Close()
	l.Close()
}
