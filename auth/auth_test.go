package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func guarded(g *Gate) http.Handler {
	return g.Middleware(Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
}

func TestGatePlainToken(t *testing.T) {
	h := guarded(NewGate("s3cret"))
	cases := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong", "X-API-Token", "nope", http.StatusUnauthorized},
		{"header", "X-API-Token", "s3cret", http.StatusNoContent},
		{"bearer", "Authorization", "Bearer s3cret", http.StatusNoContent},
		{"bearer lower", "Authorization", "bearer s3cret", http.StatusNoContent},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodPost, "/quotes/1/confirm", nil)
		if c.header != "" {
			r.Header.Set(c.header, c.value)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != c.want {
			t.Fatalf("%s: expected %d got %d", c.name, c.want, w.Code)
		}
	}
}

func TestGateBcryptHash(t *testing.T) {
	hash, err := HashToken("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	g := NewGate(hash)
	if !g.Check("s3cret") || g.Check("other") || g.Check("") {
		t.Fatal("bcrypt check mismatch")
	}
}

func TestOpenGateLetsEverythingThrough(t *testing.T) {
	g := NewGate("  ")
	if !g.Open() {
		t.Fatal("blank secret should leave the gate open")
	}
	w := httptest.NewRecorder()
	guarded(g).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}
}
