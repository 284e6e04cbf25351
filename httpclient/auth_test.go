package httpclient

import (
	"net/http"
	"testing"
)

func TestBasicAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://localhost", nil)
	BasicAuth("user", "pass").apply(req)
	u, p, ok := req.BasicAuth()
	if !ok || u != "user" || p != "pass" {
		t.Errorf("expected user/pass, got %q/%q", u, p)
	}
}

func TestBearerAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://localhost", nil)
	BearerAuth("tok").apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("expected 'Bearer tok', got %q", got)
	}
}

func TestNilAndNoneAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://localhost", nil)
	var a *AuthConfig
	a.apply(req)
	(&AuthConfig{Type: AuthNone}).apply(req)
	if req.Header.Get("Authorization") != "" {
		t.Error("expected no Authorization header")
	}
}
