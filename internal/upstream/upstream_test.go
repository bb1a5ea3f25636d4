package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kingrea/gsd/internal/version"
)

func TestCompare(t *testing.T) {
	cases := []struct {
		current, latest string
		result          string
		needsUpdate     bool
	}{
		{"1.0.0", "1.1.0", Behind, true},
		{"1.2.0", "1.1.9", Ahead, false},
		{"1.1.0", "1.1.0", UpToDate, false},
		{"1.1", "1.1.0", UpToDate, false},
		{"1", "1.0.1", Behind, true},
		{"v2.0.0", "1.9.9", Ahead, false},
		{"1.0.0-beta.1", "v1.0.0", UpToDate, false},
		{"1.x.0", "1.3.0", UpToDate, false},
		{"1.x.1", "1.3.2", Behind, true},
	}
	for _, tc := range cases {
		got := Compare(tc.current, tc.latest)
		if got.Result != tc.result || got.NeedsUpdate != tc.needsUpdate {
			t.Fatalf("Compare(%q, %q) = %+v, want %s", tc.current, tc.latest, got, tc.result)
		}
		if got.Current != tc.current || got.Latest != tc.latest {
			t.Fatalf("Compare did not echo inputs: %+v", got)
		}
	}
}

func TestProxyFromEnv(t *testing.T) {
	cases := map[string]string{
		"":                           DefaultProxy,
		"direct":                     DefaultProxy,
		"off":                        DefaultProxy,
		"https://goproxy.io/,direct": "https://goproxy.io",
		"direct|http://proxy.local":  "http://proxy.local",
	}
	for env, want := range cases {
		if got := proxyFromEnv(env); got != want {
			t.Fatalf("proxyFromEnv(%q) = %q, want %q", env, got, want)
		}
	}
}

func TestLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/github.com/!burnt!sushi/toml/@latest":
			w.Write([]byte(`{"Version":"v1.6.0","Time":"2025-01-01T00:00:00Z"}`))
		case "/example.com/empty/@latest":
			w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := &Client{Proxy: srv.URL, HTTP: srv.Client()}

	got, err := c.Latest(context.Background(), "github.com/BurntSushi/toml")
	if err != nil || got != "v1.6.0" {
		t.Fatalf("Latest = %q, %v", got, err)
	}
	if _, err := c.Latest(context.Background(), "example.com/empty"); !errors.Is(err, ErrNoVersion) {
		t.Fatalf("expected ErrNoVersion, got %v", err)
	}
	if _, err := c.Latest(context.Background(), "example.com/missing"); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestCheckUsesLinkedVersion(t *testing.T) {
	old := version.Version
	version.Version = "v0.9.0"
	defer func() { version.Version = old }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Version":"v1.0.0"}`))
	}))
	defer srv.Close()

	got, err := (&Client{Proxy: srv.URL, HTTP: srv.Client()}).Check(context.Background())
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !got.NeedsUpdate || got.Result != Behind || got.Current != "v0.9.0" {
		t.Fatalf("Check = %+v", got)
	}
}
