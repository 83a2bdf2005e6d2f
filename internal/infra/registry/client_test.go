package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cratesup/cratesup/internal/app/resolve"
)

func TestIndexPath(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "c", want: "1/c"},
		{name: "ca", want: "2/ca"},
		{name: "car", want: "3/c/car"},
		{name: "cargo-syu", want: "ca/rg/cargo-syu"},
	}
	for _, tt := range tests {
		got, err := indexPath(tt.name)
		if err != nil {
			t.Fatalf("indexPath(%q) returned error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("indexPath(%q): expected %q, got %q", tt.name, tt.want, got)
		}
	}

	if _, err := indexPath(""); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestVersionsDecodesIndexLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ri/pg/ripgrep" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(
			`{"name":"ripgrep","vers":"14.0.0","yanked":false}` + "\n" +
				`{"name":"ripgrep","vers":"14.0.1","yanked":true}` + "\n" +
				`{"name":"ripgrep","vers":"14.1.0","yanked":false}` + "\n"))
	}))
	defer server.Close()

	versions, err := NewClient(server.URL, server.Client()).Versions(context.Background(), "ripgrep", "")
	if err != nil {
		t.Fatalf("Versions returned error: %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(versions))
	}
	if versions[1].Vers != "14.0.1" || !versions[1].Yanked {
		t.Fatalf("unexpected second entry: %+v", versions[1])
	}
}

func TestVersionsUsesRecordedRegistryURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/rg" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"name":"rg","vers":"1.0.0","yanked":false}` + "\n"))
	}))
	defer server.Close()

	// The client default points nowhere reachable; the lookup must follow
	// the per-crate registry URL instead.
	client := NewClient("http://127.0.0.1:0", server.Client())
	versions, err := client.Versions(context.Background(), "rg", server.URL+"/")
	if err != nil {
		t.Fatalf("Versions returned error: %v", err)
	}
	if len(versions) != 1 || versions[0].Vers != "1.0.0" {
		t.Fatalf("unexpected versions: %+v", versions)
	}
}

func TestBaseForMapsGitIndexToDefault(t *testing.T) {
	client := NewClient("https://sparse.example", nil)
	cases := map[string]string{
		"":                           "https://sparse.example",
		gitIndexURL:                  "https://sparse.example",
		gitIndexURL + "/":            "https://sparse.example",
		"https://my.registry/index/": "https://my.registry/index",
		"https://index.crates.io":    "https://index.crates.io",
	}
	for in, want := range cases {
		if got := client.baseFor(in); got != want {
			t.Fatalf("baseFor(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestVersionsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, server.Client()).Versions(context.Background(), "nosuchcrate", "")
	if !errors.Is(err, resolve.ErrPackageNotFound) {
		t.Fatalf("expected ErrPackageNotFound, got %v", err)
	}
}

func TestVersionsEmptyIndexFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("\n"))
	}))
	defer server.Close()

	if _, err := NewClient(server.URL, server.Client()).Versions(context.Background(), "odd", ""); err == nil {
		t.Fatal("expected error for empty index file")
	}
}

func TestVersionsMalformedEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"vers":`))
	}))
	defer server.Close()

	if _, err := NewClient(server.URL, server.Client()).Versions(context.Background(), "odd", ""); err == nil {
		t.Fatal("expected decode error")
	}
}
