package cratesfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingManifest(t *testing.T) {
	entries, found, err := (Store{}).Load(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if found {
		t.Fatal("expected manifest to be reported absent")
	}
	if entries != nil {
		t.Fatalf("expected nil entries, got %v", entries)
	}
}

func TestLoadEntries(t *testing.T) {
	root := t.TempDir()
	content := `[v1]
"ripgrep 14.1.0 (registry+https://github.com/rust-lang/crates.io-index)" = ["rg"]
"fd-find 10.2.0 (registry+https://github.com/rust-lang/crates.io-index)" = ["fd"]
`
	mustWrite(t, filepath.Join(root, FileName), content)

	entries, found, err := (Store{}).Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !found {
		t.Fatal("expected manifest to be found")
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	bins := entries["ripgrep 14.1.0 (registry+https://github.com/rust-lang/crates.io-index)"]
	if len(bins) != 1 || bins[0] != "rg" {
		t.Fatalf("unexpected bins: %v", bins)
	}
}

func TestLoadEmptyV1Table(t *testing.T) {
	// The state cargo leaves after the last crate is uninstalled.
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, FileName), "[v1]\n")

	entries, found, err := (Store{}).Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !found {
		t.Fatal("expected manifest to be reported present")
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty entry table, got %v", entries)
	}
}

func TestLoadMissingV1Table(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, FileName), "[v2]\n")

	_, found, err := (Store{}).Load(context.Background(), root)
	if err == nil {
		t.Fatal("expected error for manifest without [v1] table")
	}
	if !found {
		t.Fatal("expected manifest to be reported present")
	}
}

func TestLoadMalformedToml(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, FileName), "[v1\n= broken")

	if _, _, err := (Store{}).Load(context.Background(), root); err == nil {
		t.Fatal("expected parse error")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
