package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "token.json")
	st, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, err := st.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store: got %v, want ErrNotFound", err)
	}

	if err := st.Save("abc123"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tok, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tok != "abc123" {
		t.Fatalf("Load: got %q, want %q", tok, "abc123")
	}

	// Overwrite keeps a single live value.
	if err := st.Save("def456"); err != nil {
		t.Fatalf("Save (overwrite): %v", err)
	}
	tok, err = st.Load()
	if err != nil {
		t.Fatalf("Load after overwrite: %v", err)
	}
	if tok != "def456" {
		t.Fatalf("Load after overwrite: got %q, want %q", tok, "def456")
	}

	if err := st.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after delete: got %v, want ErrNotFound", err)
	}

	// Delete of an absent token is a no-op.
	if err := st.Delete(); err != nil {
		t.Fatalf("Delete (absent): %v", err)
	}
}

func TestFileStoreRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	st, err := NewFileStore(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := st.Save("  "); err == nil {
		t.Fatalf("Save with blank token: expected error")
	}
}

func TestFileStorePermissions(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	path := filepath.Join(t.TempDir(), "token.json")
	st, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := st.Save("abc123"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file perm: got %o, want 600", perm)
	}
}
