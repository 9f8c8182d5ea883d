package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "symbols.map")
	want := []byte("foo T 1000 4\n")
	if err := os.WriteFile(path, want, 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	got, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("loadFile content = %q, want %q", got, want)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := loadFile(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if LastErrorKind() != ErrFile {
		t.Fatalf("LastErrorKind() = %v, want ErrFile", LastErrorKind())
	}
}

func TestLoadSymbolMapFromFile(t *testing.T) {
	t.Cleanup(UnloadSymbolMap)

	dir := t.TempDir()
	path := filepath.Join(dir, "symbols.map")
	if err := os.WriteFile(path, []byte("puts T bfc00100 4\n"), 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	n, err := LoadSymbolMap(path)
	if err != nil {
		t.Fatalf("LoadSymbolMap: %v", err)
	}
	if n != 1 {
		t.Fatalf("accepted = %d, want 1", n)
	}
	if addr := GetSymbolByName("puts"); addr != 0xbfc00100 {
		t.Fatalf("GetSymbolByName(puts) = %#x, want 0xbfc00100", addr)
	}
}
