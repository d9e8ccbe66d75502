package clip

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStageCookies(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cookies")
	jar := "# Netscape HTTP Cookie File\n.youtube.com\tTRUE\t/\tTRUE\t0\tSID\tabc\n"

	path, err := StageCookies(dir, base64.StdEncoding.EncodeToString([]byte(jar)))
	if err != nil {
		t.Fatalf("StageCookies: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "cookies-") {
		t.Errorf("unexpected file name %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(data) != jar {
		t.Errorf("staged content mismatch: %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("staged file permissions = %o, want 600", perm)
	}

	// Staging never deletes; the file is still there until the caller acts.
	if err := os.Remove(path); err != nil {
		t.Errorf("caller-owned deletion failed: %v", err)
	}
}

func TestStageCookies_unique_names(t *testing.T) {
	dir := t.TempDir()
	payload := base64.StdEncoding.EncodeToString([]byte("jar"))

	a, err := StageCookies(dir, payload)
	if err != nil {
		t.Fatal(err)
	}
	b, err := StageCookies(dir, payload)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("expected distinct paths, got %q twice", a)
	}
}

func TestStageCookies_bad_payload(t *testing.T) {
	if _, err := StageCookies(t.TempDir(), "not base64!!!"); err == nil {
		t.Error("expected decode error")
	}
}
