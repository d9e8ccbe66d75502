package clip

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_probe_order(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "clip.mkv"))
	touch(t, filepath.Join(dir, "clip.mp4"))

	path, ok := probeScanResolver{}.Resolve(dir, "clip")
	if !ok {
		t.Fatal("expected a match")
	}
	if want := filepath.Join(dir, "clip.mp4"); path != want {
		t.Errorf("Resolve = %q, want preferred %q", path, want)
	}
}

func TestResolve_scan_fallback(t *testing.T) {
	dir := t.TempDir()
	// An extension outside the probe list is still discovered by prefix.
	touch(t, filepath.Join(dir, "clip.f137.m4a"))
	touch(t, filepath.Join(dir, "other.mp4"))

	path, ok := probeScanResolver{}.Resolve(dir, "clip")
	if !ok {
		t.Fatal("expected a match")
	}
	if want := filepath.Join(dir, "clip.f137.m4a"); path != want {
		t.Errorf("Resolve = %q, want %q", path, want)
	}
}

func TestResolve_no_match(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "unrelated.mp4"))
	touch(t, filepath.Join(dir, "clipx.mp4")) // prefix must include the dot

	if path, ok := (probeScanResolver{}).Resolve(dir, "clip"); ok {
		t.Errorf("expected no match, got %q", path)
	}
}

func TestResolve_missing_dir(t *testing.T) {
	if path, ok := (probeScanResolver{}).Resolve("/nonexistent/clipserver-test", "clip"); ok {
		t.Errorf("expected no match, got %q", path)
	}
}
