package fileops

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestZipDirRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"index.js":        "exports.handler = null;",
		"lib/helper.js":   "module.exports = {};",
		"lib/deep/a.json": `{"k":"v"}`,
	})

	dst := filepath.Join(t.TempDir(), "out", "archive.zip")
	if err := ZipDir(src, dst); err != nil {
		t.Fatalf("ZipDir: %v", err)
	}

	reader, err := zip.OpenReader(dst)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer reader.Close()

	entries := map[string]bool{}
	for _, file := range reader.File {
		entries[file.Name] = true
	}
	for _, want := range []string{"index.js", "lib/helper.js", "lib/deep/a.json"} {
		if !entries[want] {
			t.Errorf("archive missing %s, has %v", want, entries)
		}
	}
	if len(reader.File) != 3 {
		t.Errorf("archive has %d entries, want 3", len(reader.File))
	}
}

func TestZipDirNoPartialOnMissingSource(t *testing.T) {
	dstDir := t.TempDir()
	dst := filepath.Join(dstDir, "archive.zip")
	if err := ZipDir(filepath.Join(dstDir, "absent"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	entries, err := os.ReadDir(dstDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("leftover files after failed zip: %v", entries)
	}
}

func TestCopyDirPreservesLayout(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"a.txt":       "a",
		"sub/b.txt":   "b",
		"sub/c/d.txt": "d",
	})

	dst := filepath.Join(t.TempDir(), "copy")
	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("CopyDir: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "sub", "c", "d.txt"))
	if err != nil {
		t.Fatalf("read copied file: %v", err)
	}
	if string(data) != "d" {
		t.Errorf("copied content = %q", data)
	}
}

func TestLatestModTime(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"old.txt":     "old",
		"sub/new.txt": "new",
	})

	newest := time.Now().Add(time.Hour)
	newPath := filepath.Join(root, "sub", "new.txt")
	if err := os.Chtimes(newPath, newest, newest); err != nil {
		t.Fatal(err)
	}

	latest, err := LatestModTime(root)
	if err != nil {
		t.Fatalf("LatestModTime: %v", err)
	}
	if !latest.Equal(newest) {
		t.Errorf("latest = %v, want %v", latest, newest)
	}
}

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists(file) = false")
	}
	if FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
	if !DirExists(dir) {
		t.Error("DirExists(dir) = false")
	}
	if DirExists(file) {
		t.Error("DirExists(file) = true")
	}
}
