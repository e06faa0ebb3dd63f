package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark-oise/fangs/internal/objstore"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestScan_ExcludesMetaDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello")
	writeFile(t, root, filepath.Join(MetaDir, "HEAD"), "ref: refs/heads/master")

	files, err := Scan(root, &Matcher{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 || files[0].Path != "a.txt" {
		t.Errorf("Scan() = %+v, want only a.txt", files)
	}
}

func TestScan_ComputesBlobID(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello")

	files, err := Scan(root, &Matcher{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want, err := objstore.HashBlob([]byte("hello"))
	if err != nil {
		t.Fatalf("HashBlob: %v", err)
	}
	if len(files) != 1 || files[0].ID != want {
		t.Errorf("Scan() = %+v, want id %s", files, want)
	}
}

func TestScan_RespectsIgnoreMatcher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", "x")
	writeFile(t, root, "skip.log", "x")
	writeFile(t, root, ".fangsignore", "*.log\n")

	m := LoadMatcher(root)
	files, err := Scan(root, m)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	paths := map[string]bool{}
	for _, f := range files {
		paths[f.Path] = true
	}
	if !paths["keep.txt"] {
		t.Error("keep.txt missing from scan")
	}
	if paths["skip.log"] {
		t.Error("skip.log should have been ignored")
	}
	if !paths[".fangsignore"] {
		t.Error(".fangsignore itself is not ignored and should be scanned")
	}
}

func TestScan_IgnoreDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "vendor/pkg/a.go", "package pkg")
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, ".fangsignore", "vendor/\n")

	m := LoadMatcher(root)
	files, err := Scan(root, m)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, f := range files {
		if f.Path == "vendor/pkg/a.go" {
			t.Errorf("vendor/pkg/a.go should have been skipped via dirOnly ignore rule")
		}
	}
}

func TestScan_Empty(t *testing.T) {
	root := t.TempDir()
	files, err := Scan(root, &Matcher{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Scan() on empty dir = %+v, want empty", files)
	}
}
