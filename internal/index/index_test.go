package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark-oise/fangs/internal/objstore"
)

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	idx, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
}

func TestUpsert_AppendThenReplace(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	id1 := objstore.ID("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	id2 := objstore.ID("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	if err := idx.Upsert("a.txt", id1); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("Len() after first upsert = %d, want 1", idx.Len())
	}

	if err := idx.Upsert("a.txt", id2); err != nil {
		t.Fatalf("Upsert (replace): %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() after replacing same path = %d, want 1 (invariant: at most one entry per path)", idx.Len())
	}
	got, ok := idx.Lookup("a.txt")
	if !ok || got != id2 {
		t.Errorf("Lookup(a.txt) = %s, %v, want %s, true", got, ok, id2)
	}
}

func TestUpsert_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	id := objstore.ID("cccccccccccccccccccccccccccccccccccccccc")
	if err := idx.Upsert("dir/file.txt", id); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open (reopen): %v", err)
	}
	got, ok := reopened.Lookup("dir/file.txt")
	if !ok || got != id {
		t.Errorf("reopened Lookup(dir/file.txt) = %s, %v, want %s, true", got, ok, id)
	}
}

func TestUpsert_PathWithSpaceSurvivesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	id := objstore.ID("dddddddddddddddddddddddddddddddddddddddd")
	path := "my notes/todo list.txt"
	if err := idx.Upsert(path, id); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open (reopen): %v", err)
	}
	got, ok := reopened.Lookup(path)
	if !ok || got != id {
		t.Errorf("Lookup(%q) = %s, %v, want %s, true", path, got, ok, id)
	}
}

func TestUpsert_RejectsNewlineInPath(t *testing.T) {
	idx, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	err = idx.Upsert("a\nb.txt", objstore.ID("eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"))
	if err == nil {
		t.Fatal("Upsert with embedded newline: got nil error, want InvalidPath")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	id := objstore.ID("ffffffffffffffffffffffffffffffffffffffff")
	if err := idx.Upsert("a.txt", id); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := idx.Upsert("b.txt", id); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := idx.Remove("a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := idx.Lookup("a.txt"); ok {
		t.Error("a.txt still present after Remove")
	}
	if _, ok := idx.Lookup("b.txt"); !ok {
		t.Error("b.txt removed unexpectedly")
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open (reopen): %v", err)
	}
	if reopened.Len() != 1 {
		t.Errorf("reopened Len() = %d, want 1", reopened.Len())
	}
}

func TestEntries_SortedByPath(t *testing.T) {
	idx, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	id := objstore.ID("0000000000000000000000000000000000000a")
	for _, p := range []string{"z.txt", "a.txt", "m/b.txt"} {
		if err := idx.Upsert(p, id); err != nil {
			t.Fatalf("Upsert(%s): %v", p, err)
		}
	}

	entries := idx.Entries()
	want := []string{"a.txt", "m/b.txt", "z.txt"}
	if len(entries) != len(want) {
		t.Fatalf("Entries() = %v, want %d entries", entries, len(want))
	}
	for i, p := range want {
		if entries[i].Path != p {
			t.Errorf("Entries()[%d].Path = %q, want %q", i, entries[i].Path, p)
		}
	}
}

func TestAsFlatTree(t *testing.T) {
	idx, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	id1 := objstore.ID("1111111111111111111111111111111111111111"[:40])
	id2 := objstore.ID("2222222222222222222222222222222222222222"[:40])
	if err := idx.Upsert("a.txt", id1); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := idx.Upsert("b.txt", id2); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	tree := idx.AsFlatTree()
	if tree["a.txt"] != id1 || tree["b.txt"] != id2 {
		t.Errorf("AsFlatTree() = %+v", tree)
	}
}

func TestOpen_RejectsCorruptLine(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index"), []byte("not-a-valid-line-without-separator\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Open(dir)
	if err == nil {
		t.Fatal("Open on corrupt index: got nil error, want CorruptObject")
	}
}
