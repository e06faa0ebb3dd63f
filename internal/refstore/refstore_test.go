package refstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/objstore"
)

func TestRead_Missing(t *testing.T) {
	s := New(t.TempDir())

	ref, err := s.Read(HEAD)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ref.Kind != Missing {
		t.Errorf("Kind = %v, want Missing", ref.Kind)
	}
}

func TestWriteDirectThenRead(t *testing.T) {
	s := New(t.TempDir())
	id := objstore.ID("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	if err := s.WriteDirect(BranchRef("master"), id); err != nil {
		t.Fatalf("WriteDirect: %v", err)
	}

	ref, err := s.Read(BranchRef("master"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ref.Kind != DirectRef || ref.Direct != id {
		t.Errorf("Read() = %+v, want direct %s", ref, id)
	}
}

func TestResolve_SymbolicToDirect(t *testing.T) {
	s := New(t.TempDir())
	id := objstore.ID("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	if err := s.WriteDirect(BranchRef("master"), id); err != nil {
		t.Fatalf("WriteDirect: %v", err)
	}
	if err := s.WriteSymbolic(HEAD, BranchRef("master")); err != nil {
		t.Fatalf("WriteSymbolic: %v", err)
	}

	got, err := s.Resolve(HEAD)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != id {
		t.Errorf("Resolve(HEAD) = %s, want %s", got, id)
	}
}

func TestResolve_UnbornBranch(t *testing.T) {
	s := New(t.TempDir())

	if err := s.WriteSymbolic(HEAD, BranchRef("master")); err != nil {
		t.Fatalf("WriteSymbolic: %v", err)
	}

	_, err := s.Resolve(HEAD)
	if !errors.Is(err, ErrUnborn) {
		t.Errorf("Resolve(HEAD) on unborn branch: got %v, want ErrUnborn", err)
	}
}

func TestResolve_Cycle(t *testing.T) {
	s := New(t.TempDir())

	if err := s.WriteSymbolic("refs/heads/a", "refs/heads/b"); err != nil {
		t.Fatalf("WriteSymbolic(a): %v", err)
	}
	if err := s.WriteSymbolic("refs/heads/b", "refs/heads/a"); err != nil {
		t.Fatalf("WriteSymbolic(b): %v", err)
	}

	_, err := s.Resolve("refs/heads/a")
	if !errors.Is(err, fangserr.CycleError) {
		t.Errorf("Resolve on a cycle: got %v, want CycleError", err)
	}
}

func TestAdvanceHEAD_WritesThroughSymbolicTarget(t *testing.T) {
	s := New(t.TempDir())
	id := objstore.ID("cccccccccccccccccccccccccccccccccccccccc")

	if err := s.WriteSymbolic(HEAD, BranchRef("master")); err != nil {
		t.Fatalf("WriteSymbolic: %v", err)
	}
	if err := s.AdvanceHEAD(id); err != nil {
		t.Fatalf("AdvanceHEAD: %v", err)
	}

	// HEAD itself must remain symbolic — only its target advances
	// (spec.md Open Question 2).
	head, err := s.Read(HEAD)
	if err != nil {
		t.Fatalf("Read(HEAD): %v", err)
	}
	if head.Kind != SymbolicRef || head.Symbolic != BranchRef("master") {
		t.Errorf("HEAD mutated directly: %+v", head)
	}

	branch, err := s.Read(BranchRef("master"))
	if err != nil {
		t.Fatalf("Read(master): %v", err)
	}
	if branch.Kind != DirectRef || branch.Direct != id {
		t.Errorf("master ref = %+v, want direct %s", branch, id)
	}
}

func TestAdvanceHEAD_Detached(t *testing.T) {
	s := New(t.TempDir())
	oldID := objstore.ID("dddddddddddddddddddddddddddddddddddddddd")
	newID := objstore.ID("eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")

	if err := s.WriteDirect(HEAD, oldID); err != nil {
		t.Fatalf("WriteDirect: %v", err)
	}
	if err := s.AdvanceHEAD(newID); err != nil {
		t.Fatalf("AdvanceHEAD: %v", err)
	}

	head, err := s.Read(HEAD)
	if err != nil {
		t.Fatalf("Read(HEAD): %v", err)
	}
	if head.Kind != DirectRef || head.Direct != newID {
		t.Errorf("detached HEAD = %+v, want direct %s", head, newID)
	}
}

func TestListBranches_SortedNoRecursion(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	id := objstore.ID("ffffffffffffffffffffffffffffffffffffffff")

	for _, b := range []string{"zeta", "alpha", "mid"} {
		if err := s.WriteDirect(BranchRef(b), id); err != nil {
			t.Fatalf("WriteDirect(%s): %v", b, err)
		}
	}
	// A nested namespace entry should not appear as a top-level branch name.
	if err := os.MkdirAll(filepath.Join(dir, "refs", "heads", "nested"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := s.WriteDirect(BranchRef("nested/child"), id); err != nil {
		t.Fatalf("WriteDirect(nested/child): %v", err)
	}

	branches, err := s.ListBranches()
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(branches) != len(want) {
		t.Fatalf("ListBranches() = %v, want %v", branches, want)
	}
	for i, b := range want {
		if branches[i] != b {
			t.Errorf("ListBranches()[%d] = %q, want %q", i, branches[i], b)
		}
	}
}

func TestListBranches_NoRefsDir(t *testing.T) {
	s := New(t.TempDir())

	branches, err := s.ListBranches()
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if len(branches) != 0 {
		t.Errorf("ListBranches() on fresh repo = %v, want empty", branches)
	}
}
