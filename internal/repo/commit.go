package repo

import (
	"os"
	"os/user"
	"strings"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/objstore"
	"github.com/mark-oise/fangs/internal/refstore"
)

// Commit implements spec.md §4.6: read the index, canonicalize its flat
// tree, build a commit record, store it, and advance the current ref.
func (r *Repository) Commit(message string) (objstore.ID, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fangserr.New(fangserr.KindInvalidInput, "commit message must not be empty")
	}

	idx, err := r.Index()
	if err != nil {
		return "", err
	}
	entries := idx.Entries()
	if len(entries) == 0 {
		return "", fangserr.New(fangserr.KindNothingToCommit, "nothing staged to commit")
	}

	treeEntries := make([]objstore.TreeEntry, 0, len(entries))
	for _, e := range entries {
		treeEntries = append(treeEntries, objstore.TreeEntry{Path: e.Path, ID: e.ID})
	}
	treeID, err := r.Objects.PutTree(&objstore.Tree{Entries: treeEntries})
	if err != nil {
		return "", err
	}

	headID, unborn, err := r.headCommitID()
	if err != nil {
		return "", err
	}

	var parents []objstore.ID
	if !unborn {
		parents = []objstore.ID{headID}
	}

	commit := &objstore.Commit{
		Tree:      treeID,
		Parents:   parents,
		Author:    resolveAuthor(),
		Timestamp: nowISO8601(),
		Message:   message,
	}

	commitID, err := r.Objects.PutCommit(commit)
	if err != nil {
		return "", err
	}

	if err := r.Refs.AdvanceHEAD(commitID); err != nil {
		return "", err
	}

	return commitID, nil
}

// resolveAuthor follows an env-var-first, OS-fallback pattern for runtime
// tunables: FANGS_AUTHOR overrides, otherwise fall back to the OS user.
func resolveAuthor() string {
	if v := os.Getenv("FANGS_AUTHOR"); v != "" {
		return v
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}

// headRefDisplayName reports the branch name HEAD currently points at, and
// whether it is attached at all. Used by status/checkout reporting.
func (r *Repository) headRefDisplayName() (branch string, detached bool, err error) {
	ref, err := r.Refs.Read(refstore.HEAD)
	if err != nil {
		return "", false, err
	}
	if ref.Kind != refstore.SymbolicRef {
		return "", true, nil
	}
	return strings.TrimPrefix(ref.Symbolic, "refs/heads/"), false, nil
}
