// Package repo ties the object store, reference store, index, and
// workspace scanner together into the operations spec.md §4 names:
// init, add, commit, log, branch, checkout, merge, status, diff.
package repo

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/index"
	"github.com/mark-oise/fangs/internal/objstore"
	"github.com/mark-oise/fangs/internal/refstore"
	"github.com/mark-oise/fangs/internal/workspace"
)

// FangsDir is the name of the repository's metadata directory, rooted
// directly under the working tree (spec.md §6: "paths relative to
// repo/fangs/").
const FangsDir = workspace.MetaDir

// DefaultBranch is the branch HEAD points at immediately after Init.
const DefaultBranch = "master"

// Repository is an opened fangs repository: its working tree root plus
// handles onto the three on-disk stores that make it up.
type Repository struct {
	Root     string // working tree root
	FangsDir string // Root/fangs
	Objects  *objstore.Store
	Refs     *refstore.Store
}

// Init creates a new repository rooted at dir: fangs/, fangs/objects/,
// fangs/refs/heads/, and fangs/HEAD pointing at the default branch
// (spec.md §6, invariant "init on empty dir").
func Init(dir string) (*Repository, error) {
	fangsDir := filepath.Join(dir, FangsDir)

	if _, err := os.Stat(fangsDir); err == nil {
		return nil, fangserr.New(fangserr.KindInvalidInput, "fangs repository already exists at "+fangsDir)
	}

	for _, sub := range []string{"", "objects", filepath.Join("refs", "heads")} {
		if err := os.MkdirAll(filepath.Join(fangsDir, sub), 0o755); err != nil {
			return nil, fangserr.Wrap(fangserr.KindIOFailure, "creating repository directories", err)
		}
	}

	r := &Repository{
		Root:     dir,
		FangsDir: fangsDir,
		Objects:  objstore.New(filepath.Join(fangsDir, "objects")),
		Refs:     refstore.New(fangsDir),
	}

	if err := r.Refs.WriteSymbolic(refstore.HEAD, refstore.BranchRef(DefaultBranch)); err != nil {
		return nil, err
	}

	return r, nil
}

// Open opens an existing repository rooted at dir.
func Open(dir string) (*Repository, error) {
	fangsDir := filepath.Join(dir, FangsDir)
	info, err := os.Stat(fangsDir)
	if err != nil || !info.IsDir() {
		return nil, fangserr.New(fangserr.KindNotFound, "no fangs repository at "+dir)
	}

	return &Repository{
		Root:     dir,
		FangsDir: fangsDir,
		Objects:  objstore.New(filepath.Join(fangsDir, "objects")),
		Refs:     refstore.New(fangsDir),
	}, nil
}

// Index opens the current staging area. Index state is read fresh on every
// call rather than cached, matching spec.md §5's single-threaded,
// synchronous-I/O execution model.
func (r *Repository) Index() (*index.Index, error) {
	return index.Open(r.FangsDir)
}

// IgnoreMatcher loads the repository's .fangsignore, if any.
func (r *Repository) IgnoreMatcher() *workspace.Matcher {
	return workspace.LoadMatcher(r.Root)
}

// headCommitID resolves HEAD to a commit id. unborn is true when HEAD
// resolves to refstore.ErrUnborn — not a failure, but a distinct outcome
// (spec.md §4.3).
func (r *Repository) headCommitID() (id objstore.ID, unborn bool, err error) {
	resolved, err := r.Refs.Resolve(refstore.HEAD)
	if err != nil {
		if err == refstore.ErrUnborn {
			return "", true, nil
		}
		return "", false, err
	}
	return resolved, false, nil
}

// headFlatTree returns the path->id map of HEAD's commit tree, or an empty
// map when HEAD is unborn.
func (r *Repository) headFlatTree() (map[string]objstore.ID, bool, error) {
	headID, unborn, err := r.headCommitID()
	if err != nil {
		return nil, false, err
	}
	if unborn {
		return map[string]objstore.ID{}, true, nil
	}
	commit, err := r.Objects.GetCommit(headID)
	if err != nil {
		return nil, false, err
	}
	tree, err := r.Objects.GetTree(commit.Tree)
	if err != nil {
		return nil, false, err
	}
	return tree.AsMap(), false, nil
}

// nowISO8601 stamps a commit's timestamp field (spec.md §6: "timestamp
// (ISO-8601 string)").
func nowISO8601() string {
	return time.Now().UTC().Format(time.RFC3339)
}
