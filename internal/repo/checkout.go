package repo

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/objstore"
	"github.com/mark-oise/fangs/internal/refstore"
	"go.uber.org/multierr"
)

// Checkout implements spec.md §4.8: rewrite HEAD to point at branch, then
// destructively materialize its tree over the working copy. No dirty-tree
// safety check is performed — this is spec.md's documented behavior (§9),
// not an oversight; resolving Open Question 4 in favor of preserving it.
func (r *Repository) Checkout(branch string) error {
	branchRef := refstore.BranchRef(branch)
	ref, err := r.Refs.Read(branchRef)
	if err != nil {
		return err
	}
	if ref.Kind == refstore.Missing {
		return fangserr.New(fangserr.KindUnknownBranch, "unknown branch "+branch)
	}

	if err := r.Refs.WriteSymbolic(refstore.HEAD, branchRef); err != nil {
		return err
	}

	commit, err := r.Objects.GetCommit(ref.Direct)
	if err != nil {
		return err
	}
	tree, err := r.Objects.GetTree(commit.Tree)
	if err != nil {
		return err
	}

	return r.materializeTree(tree.AsMap())
}

// materializeTree implements spec.md §4.9: enumerate the working tree
// (skipping the metadata directory), remove every file and resulting empty
// subdirectory, then write every (path, id) in tree to disk and rewrite the
// index to match tree.
func (r *Repository) materializeTree(tree map[string]objstore.ID) error {
	if err := r.clearWorkingTree(); err != nil {
		return err
	}

	paths := make([]string, 0, len(tree))
	for p := range tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var errs error
	for _, p := range paths {
		data, err := r.Objects.GetBlob(tree[p])
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		full := filepath.Join(r.Root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			errs = multierr.Append(errs, fangserr.Wrap(fangserr.KindIOFailure, "creating parent dir for "+p, err))
			continue
		}
		if err := os.WriteFile(full, data, 0o644); err != nil {
			errs = multierr.Append(errs, fangserr.Wrap(fangserr.KindIOFailure, "writing "+p, err))
		}
	}

	idx, err := r.Index()
	if err != nil {
		return multierr.Append(errs, err)
	}
	for _, e := range idx.Entries() {
		if _, ok := tree[e.Path]; !ok {
			errs = multierr.Append(errs, idx.Remove(e.Path))
		}
	}
	for _, p := range paths {
		errs = multierr.Append(errs, idx.Upsert(p, tree[p]))
	}
	return errs
}

// clearWorkingTree removes every regular file outside the metadata
// directory, then removes any directories left empty by that removal.
// Multiple independent failures (e.g. several unremovable files) are
// aggregated rather than stopping at the first.
func (r *Repository) clearWorkingTree() error {
	var files []string
	var dirs []string

	walkErr := filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr
		}
		if path == r.Root {
			return nil
		}
		if d.IsDir() && d.Name() == FangsDir && filepath.Dir(path) == r.Root {
			return filepath.SkipDir
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return fangserr.Wrap(fangserr.KindIOFailure, "scanning working tree", walkErr)
	}

	var errs error
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			errs = multierr.Append(errs, fangserr.Wrap(fangserr.KindIOFailure, "removing "+f, err))
		}
	}

	// Remove directories deepest-first so parents become empty in turn.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, d := range dirs {
		os.Remove(d) //nolint:errcheck // only empty dirs are removed; non-empty ones simply remain
	}

	return errs
}
