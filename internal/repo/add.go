package repo

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark-oise/fangs/internal/fangserr"
)

// Add stages one or more paths (files or directories, resolved relative to
// the repository root) into the index: each regular file's content is
// hashed and stored as a blob, then upserted into the index at its
// repository-relative, forward-slash path.
func (r *Repository) Add(paths ...string) error {
	idx, err := r.Index()
	if err != nil {
		return err
	}

	var files []string
	for _, p := range paths {
		abs, err := r.resolveInRepo(p)
		if err != nil {
			return err
		}
		info, statErr := os.Stat(abs)
		if statErr != nil {
			return fangserr.Wrap(fangserr.KindNotFound, "stat "+p, statErr)
		}
		if info.IsDir() {
			found, walkErr := r.collectFiles(abs)
			if walkErr != nil {
				return walkErr
			}
			files = append(files, found...)
			continue
		}
		files = append(files, abs)
	}

	for _, abs := range files {
		rel, err := filepath.Rel(r.Root, abs)
		if err != nil {
			return fangserr.Wrap(fangserr.KindInvalidPath, "resolving "+abs, err)
		}
		rel = filepath.ToSlash(rel)

		data, err := os.ReadFile(abs) //nolint:gosec // abs is validated to be inside the repository root by resolveInRepo
		if err != nil {
			return fangserr.Wrap(fangserr.KindIOFailure, "reading "+rel, err)
		}
		id, err := r.Objects.PutBlob(data)
		if err != nil {
			return err
		}
		if err := idx.Upsert(rel, id); err != nil {
			return err
		}
	}

	return nil
}

// resolveInRepo resolves p — absolute, or relative to the repository root —
// and rejects any path that escapes the repository root or falls inside
// its metadata directory (spec.md §4.5: "excluding the repository's own
// metadata directory"; §7: InvalidPath).
func (r *Repository) resolveInRepo(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.Root, p)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(r.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fangserr.New(fangserr.KindInvalidPath, p+" is outside the repository")
	}
	if rel == FangsDir || strings.HasPrefix(rel, FangsDir+string(filepath.Separator)) {
		return "", fangserr.New(fangserr.KindInvalidPath, p+" is inside the repository metadata directory")
	}
	return abs, nil
}

func (r *Repository) collectFiles(dir string) ([]string, error) {
	var files []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == FangsDir && filepath.Dir(path) == r.Root {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, fangserr.Wrap(fangserr.KindIOFailure, "walking "+dir, walkErr)
	}
	return files, nil
}
