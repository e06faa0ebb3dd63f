// Package workspace implements the scanner described in spec.md §4.5: it
// walks the working tree (excluding the repository's metadata directory),
// computes would-be blob ids, and classifies each path against the index
// and the HEAD tree.
package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/objstore"
)

// MetaDir is the name of the repository's own metadata directory, excluded
// from every scan (spec.md §3: "Workspace... excluding the repository's own
// metadata directory").
const MetaDir = "fangs"

// File is one regular file found on disk during a scan.
type File struct {
	// Path is repository-relative, forward-slash separated.
	Path string
	// ID is the blob id the file's current content would hash to.
	ID objstore.ID
}

// Scan walks root and returns every regular file not under MetaDir and not
// matched by ignore, along with the blob id its content would have. It does
// not write anything to the object store.
func Scan(root string, ignore *Matcher) ([]File, error) {
	var files []File

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped, not fatal
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == MetaDir && filepath.Dir(rel) == "." {
				return filepath.SkipDir
			}
			if ignore.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if ignore.Match(rel, false) {
			return nil
		}

		data, readErr := os.ReadFile(path) //nolint:gosec // path comes from WalkDir under the caller's own repository root
		if readErr != nil {
			return fangserr.Wrap(fangserr.KindIOFailure, "reading "+rel, readErr)
		}
		id, hashErr := objstore.HashBlob(data)
		if hashErr != nil {
			return hashErr
		}

		files = append(files, File{Path: rel, ID: id})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
