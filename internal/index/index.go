// Package index implements the staging area described in spec.md §4.4: a
// flat, ordered (path -> blob id) mapping, stored as a plain text file and
// rewritten atomically on every change.
package index

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/objstore"
	"github.com/mark-oise/fangs/internal/retry"
)

// Entry is one staged (path, blob id) pair.
type Entry struct {
	Path string
	ID   objstore.ID
}

// Index is the parsed contents of the fangs/index file: at most one entry
// per path (spec.md invariant 4).
type Index struct {
	path    string // <fangsDir>/index
	entries []Entry
	byPath  map[string]int // path -> index into entries
}

// Open reads <fangsDir>/index. A missing file is not an error — it means
// nothing has ever been staged — and produces an empty Index.
func Open(fangsDir string) (*Index, error) {
	path := filepath.Join(fangsDir, "index")

	idx := &Index{path: path, byPath: make(map[string]int)}

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the caller-controlled repo directory
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fangserr.Wrap(fangserr.KindIOFailure, "reading index", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		sp := strings.IndexAny(line, " \t")
		if sp == -1 {
			return nil, fangserr.New(fangserr.KindCorruptObject, fmt.Sprintf("index line %d: missing id/path separator", lineNo))
		}
		id := objstore.ID(line[:sp])
		p := line[sp+1:]
		idx.set(p, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fangserr.Wrap(fangserr.KindIOFailure, "scanning index", err)
	}

	return idx, nil
}

// set replaces the entry for path if present, otherwise appends — the
// same upsert semantics Upsert exposes, used internally while parsing so
// a malformed index with duplicate lines still collapses to one row.
func (idx *Index) set(path string, id objstore.ID) {
	if i, ok := idx.byPath[path]; ok {
		idx.entries[i].ID = id
		return
	}
	idx.byPath[path] = len(idx.entries)
	idx.entries = append(idx.entries, Entry{Path: path, ID: id})
}

// Upsert stages path at id: replaces the existing row for path if one
// exists, otherwise appends a new one, then rewrites the index file
// atomically (temp file + rename).
func (idx *Index) Upsert(path string, id objstore.ID) error {
	if strings.ContainsAny(path, "\n\r") {
		return fangserr.New(fangserr.KindInvalidPath, fmt.Sprintf("path %q contains a newline", path))
	}
	idx.set(path, id)
	return idx.save()
}

// Remove drops path from the index if present, then rewrites atomically.
// Used by checkout/merge materialization when a path must be unstaged.
func (idx *Index) Remove(path string) error {
	i, ok := idx.byPath[path]
	if !ok {
		return nil
	}
	idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
	delete(idx.byPath, path)
	for j := i; j < len(idx.entries); j++ {
		idx.byPath[idx.entries[j].Path] = j
	}
	return idx.save()
}

// Entries returns the staged entries in path order.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Lookup returns the staged id for path, if any.
func (idx *Index) Lookup(path string) (objstore.ID, bool) {
	i, ok := idx.byPath[path]
	if !ok {
		return "", false
	}
	return idx.entries[i].ID, true
}

// Len reports how many paths are staged.
func (idx *Index) Len() int { return len(idx.entries) }

// AsFlatTree returns the staged entries as a path->id map, ready for tree
// materialization by the commit engine (spec.md §4.4).
func (idx *Index) AsFlatTree() map[string]objstore.ID {
	m := make(map[string]objstore.ID, len(idx.entries))
	for _, e := range idx.entries {
		m[e.Path] = e.ID
	}
	return m
}

// save rewrites the index file in full: build the new content once, write
// it to a temp sibling, then rename over the real path (spec.md §4.4).
func (idx *Index) save() error {
	dir := filepath.Dir(idx.path)

	var b strings.Builder
	for _, e := range idx.Entries() {
		fmt.Fprintf(&b, "%s %s\n", e.ID, e.Path)
	}
	content := b.String()

	return retry.AtomicWrite(func() error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fangserr.Wrap(fangserr.KindIOFailure, "creating fangs dir", err)
		}
		tmp, err := os.CreateTemp(dir, ".index-tmp-*")
		if err != nil {
			return fangserr.Wrap(fangserr.KindIOFailure, "creating temp index", err)
		}
		tmpName := tmp.Name()
		if _, err := tmp.WriteString(content); err != nil {
			tmp.Close()         //nolint:errcheck
			os.Remove(tmpName) //nolint:errcheck
			return fangserr.Wrap(fangserr.KindIOFailure, "writing temp index", err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpName) //nolint:errcheck
			return fangserr.Wrap(fangserr.KindIOFailure, "closing temp index", err)
		}
		if err := os.Rename(tmpName, idx.path); err != nil {
			return fangserr.Wrap(fangserr.KindIOFailure, "renaming index into place", err)
		}
		return nil
	})
}
