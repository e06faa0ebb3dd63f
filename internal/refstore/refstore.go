// Package refstore implements the reference namespace described in
// spec.md §4.3: direct and symbolic references rooted at HEAD, with
// bounded-depth symbolic resolution and atomic writes.
package refstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/objstore"
	"github.com/mark-oise/fangs/internal/retry"
)

// maxResolveDepth bounds symbolic-chain resolution so a cycle is rejected
// rather than recursing forever (spec.md §3: "max resolution depth is
// bounded, e.g. 8, to reject cycles").
const maxResolveDepth = 8

// ErrUnborn is returned by Resolve when a symbolic chain lands on a ref
// that does not exist yet — e.g. a freshly initialized repository whose
// HEAD points at refs/heads/master before the first commit. It is a
// distinct outcome, not a failure: spec.md §4.3 lists it alongside a
// resolved id and a cycle error, never as an error kind in §7.
var ErrUnborn = errors.New("unborn branch")

// headName is the one reference that lives at the repository root rather
// than under refs/.
const headName = "HEAD"

// branchPrefix is where branch tip references live.
const branchPrefix = "refs/heads/"

// Kind classifies what Read found at a reference name.
type Kind int

const (
	// Missing means no file exists at that reference name.
	Missing Kind = iota
	// DirectRef means the file holds a 40-hex object id.
	DirectRef
	// SymbolicRef means the file holds "ref: <target>".
	SymbolicRef
)

// Ref is the result of reading a single reference file, before following
// any symbolic chain.
type Ref struct {
	Kind     Kind
	Direct   objstore.ID
	Symbolic string
}

// Store is the reference namespace rooted at fangsDir (the fangs/
// directory itself — HEAD lives at its root, everything else under refs/).
type Store struct {
	dir string
}

// New returns a Store rooted at fangsDir.
func New(fangsDir string) *Store {
	return &Store{dir: fangsDir}
}

// path maps a reference name ("HEAD" or "refs/heads/<branch>") to its file
// on disk.
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name))
}

// Read reads a single reference file and classifies its content without
// following any symbolic chain.
func (s *Store) Read(name string) (Ref, error) {
	content, err := os.ReadFile(s.path(name)) //nolint:gosec // name is a caller-controlled ref name under the repo's own fangs dir
	if err != nil {
		if os.IsNotExist(err) {
			return Ref{Kind: Missing}, nil
		}
		return Ref{}, fangserr.Wrap(fangserr.KindIOFailure, fmt.Sprintf("reading ref %s", name), err)
	}

	line := strings.TrimSpace(string(content))
	if target, ok := strings.CutPrefix(line, "ref: "); ok {
		return Ref{Kind: SymbolicRef, Symbolic: target}, nil
	}

	if len(line) != 40 {
		return Ref{}, fangserr.New(fangserr.KindCorruptObject, fmt.Sprintf("ref %s: content %q is neither a direct id nor a symbolic ref", name, line))
	}
	return Ref{Kind: DirectRef, Direct: objstore.ID(line)}, nil
}

// Resolve follows name through at most maxResolveDepth symbolic hops and
// returns the object id it ultimately names. It returns ErrUnborn if the
// chain lands on a Missing ref, and a CycleError-kind error if depth is
// exceeded (spec.md §3, §4.3).
func (s *Store) Resolve(name string) (objstore.ID, error) {
	cur := name
	for depth := 0; depth < maxResolveDepth; depth++ {
		ref, err := s.Read(cur)
		if err != nil {
			return "", err
		}
		switch ref.Kind {
		case Missing:
			return "", ErrUnborn
		case DirectRef:
			return ref.Direct, nil
		case SymbolicRef:
			cur = ref.Symbolic
			continue
		}
	}
	return "", fangserr.New(fangserr.KindCycleError, fmt.Sprintf("reference chain starting at %s exceeds max depth %d", name, maxResolveDepth))
}

// WriteDirect atomically writes id as the content of name, creating any
// parent directories the name implies (e.g. refs/heads/feature/x creates
// refs/heads/feature/).
func (s *Store) WriteDirect(name string, id objstore.ID) error {
	path := s.path(name)
	dir := filepath.Dir(path)

	if err := retry.AtomicWrite(func() error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		tmp, err := os.CreateTemp(dir, ".tmp-*")
		if err != nil {
			return err
		}
		tmpName := tmp.Name()
		if _, err := tmp.WriteString(string(id)); err != nil {
			tmp.Close() //nolint:errcheck
			os.Remove(tmpName) //nolint:errcheck
			return err
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpName) //nolint:errcheck
			return err
		}
		return os.Rename(tmpName, path)
	}); err != nil {
		return fangserr.Wrap(fangserr.KindIOFailure, fmt.Sprintf("writing ref %s", name), err)
	}
	return nil
}

// WriteSymbolic atomically writes the literal "ref: <target>" form.
func (s *Store) WriteSymbolic(name, target string) error {
	path := s.path(name)
	dir := filepath.Dir(path)

	if err := retry.AtomicWrite(func() error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		tmp, err := os.CreateTemp(dir, ".tmp-*")
		if err != nil {
			return err
		}
		tmpName := tmp.Name()
		if _, err := tmp.WriteString("ref: " + target); err != nil {
			tmp.Close() //nolint:errcheck
			os.Remove(tmpName) //nolint:errcheck
			return err
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpName) //nolint:errcheck
			return err
		}
		return os.Rename(tmpName, path)
	}); err != nil {
		return fangserr.Wrap(fangserr.KindIOFailure, fmt.Sprintf("writing symbolic ref %s", name), err)
	}
	return nil
}

// AdvanceHEAD implements spec.md §4.3's "writing to HEAD while it is
// symbolic writes to the target ref, not to HEAD itself" and §4.6 step 5:
// it is how commit and merge advance the current branch. If HEAD is
// detached (a direct ref), id is written to HEAD directly.
func (s *Store) AdvanceHEAD(id objstore.ID) error {
	head, err := s.Read(headName)
	if err != nil {
		return err
	}
	switch head.Kind {
	case SymbolicRef:
		return s.WriteDirect(head.Symbolic, id)
	default:
		return s.WriteDirect(headName, id)
	}
}

// ListBranches enumerates refs/heads/ at the directory level — no
// recursion into nested namespaces, per spec.md §4.3 — and returns branch
// names in sorted order.
func (s *Store) ListBranches() ([]string, error) {
	headsDir := filepath.Join(s.dir, filepath.FromSlash(branchPrefix))

	entries, err := os.ReadDir(headsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fangserr.Wrap(fangserr.KindIOFailure, "listing branches", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// BranchRef returns the fully qualified reference name for a branch.
func BranchRef(branch string) string { return branchPrefix + branch }

// HEAD is the name of the current-position pointer.
const HEAD = headName
