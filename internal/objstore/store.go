package objstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/retry"
)

// maxObjectSize caps the payload size this store will write, guarding
// against pathological inputs the same way gitcore bounds decompressed
// object size. Only put checks it; reads are not size-checked.
const maxObjectSize = 512 * 1024 * 1024 // 512MB

// Store is the sharded, content-addressed object store rooted at
// <fangsDir>/objects, per spec.md §4.2.
type Store struct {
	dir string // <fangsDir>/objects
}

// New returns a Store rooted at objectsDir. objectsDir need not exist yet;
// Put creates shard directories as needed.
func New(objectsDir string) *Store {
	return &Store{dir: objectsDir}
}

// shardPath returns the on-disk path for an object id: objects/<aa>/<bb...>.
func (s *Store) shardPath(id ID) (string, error) {
	if len(id) != 40 {
		return "", fangserr.New(fangserr.KindInvalidInput, fmt.Sprintf("object id %q is not 40 hex characters", id))
	}
	return filepath.Join(s.dir, string(id)[:2], string(id)[2:]), nil
}

// Exists reports whether an object with the given id is already durable.
func (s *Store) Exists(id ID) bool {
	path, err := s.shardPath(id)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}

// PutBlob stores raw bytes as a blob object and returns its id.
func (s *Store) PutBlob(data []byte) (ID, error) {
	return s.put(KindBlob, data)
}

// HashBlob computes the id data would have as a blob without writing
// anything — the workspace scanner uses this to classify files against
// the index without persisting an object for every file on disk
// (spec.md §4.5).
func HashBlob(data []byte) (ID, error) {
	id, _, err := computeID(KindBlob, data)
	return id, err
}

// PutTree canonicalizes and stores a flat tree, returning its id.
func (s *Store) PutTree(t *Tree) (ID, error) {
	payload, err := encodeTree(t)
	if err != nil {
		return "", err
	}
	return s.put(KindTree, payload)
}

// PutCommit canonicalizes and stores a commit record, returning its id.
func (s *Store) PutCommit(c *Commit) (ID, error) {
	payload, err := encodeCommit(c)
	if err != nil {
		return "", err
	}
	return s.put(KindCommit, payload)
}

// put computes the canonical bytes for (kind, payload), then writes them
// exactly once: if the shard path already holds an object, the write is a
// no-op (spec.md invariant 5 — object writes are idempotent). Otherwise it
// writes to a temp sibling and renames into place, so a crash mid-write
// never leaves a half-written object visible at its final path.
func (s *Store) put(kind Kind, payload []byte) (ID, error) {
	if len(payload) > maxObjectSize {
		return "", fangserr.New(fangserr.KindInvalidInput, fmt.Sprintf("payload of %d bytes exceeds maximum object size", len(payload)))
	}

	id, canon, err := computeID(kind, payload)
	if err != nil {
		return "", err
	}

	path, err := s.shardPath(id)
	if err != nil {
		return "", err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		return id, nil
	}

	shardDir := filepath.Dir(path)
	if err := retry.AtomicWrite(func() error {
		if err := os.MkdirAll(shardDir, 0o755); err != nil {
			return err
		}
		tmp, err := os.CreateTemp(shardDir, ".tmp-*")
		if err != nil {
			return err
		}
		tmpName := tmp.Name()
		if _, err := tmp.Write(canon); err != nil {
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
		return "", fangserr.Wrap(fangserr.KindIOFailure, fmt.Sprintf("writing object %s", id), err)
	}

	return id, nil
}

// GetBlob reads and returns the raw content of a blob object.
func (s *Store) GetBlob(id ID) ([]byte, error) {
	_, payload, err := s.read(id, KindBlob)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// GetTree reads and decodes a tree object.
func (s *Store) GetTree(id ID) (*Tree, error) {
	_, payload, err := s.read(id, KindTree)
	if err != nil {
		return nil, err
	}
	return decodeTree(payload)
}

// GetCommit reads and decodes a commit object.
func (s *Store) GetCommit(id ID) (*Commit, error) {
	_, payload, err := s.read(id, KindCommit)
	if err != nil {
		return nil, err
	}
	return decodeCommit(payload)
}

// Kind reads only the header of an object and returns its kind, without
// decoding the payload, for callers that need to dispatch on object type
// before knowing what they're looking at.
func (s *Store) Kind(id ID) (Kind, error) {
	path, err := s.shardPath(id)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path) //nolint:gosec // path is built from a validated hex id under s.dir
	if err != nil {
		if os.IsNotExist(err) {
			return "", fangserr.New(fangserr.KindNotFound, fmt.Sprintf("object %s not found", id))
		}
		return "", fangserr.Wrap(fangserr.KindIOFailure, fmt.Sprintf("reading object %s", id), err)
	}
	kind, _, _, err := splitHeader(raw)
	if err != nil {
		return "", err
	}
	return kind, nil
}

// read loads an object's raw file, validates its header against
// expectedKind, and returns the declared kind and payload bytes.
func (s *Store) read(id ID, expectedKind Kind) (Kind, []byte, error) {
	path, err := s.shardPath(id)
	if err != nil {
		return "", nil, err
	}

	raw, err := os.ReadFile(path) //nolint:gosec // path is built from a validated hex id under s.dir
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fangserr.New(fangserr.KindNotFound, fmt.Sprintf("object %s not found", id))
		}
		return "", nil, fangserr.Wrap(fangserr.KindIOFailure, fmt.Sprintf("reading object %s", id), err)
	}

	kind, declaredLen, payload, err := splitHeader(raw)
	if err != nil {
		return "", nil, err
	}
	if kind != expectedKind {
		return "", nil, fangserr.New(fangserr.KindTypeMismatch, fmt.Sprintf("object %s: expected %s, got %s", id, expectedKind, kind))
	}
	if declaredLen != len(payload) {
		return "", nil, fangserr.New(fangserr.KindCorruptObject, fmt.Sprintf("object %s: header declares %d bytes, payload is %d", id, declaredLen, len(payload)))
	}

	return kind, payload, nil
}
