package workspace

import (
	"sort"

	"github.com/mark-oise/fangs/internal/index"
	"github.com/mark-oise/fangs/internal/objstore"
)

// Class is one of the six classifications spec.md §4.5 assigns to a path.
type Class int

const (
	Untracked Class = iota
	UnstagedModified
	UnstagedDeleted
	StagedNew
	StagedModified
	StagedDeleted
)

func (c Class) String() string {
	switch c {
	case Untracked:
		return "untracked"
	case UnstagedModified:
		return "unstaged-modified"
	case UnstagedDeleted:
		return "unstaged-deleted"
	case StagedNew:
		return "staged-new"
	case StagedModified:
		return "staged-modified"
	case StagedDeleted:
		return "staged-deleted"
	default:
		return "unknown"
	}
}

// Status is one path's classification. A path may appear twice — once for
// a staged classification and once for an unstaged one — the same way `git
// status` can report a file as both staged-modified and unstaged-modified.
type Status struct {
	Path  string
	Class Class
}

// Compute classifies every path touched by the working tree, the index, or
// the HEAD tree, per spec.md §4.5. headTree is the flattened path->id map of
// the current HEAD commit's tree; unborn must be true when HEAD has no
// commit yet, in which case every index entry is StagedNew regardless of
// headTree's content.
func Compute(root string, idx *index.Index, headTree map[string]objstore.ID, unborn bool, ignore *Matcher) ([]Status, error) {
	disk, err := Scan(root, ignore)
	if err != nil {
		return nil, err
	}
	diskByPath := make(map[string]objstore.ID, len(disk))
	for _, f := range disk {
		diskByPath[f.Path] = f.ID
	}

	var out []Status

	for _, e := range idx.Entries() {
		if unborn {
			out = append(out, Status{Path: e.Path, Class: StagedNew})
		} else if headID, inHead := headTree[e.Path]; !inHead {
			out = append(out, Status{Path: e.Path, Class: StagedNew})
		} else if headID != e.ID {
			out = append(out, Status{Path: e.Path, Class: StagedModified})
		}

		if diskID, onDisk := diskByPath[e.Path]; !onDisk {
			out = append(out, Status{Path: e.Path, Class: UnstagedDeleted})
		} else if diskID != e.ID {
			out = append(out, Status{Path: e.Path, Class: UnstagedModified})
		}
	}

	if !unborn {
		for path := range headTree {
			if _, staged := idx.Lookup(path); !staged {
				out = append(out, Status{Path: path, Class: StagedDeleted})
			}
		}
	}

	for _, f := range disk {
		if _, staged := idx.Lookup(f.Path); !staged {
			out = append(out, Status{Path: f.Path, Class: Untracked})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Class < out[j].Class
	})
	return out, nil
}
