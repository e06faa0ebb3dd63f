package repo

import (
	"fmt"
	"sort"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/objstore"
	"github.com/mark-oise/fangs/internal/refstore"
)

// MergeKind classifies how a merge was (or wasn't) performed, per
// spec.md §4.10.
type MergeKind int

const (
	AlreadyUpToDate MergeKind = iota
	FastForward
	ThreeWay
)

func (k MergeKind) String() string {
	switch k {
	case AlreadyUpToDate:
		return "already-up-to-date"
	case FastForward:
		return "fast-forward"
	case ThreeWay:
		return "three-way"
	default:
		return "unknown"
	}
}

// MergeResult reports what a merge did. Conflicts is non-empty only for a
// ThreeWay merge that could not complete; CommitID is set only when a merge
// commit (or fast-forward) actually advanced the current branch.
type MergeResult struct {
	Kind      MergeKind
	Conflicts []string
	CommitID  objstore.ID
}

// Merge implements spec.md §4.10: merges otherBranch into the branch HEAD
// currently points at.
func (r *Repository) Merge(otherBranch string) (*MergeResult, error) {
	headRef, err := r.Refs.Read(refstore.HEAD)
	if err != nil {
		return nil, err
	}
	if headRef.Kind != refstore.SymbolicRef {
		return nil, fangserr.New(fangserr.KindDetachedHead, "cannot merge with a detached HEAD")
	}

	otherRef, err := r.Refs.Read(refstore.BranchRef(otherBranch))
	if err != nil {
		return nil, err
	}
	if otherRef.Kind == refstore.Missing {
		return nil, fangserr.New(fangserr.KindUnknownBranch, "unknown branch "+otherBranch)
	}
	otherID := otherRef.Direct

	currentID, unborn, err := r.headCommitID()
	if err != nil {
		return nil, err
	}

	if unborn {
		if err := r.fastForward(headRef.Symbolic, otherID); err != nil {
			return nil, err
		}
		return &MergeResult{Kind: FastForward, CommitID: otherID}, nil
	}
	if currentID == otherID {
		return &MergeResult{Kind: AlreadyUpToDate}, nil
	}

	baseID, found, err := r.MergeBase(currentID, otherID)
	if err != nil {
		return nil, err
	}

	if found && baseID == otherID {
		return &MergeResult{Kind: AlreadyUpToDate}, nil
	}
	if found && baseID == currentID {
		if err := r.fastForward(headRef.Symbolic, otherID); err != nil {
			return nil, err
		}
		return &MergeResult{Kind: FastForward, CommitID: otherID}, nil
	}

	// No common ancestor: merge against an empty base tree rather than
	// silently fast-forwarding over unrelated history.
	return r.threeWayMerge(headRef.Symbolic, currentID, otherID, baseID, found, otherBranch)
}

// fastForward writes otherID as the target of branchRef and materializes
// its tree over the working copy.
func (r *Repository) fastForward(branchRef string, otherID objstore.ID) error {
	if err := r.Refs.WriteDirect(branchRef, otherID); err != nil {
		return err
	}
	commit, err := r.Objects.GetCommit(otherID)
	if err != nil {
		return err
	}
	tree, err := r.Objects.GetTree(commit.Tree)
	if err != nil {
		return err
	}
	return r.materializeTree(tree.AsMap())
}

// entryMaybe is a blob id that may or may not be present at a path —
// spec.md §4.10 treats "missing" as a value distinct from every id, so
// equality comparisons must carry the presence bit alongside the id.
type entryMaybe struct {
	id      objstore.ID
	present bool
}

func (e entryMaybe) equals(o entryMaybe) bool {
	if e.present != o.present {
		return false
	}
	return !e.present || e.id == o.id
}

// threeWayMerge implements the per-path rule table of spec.md §4.10.
// haveBase is false when current and other share no common ancestor at
// all; the merge then proceeds against an empty base tree.
func (r *Repository) threeWayMerge(branchRef string, currentID, otherID, baseID objstore.ID, haveBase bool, otherBranchName string) (*MergeResult, error) {
	currentCommit, err := r.Objects.GetCommit(currentID)
	if err != nil {
		return nil, err
	}
	otherCommit, err := r.Objects.GetCommit(otherID)
	if err != nil {
		return nil, err
	}

	currentTree, err := r.treeMap(currentCommit.Tree)
	if err != nil {
		return nil, err
	}
	otherTree, err := r.treeMap(otherCommit.Tree)
	if err != nil {
		return nil, err
	}

	baseTree := map[string]objstore.ID{}
	if haveBase {
		baseCommit, err := r.Objects.GetCommit(baseID)
		if err != nil {
			return nil, err
		}
		baseTree, err = r.treeMap(baseCommit.Tree)
		if err != nil {
			return nil, err
		}
	}

	paths := make(map[string]bool)
	for p := range currentTree {
		paths[p] = true
	}
	for p := range otherTree {
		paths[p] = true
	}
	for p := range baseTree {
		paths[p] = true
	}

	merged := make(map[string]objstore.ID, len(paths))
	var conflicts []string

	for p := range paths {
		b, bOK := baseTree[p]
		c, cOK := currentTree[p]
		o, oOK := otherTree[p]

		bE := entryMaybe{b, bOK}
		cE := entryMaybe{c, cOK}
		oE := entryMaybe{o, oOK}

		switch {
		case cE.equals(oE):
			if cOK {
				merged[p] = c
			}
		case cE.equals(bE):
			if oOK {
				merged[p] = o
			}
		case oE.equals(bE):
			if cOK {
				merged[p] = c
			}
		default:
			conflictID, err := r.writeConflictBlob(cE, oE, otherBranchName)
			if err != nil {
				return nil, err
			}
			merged[p] = conflictID
			conflicts = append(conflicts, p)
		}
	}

	sort.Strings(conflicts)

	if err := r.materializeTree(merged); err != nil {
		return nil, err
	}

	idx, err := r.Index()
	if err != nil {
		return nil, err
	}
	for p, id := range merged {
		if err := idx.Upsert(p, id); err != nil {
			return nil, err
		}
	}

	if len(conflicts) > 0 {
		return &MergeResult{Kind: ThreeWay, Conflicts: conflicts}, nil
	}

	treeEntries := make([]objstore.TreeEntry, 0, len(merged))
	for p, id := range merged {
		treeEntries = append(treeEntries, objstore.TreeEntry{Path: p, ID: id})
	}
	treeID, err := r.Objects.PutTree(&objstore.Tree{Entries: treeEntries})
	if err != nil {
		return nil, err
	}

	commit := &objstore.Commit{
		Tree:      treeID,
		Parents:   []objstore.ID{currentID, otherID},
		Author:    resolveAuthor(),
		Timestamp: nowISO8601(),
		Message:   fmt.Sprintf("Merge branch '%s'", otherBranchName),
	}
	commitID, err := r.Objects.PutCommit(commit)
	if err != nil {
		return nil, err
	}
	if err := r.Refs.WriteDirect(branchRef, commitID); err != nil {
		return nil, err
	}

	return &MergeResult{Kind: ThreeWay, CommitID: commitID}, nil
}

func (r *Repository) treeMap(treeID objstore.ID) (map[string]objstore.ID, error) {
	tree, err := r.Objects.GetTree(treeID)
	if err != nil {
		return nil, err
	}
	return tree.AsMap(), nil
}

// writeConflictBlob materializes the exact conflict marker format of
// spec.md §6.
func (r *Repository) writeConflictBlob(current, other entryMaybe, otherBranchName string) (objstore.ID, error) {
	currentContent, err := r.maybeBlob(current)
	if err != nil {
		return "", err
	}
	otherContent, err := r.maybeBlob(other)
	if err != nil {
		return "", err
	}

	content := fmt.Sprintf("<<<<<<< HEAD\n%s=======\n%s>>>>>>> %s\n", ensureTrailingNewline(currentContent), ensureTrailingNewline(otherContent), otherBranchName)
	return r.Objects.PutBlob([]byte(content))
}

func (r *Repository) maybeBlob(e entryMaybe) (string, error) {
	if !e.present {
		return "", nil
	}
	data, err := r.Objects.GetBlob(e.id)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func ensureTrailingNewline(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}
