package repo

import (
	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/refstore"
)

// BranchInfo is one entry in a branch listing.
type BranchInfo struct {
	Name    string
	Current bool
}

// Branches lists every branch, marking the one HEAD currently points at.
func (r *Repository) Branches() ([]BranchInfo, error) {
	names, err := r.Refs.ListBranches()
	if err != nil {
		return nil, err
	}

	current, detached, err := r.headRefDisplayName()
	if err != nil {
		return nil, err
	}

	infos := make([]BranchInfo, len(names))
	for i, n := range names {
		infos[i] = BranchInfo{Name: n, Current: !detached && n == current}
	}
	return infos, nil
}

// CreateBranch points a new branch name at HEAD's current commit. Fails
// with NothingToCommit-adjacent InvalidInput semantics if HEAD is unborn —
// there is no commit yet to branch from.
func (r *Repository) CreateBranch(name string) error {
	headID, unborn, err := r.headCommitID()
	if err != nil {
		return err
	}
	if unborn {
		return fangserr.New(fangserr.KindInvalidInput, "cannot create branch "+name+": no commits yet")
	}
	return r.Refs.WriteDirect(refstore.BranchRef(name), headID)
}
