package repo

import (
	"github.com/mark-oise/fangs/internal/objstore"
	"github.com/mark-oise/fangs/internal/workspace"
)

// LogEntry pairs a commit id with its decoded record, as returned walking
// history from HEAD.
type LogEntry struct {
	ID     objstore.ID
	Commit *objstore.Commit
}

// Log returns the commit history reachable from HEAD, most recent first
// (the natural order of Repository.Ancestors' first-parent-preferred BFS).
// Returns an empty slice, not an error, when HEAD is unborn.
func (r *Repository) Log() ([]LogEntry, error) {
	headID, unborn, err := r.headCommitID()
	if err != nil {
		return nil, err
	}
	if unborn {
		return nil, nil
	}

	ids, err := r.Ancestors(headID)
	if err != nil {
		return nil, err
	}

	entries := make([]LogEntry, 0, len(ids))
	for _, id := range ids {
		c, err := r.Objects.GetCommit(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LogEntry{ID: id, Commit: c})
	}
	return entries, nil
}

// StatusReport pairs the current branch context with every path's
// classification.
type StatusReport struct {
	Branch   string
	Detached bool
	Entries  []workspace.Status
}

// Status reports the workspace classification against the index and HEAD's
// tree, plus the current branch context (spec.md §4.5).
func (r *Repository) Status() (*StatusReport, error) {
	branch, detached, err := r.headRefDisplayName()
	if err != nil {
		return nil, err
	}

	idx, err := r.Index()
	if err != nil {
		return nil, err
	}
	tree, unborn, err := r.headFlatTree()
	if err != nil {
		return nil, err
	}

	entries, err := workspace.Compute(r.Root, idx, tree, unborn, r.IgnoreMatcher())
	if err != nil {
		return nil, err
	}

	return &StatusReport{Branch: branch, Detached: detached, Entries: entries}, nil
}
