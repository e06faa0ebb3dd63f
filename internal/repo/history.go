package repo

import "github.com/mark-oise/fangs/internal/objstore"

// Parents returns the parent ids of a commit — 0 for a root commit, 1 for
// a regular commit, 2 for a merge (spec.md §4.7).
func (r *Repository) Parents(id objstore.ID) ([]objstore.ID, error) {
	c, err := r.Objects.GetCommit(id)
	if err != nil {
		return nil, err
	}
	return c.Parents, nil
}

// Ancestors walks the commit graph from id in breadth-first, first-parent-
// preferred order, visiting each id at most once (spec.md §4.7).
func (r *Repository) Ancestors(id objstore.ID) ([]objstore.ID, error) {
	visited := map[objstore.ID]bool{id: true}
	queue := []objstore.ID{id}
	var order []objstore.ID

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)

		parents, err := r.Parents(cur)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}

	return order, nil
}

// MergeBase computes a common ancestor of a and b per spec.md §4.7: build
// the ancestor set of a, then walk the ancestors of b in BFS order and
// return the first one found in a's set. Returns "", false if none exists.
func (r *Repository) MergeBase(a, b objstore.ID) (objstore.ID, bool, error) {
	aAncestors, err := r.Ancestors(a)
	if err != nil {
		return "", false, err
	}
	aSet := make(map[objstore.ID]bool, len(aAncestors))
	for _, id := range aAncestors {
		aSet[id] = true
	}

	visited := map[objstore.ID]bool{b: true}
	queue := []objstore.ID{b}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if aSet[cur] {
			return cur, true, nil
		}

		parents, err := r.Parents(cur)
		if err != nil {
			return "", false, err
		}
		for _, p := range parents {
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}

	return "", false, nil
}
