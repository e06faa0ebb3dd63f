package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/mark-oise/fangs/internal/objstore"
	"github.com/mark-oise/fangs/internal/refstore"
	"github.com/mark-oise/fangs/internal/repo"
	"github.com/mark-oise/fangs/internal/termcolor"
)

// fangsDateFormat formats an ISO-8601 commit timestamp the way `fangs log`
// displays it, in git's long date layout.
func fangsDateFormat(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("Mon Jan 2 15:04:05 2006 -0700")
}

// resolveID resolves a revision string to a commit id: "HEAD", a branch
// name, or a full 40-hex object id.
func resolveID(r *repo.Repository, rev string) (objstore.ID, error) {
	if rev == "HEAD" {
		id, err := r.Refs.Resolve(refstore.HEAD)
		if err != nil {
			return "", fmt.Errorf("HEAD: %w", err)
		}
		return id, nil
	}

	if ref, err := r.Refs.Read(refstore.BranchRef(rev)); err == nil && ref.Kind == refstore.DirectRef {
		return ref.Direct, nil
	}

	if len(rev) == 40 {
		return objstore.ID(rev), nil
	}

	return "", fmt.Errorf("unknown revision: %s", rev)
}

// wrapWords wraps text to width columns, breaking only at word boundaries
// (github.com/clipperhouse/uax29/v2/words) instead of a byte-width slice,
// so multi-byte commit messages don't split mid-rune.
func wrapWords(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	var cur strings.Builder

	seg := words.FromString(text)
	for seg.Next() {
		tok := seg.Value()
		if tok == "\n" {
			lines = append(lines, strings.TrimRight(cur.String(), " "))
			cur.Reset()
			continue
		}
		if cur.Len()+len(tok) > width && cur.Len() > 0 {
			lines = append(lines, strings.TrimRight(cur.String(), " "))
			cur.Reset()
		}
		cur.WriteString(tok)
	}
	if cur.Len() > 0 {
		lines = append(lines, strings.TrimRight(cur.String(), " "))
	}
	return lines
}

// termWidth is the wrap width for commit message bodies in `log` output,
// falling back to a fixed column count when stdout isn't a terminal.
func termWidth() int {
	const fallback = 76
	w := termcolor.Width(os.Stdout, fallback)
	if w > fallback {
		w = fallback
	}
	if w < 40 {
		w = 40
	}
	return w
}
