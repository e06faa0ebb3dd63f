package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"

	"github.com/mark-oise/fangs/internal/repo"
	"github.com/mark-oise/fangs/internal/termcolor"
)

// runDiff implements spec.md's supplemented `diff` command (SPEC_FULL.md
// §4): since fangs trees are flat whole-blob mappings, there is no
// line-level hunk machinery to render — only which paths were added,
// modified, or deleted between two commits.
func runDiff(r *repo.Repository, args []string, cw *termcolor.Writer) int {
	stat := false
	var revs []string

	for _, arg := range args {
		if arg == "--stat" {
			stat = true
		} else {
			revs = append(revs, arg)
		}
	}

	if len(revs) != 2 {
		fmt.Fprintln(os.Stderr, "usage: fangs diff [--stat] <commit1> <commit2>")
		return 1
	}

	id1, err := resolveID(r, revs[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	id2, err := resolveID(r, revs[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	entries, err := r.DiffCommits(id1, id2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if stat {
		return printDiffStat(entries)
	}
	return printPathDiff(entries, cw)
}

func printPathDiff(entries []repo.DiffEntry, cw *termcolor.Writer) int {
	for _, e := range entries {
		switch e.Status {
		case repo.DiffAdded:
			fmt.Println(cw.Green(fmt.Sprintf("+++ %s (new, %s)", e.Path, e.NewID.Short())))
		case repo.DiffDeleted:
			fmt.Println(cw.Red(fmt.Sprintf("--- %s (removed, was %s)", e.Path, e.OldID.Short())))
		default:
			fmt.Println(cw.Yellow(fmt.Sprintf("*** %s (%s -> %s)", e.Path, e.OldID.Short(), e.NewID.Short())))
		}
	}
	return 0
}

func printDiffStat(entries []repo.DiffEntry) int {
	if len(entries) == 0 {
		return 0
	}

	maxLen := 0
	for _, e := range entries {
		if w := runewidth.StringWidth(e.Path); w > maxLen {
			maxLen = w
		}
	}

	for _, e := range entries {
		fmt.Printf(" %s | %s\n", runewidth.FillRight(e.Path, maxLen), e.Status)
	}
	fmt.Printf(" %d file(s) changed\n", len(entries))
	return 0
}
