package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/mark-oise/fangs/internal/repo"
	"github.com/mark-oise/fangs/internal/termcolor"
	"github.com/mark-oise/fangs/internal/workspace"
)

func runStatus(r *repo.Repository, args []string, cw *termcolor.Writer) int {
	porcelain := false
	for _, arg := range args {
		if arg == "-s" || arg == "--porcelain" {
			porcelain = true
		}
	}

	report, err := r.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if porcelain {
		return printPorcelainStatus(report)
	}
	return printLongStatus(report, cw)
}

func printPorcelainStatus(report *repo.StatusReport) int {
	byPath := groupByPath(report.Entries)
	for _, path := range sortedPaths(byPath) {
		x, y := statusCodes(byPath[path])
		fmt.Printf("%c%c %s\n", x, y, path)
	}
	return 0
}

// statusCodes renders one path's classifications as git-style XY status
// letters: X is the staged column, Y is the unstaged column.
func statusCodes(classes []workspace.Class) (x, y byte) {
	x, y = ' ', ' '
	for _, c := range classes {
		switch c {
		case workspace.Untracked:
			return '?', '?'
		case workspace.StagedNew:
			x = 'A'
		case workspace.StagedModified:
			x = 'M'
		case workspace.StagedDeleted:
			x = 'D'
		case workspace.UnstagedModified:
			y = 'M'
		case workspace.UnstagedDeleted:
			y = 'D'
		}
	}
	return x, y
}

func printLongStatus(report *repo.StatusReport, cw *termcolor.Writer) int {
	if report.Detached {
		fmt.Println("HEAD detached")
	} else {
		fmt.Printf("On branch %s\n", report.Branch)
	}

	byPath := groupByPath(report.Entries)
	var staged, unstaged, untracked []string

	for _, path := range sortedPaths(byPath) {
		for _, c := range byPath[path] {
			switch c {
			case workspace.Untracked:
				untracked = append(untracked, path)
			case workspace.StagedNew, workspace.StagedModified, workspace.StagedDeleted:
				staged = append(staged, stagedLine(path, c))
			case workspace.UnstagedModified, workspace.UnstagedDeleted:
				unstaged = append(unstaged, unstagedLine(path, c))
			}
		}
	}

	if len(staged) > 0 {
		fmt.Println(cw.Green("Changes to be committed:"))
		for _, l := range staged {
			fmt.Printf("\t%s\n", l)
		}
		fmt.Println()
	}
	if len(unstaged) > 0 {
		fmt.Println(cw.Red("Changes not staged for commit:"))
		for _, l := range unstaged {
			fmt.Printf("\t%s\n", l)
		}
		fmt.Println()
	}
	if len(untracked) > 0 {
		fmt.Println("Untracked files:")
		for _, p := range untracked {
			fmt.Printf("\t%s\n", p)
		}
		fmt.Println()
	}
	if len(staged) == 0 && len(unstaged) == 0 && len(untracked) == 0 {
		fmt.Println("nothing to commit, working tree clean")
	}

	return 0
}

func stagedLine(path string, c workspace.Class) string {
	switch c {
	case workspace.StagedNew:
		return "new file:   " + path
	case workspace.StagedDeleted:
		return "deleted:    " + path
	default:
		return "modified:   " + path
	}
}

func unstagedLine(path string, c workspace.Class) string {
	if c == workspace.UnstagedDeleted {
		return "deleted:    " + path
	}
	return "modified:   " + path
}

func groupByPath(entries []workspace.Status) map[string][]workspace.Class {
	byPath := make(map[string][]workspace.Class)
	for _, e := range entries {
		byPath[e.Path] = append(byPath[e.Path], e.Class)
	}
	return byPath
}

func sortedPaths(byPath map[string][]workspace.Class) []string {
	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
