package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mark-oise/fangs/internal/repo"
)

func runMerge(r *repo.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: fangs merge <branch>")
		return 1
	}

	result, err := r.Merge(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	switch result.Kind {
	case repo.AlreadyUpToDate:
		fmt.Println("Already up to date.")
		return 0
	case repo.FastForward:
		fmt.Printf("Fast-forward to %s\n", result.CommitID.Short())
		return 0
	case repo.ThreeWay:
		if len(result.Conflicts) > 0 {
			fmt.Println("Automatic merge failed; fix conflicts and commit the result.")
			fmt.Println("Conflicting paths:")
			for _, p := range result.Conflicts {
				fmt.Printf("\t%s\n", p)
			}
			return 1
		}
		fmt.Printf("Merge made by the three-way strategy: %s\n", result.CommitID.Short())
		return 0
	default:
		fmt.Fprintln(os.Stderr, "fatal: unknown merge result "+strings.TrimSpace(result.Kind.String()))
		return 128
	}
}
