package main

import (
	"fmt"
	"os"

	"github.com/mark-oise/fangs/internal/repo"
	"github.com/mark-oise/fangs/internal/termcolor"
)

func runBranch(r *repo.Repository, args []string, cw *termcolor.Writer) int {
	if len(args) > 0 {
		if err := r.CreateBranch(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		return 0
	}

	branches, err := r.Branches()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	for _, b := range branches {
		if b.Current {
			fmt.Printf("* %s\n", cw.Green(b.Name))
		} else {
			fmt.Printf("  %s\n", b.Name)
		}
	}
	return 0
}
