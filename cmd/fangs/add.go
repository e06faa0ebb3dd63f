package main

import (
	"fmt"
	"os"

	"github.com/mark-oise/fangs/internal/progress"
	"github.com/mark-oise/fangs/internal/repo"
)

func runAdd(r *repo.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: fangs add <path...>")
		return 1
	}

	spin := progress.New(fmt.Sprintf("staging %d path(s)", len(args)))
	spin.Start()
	err := r.Add(args...)
	spin.Stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}
