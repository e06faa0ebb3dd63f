package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark-oise/fangs/internal/fangserr"
	"github.com/mark-oise/fangs/internal/repo"
)

func runCommit(r *repo.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: fangs commit <message...>")
		return 1
	}

	message := strings.Join(args, " ")
	id, err := r.Commit(message)
	if err != nil {
		if errors.Is(err, fangserr.NothingToCommit) {
			fmt.Println("nothing to commit, working tree clean")
			return 1
		}
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	fmt.Printf("[%s] %s\n", id.Short(), strings.SplitN(message, "\n", 2)[0])
	return 0
}
