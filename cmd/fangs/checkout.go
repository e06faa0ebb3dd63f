package main

import (
	"fmt"
	"os"

	"github.com/mark-oise/fangs/internal/repo"
)

func runCheckout(r *repo.Repository, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: fangs checkout <branch>")
		return 1
	}

	if err := r.Checkout(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	fmt.Printf("Switched to branch '%s'\n", args[0])
	return 0
}
