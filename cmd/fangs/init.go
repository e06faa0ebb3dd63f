package main

import (
	"fmt"
	"os"

	"github.com/mark-oise/fangs/internal/repo"
)

func runInit(args []string) int {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if _, err := repo.Init(dir); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	fmt.Printf("Initialized empty fangs repository in %s/%s\n", dir, repo.FangsDir)
	return 0
}
