package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark-oise/fangs/internal/dashboard"
	"github.com/mark-oise/fangs/internal/repo"
)

const defaultServeAddr = "localhost:7777"

func runServe(r *repo.Repository, args []string) int {
	addr := defaultServeAddr
	for i, a := range args {
		if a == "--addr" && i+1 < len(args) {
			addr = args[i+1]
		}
	}

	srv, err := dashboard.NewServer(r, addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	fmt.Printf("serving %s at http://%s (ctrl-c to stop)\n", r.Root, addr)

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}
