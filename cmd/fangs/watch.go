package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark-oise/fangs/internal/repo"
	"github.com/mark-oise/fangs/internal/termcolor"
	"github.com/mark-oise/fangs/internal/watch"
)

func runWatch(r *repo.Repository, _ []string, cw *termcolor.Writer) int {
	w, err := watch.New(r.Root, r.FangsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go w.Run(ctx)

	fmt.Printf("watching %s ... (ctrl-c to stop)\n", r.Root)

	for {
		select {
		case <-sig:
			return 0
		case err := <-w.Errors:
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		case <-w.Events:
			report, err := r.Status()
			if err != nil {
				fmt.Fprintf(os.Stderr, "watch: %v\n", err)
				continue
			}
			printWatchTransition(report, cw)
		}
	}
}

func printWatchTransition(report *repo.StatusReport, cw *termcolor.Writer) {
	if len(report.Entries) == 0 {
		fmt.Println(cw.Green("clean"))
		return
	}
	for _, e := range report.Entries {
		fmt.Printf("%s %s\n", cw.Yellow(e.Class.String()), e.Path)
	}
}
