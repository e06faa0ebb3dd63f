// Command fangs is the CLI surface for the content-addressed version
// control core in internal/repo (spec.md §6: "CLI surface (external
// collaborator)").
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mark-oise/fangs/internal/cli"
	"github.com/mark-oise/fangs/internal/repo"
	"github.com/mark-oise/fangs/internal/termcolor"
)

// Build-time variables set via -ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	gf, args := parseGlobalFlags(os.Args[1:])

	// --version is handled before app.Run because "--" prefixed args
	// would be treated as unknown commands by the dispatcher.
	for _, a := range args {
		if a == "--version" {
			printVersion()
			os.Exit(0)
		}
	}

	cw := termcolor.NewWriter(os.Stdout, gf.colorMode)

	app := cli.NewApp("fangs", version)
	app.Stderr = os.Stderr

	// r is declared here and assigned after dispatch determines that the
	// matched command needs it (NeedsRepo). Closures capture the pointer
	// variable, which is populated before they execute.
	var r *repo.Repository

	app.Register(&cli.Command{
		Name:    "init",
		Summary: "Create an empty repository",
		Usage:   "fangs init [<directory>]",
		Run:     func(args []string) int { return runInit(args) },
	})

	app.Register(&cli.Command{
		Name:      "add",
		Summary:   "Stage files for the next commit",
		Usage:     "fangs add <path...>",
		Examples:  []string{"fangs add README.md", "fangs add ."},
		NeedsRepo: true,
		Run:       func(args []string) int { return runAdd(r, args) },
	})

	app.Register(&cli.Command{
		Name:      "commit",
		Summary:   "Record staged changes as a commit",
		Usage:     "fangs commit <message...>",
		Examples:  []string{"fangs commit Initial commit"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runCommit(r, args) },
	})

	app.Register(&cli.Command{
		Name:      "log",
		Summary:   "Show commit history",
		Usage:     "fangs log [--oneline] [-n <count>]",
		Examples:  []string{"fangs log", "fangs log --oneline -n5"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runLog(r, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "branch",
		Summary:   "List or create branches",
		Usage:     "fangs branch [<name>]",
		Examples:  []string{"fangs branch", "fangs branch feature"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runBranch(r, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "checkout",
		Summary:   "Switch HEAD and the working tree to a branch",
		Usage:     "fangs checkout <branch>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runCheckout(r, args) },
	})

	app.Register(&cli.Command{
		Name:      "merge",
		Summary:   "Merge a branch into the current branch",
		Usage:     "fangs merge <branch>",
		NeedsRepo: true,
		Run:       func(args []string) int { return runMerge(r, args) },
	})

	app.Register(&cli.Command{
		Name:      "status",
		Summary:   "Show the working tree status",
		Usage:     "fangs status [-s|--porcelain]",
		Examples:  []string{"fangs status", "fangs status --porcelain"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runStatus(r, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "diff",
		Summary:   "Show changes between two commits",
		Usage:     "fangs diff [--stat] <commit1> <commit2>",
		Examples:  []string{"fangs diff master HEAD", "fangs diff --stat master feature"},
		NeedsRepo: true,
		Run:       func(args []string) int { return runDiff(r, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "watch",
		Summary:   "Watch the working tree and print status transitions",
		Usage:     "fangs watch",
		NeedsRepo: true,
		Run:       func(args []string) int { return runWatch(r, args, cw) },
	})

	app.Register(&cli.Command{
		Name:      "serve",
		Summary:   "Serve a live read-only dashboard for this repository",
		Usage:     "fangs serve [--addr <host:port>]",
		NeedsRepo: true,
		Run:       func(args []string) int { return runServe(r, args) },
	})

	app.Register(&cli.Command{
		Name:    "version",
		Summary: "Show version information",
		Usage:   "fangs version",
		Run:     func([]string) int { printVersion(); return 0 },
	})

	// Determine which command will run so the repository is only opened
	// when the command actually needs one.
	if len(args) > 0 {
		cmd := app.Lookup(args[0])
		if cmd != nil && cmd.NeedsRepo {
			repoPath := os.Getenv("FANGS_DIR")
			if repoPath == "" {
				repoPath = "."
			}
			var err error
			r, err = repo.Open(repoPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
				os.Exit(128)
			}
		}
	}

	os.Exit(app.Run(args, cw))
}

func printVersion() {
	fmt.Printf("fangs %s\n", version)
	fmt.Printf("  commit:     %s\n", commit)
	fmt.Printf("  built:      %s\n", buildDate)
	fmt.Printf("  go version: %s\n", runtime.Version())
	fmt.Printf("  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
