package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mark-oise/fangs/internal/objstore"
	"github.com/mark-oise/fangs/internal/repo"
	"github.com/mark-oise/fangs/internal/termcolor"
)

func runLog(r *repo.Repository, args []string, cw *termcolor.Writer) int {
	maxCount := 0
	oneline := false

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--oneline":
			oneline = true
		case args[i] == "-n" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid -n value: %q\n", args[i])
				return 1
			}
			maxCount = n
		case strings.HasPrefix(args[i], "-n"):
			n, err := strconv.Atoi(args[i][2:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: invalid -n value: %q\n", args[i][2:])
				return 1
			}
			maxCount = n
		default:
			fmt.Fprintf(os.Stderr, "error: unknown option: %q\n", args[i])
			return 1
		}
	}

	entries, err := r.Log()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	if maxCount > 0 && len(entries) > maxCount {
		entries = entries[:maxCount]
	}
	if len(entries) == 0 {
		return 0
	}

	decorations, err := buildDecorations(r, cw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	width := termWidth()

	for i, e := range entries {
		c := e.Commit
		decor := ""
		if d, ok := decorations[e.ID]; ok {
			decor = " " + cw.Yellow("(") + d + cw.Yellow(")")
		}

		if oneline {
			fmt.Printf("%s%s %s\n", cw.Yellow(e.ID.Short()), decor, firstLine(c.Message))
			continue
		}

		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s %s%s\n", cw.Yellow("commit"), cw.Yellow(string(e.ID)), decor)
		if c.IsMerge() {
			parentStrs := make([]string, len(c.Parents))
			for j, p := range c.Parents {
				parentStrs[j] = p.Short()
			}
			fmt.Printf("Merge: %s\n", strings.Join(parentStrs, " "))
		}
		fmt.Printf("Author: %s\n", c.Author)
		fmt.Printf("Date:   %s\n", fangsDateFormat(c.Timestamp))
		fmt.Println()
		for _, line := range strings.Split(c.Message, "\n") {
			for _, wrapped := range wrapWords(line, width) {
				fmt.Printf("    %s\n", wrapped)
			}
		}
	}

	return 0
}

// buildDecorations maps each commit id that a branch or HEAD points at to
// a "(HEAD -> branch, other-branch)" style decoration string, the way git
// log annotates ref tips — fangs has no tag namespace, so only branches and
// HEAD ever decorate a commit.
func buildDecorations(r *repo.Repository, cw *termcolor.Writer) (map[objstore.ID]string, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, err
	}

	result := make(map[objstore.ID]string)
	byID := make(map[objstore.ID][]string)
	anyCurrent := false

	for _, b := range branches {
		label := cw.Green(b.Name)
		if b.Current {
			anyCurrent = true
			label = cw.BoldCyan("HEAD -> ") + label
		}
		id, lookupErr := resolveID(r, b.Name)
		if lookupErr != nil {
			continue
		}
		byID[id] = append(byID[id], label)
	}

	if !anyCurrent {
		if headID, err := resolveID(r, "HEAD"); err == nil {
			byID[headID] = append([]string{cw.BoldCyan("HEAD")}, byID[headID]...)
		}
	}

	for id, labels := range byID {
		result[id] = strings.Join(labels, cw.Yellow(", "))
	}
	return result, nil
}

func firstLine(msg string) string {
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		return msg[:idx]
	}
	return msg
}
