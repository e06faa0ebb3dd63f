//go:build e2e

package e2e

import (
	"strings"
	"testing"
)

func TestInit_CreatesRepository(t *testing.T) {
	dir := t.TempDir()
	out := fangs(t, dir, "init")
	if !strings.Contains(out, "Initialized empty fangs repository") {
		t.Errorf("init output = %q, want mention of an initialized repository", out)
	}
}

func TestAddCommitLog_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	fangs(t, dir, "init")
	writeFile(t, dir, "README.md", "# hello\n")

	fangs(t, dir, "add", "README.md")
	fangs(t, dir, "commit", "initial commit")

	out := fangs(t, dir, "log", "--oneline")
	if !strings.Contains(out, "initial commit") {
		t.Errorf("log --oneline = %q, want it to contain the commit message", out)
	}
}

func TestCommit_NothingStagedFails(t *testing.T) {
	dir := t.TempDir()
	fangs(t, dir, "init")

	out, err := fangsRaw(t, dir, "commit", "empty")
	if err == nil {
		t.Fatal("commit with nothing staged should fail")
	}
	if !strings.Contains(out.stdout+out.stderr, "nothing to commit") {
		t.Errorf("commit error output = %q, want mention of nothing to commit", out.stdout+out.stderr)
	}
}

func TestBranch_CreateAndListMarksCurrent(t *testing.T) {
	dir := t.TempDir()
	fangs(t, dir, "init")
	writeFile(t, dir, "a.txt", "a")
	fangs(t, dir, "add", "a.txt")
	fangs(t, dir, "commit", "root")

	fangs(t, dir, "branch", "feature")

	out := fangs(t, dir, "branch")
	if !strings.Contains(out, "feature") {
		t.Errorf("branch listing = %q, want it to list 'feature'", out)
	}
	if !strings.Contains(out, "* master") && !strings.Contains(out, "*master") {
		t.Errorf("branch listing = %q, want master marked current", out)
	}
}

func TestCheckout_SwitchesBranchAndWorkingTree(t *testing.T) {
	dir := t.TempDir()
	fangs(t, dir, "init")
	writeFile(t, dir, "a.txt", "on-master")
	fangs(t, dir, "add", "a.txt")
	fangs(t, dir, "commit", "master commit")

	fangs(t, dir, "branch", "feature")
	fangs(t, dir, "checkout", "feature")

	status := fangs(t, dir, "status")
	if !strings.Contains(status, "feature") {
		t.Errorf("status after checkout = %q, want branch 'feature'", status)
	}
}

func TestMerge_FastForwardAdvancesBranch(t *testing.T) {
	dir := t.TempDir()
	fangs(t, dir, "init")
	writeFile(t, dir, "a.txt", "v1")
	fangs(t, dir, "add", "a.txt")
	fangs(t, dir, "commit", "root")

	fangs(t, dir, "branch", "feature")
	fangs(t, dir, "checkout", "feature")
	writeFile(t, dir, "b.txt", "v1")
	fangs(t, dir, "add", "b.txt")
	fangs(t, dir, "commit", "feature work")

	fangs(t, dir, "checkout", "master")
	out := fangs(t, dir, "merge", "feature")
	if !strings.Contains(strings.ToLower(out), "fast-forward") {
		t.Errorf("merge output = %q, want mention of fast-forward", out)
	}
}

func TestMerge_ConflictingChangesReportConflictPaths(t *testing.T) {
	dir := t.TempDir()
	fangs(t, dir, "init")
	writeFile(t, dir, "a.txt", "base")
	fangs(t, dir, "add", "a.txt")
	fangs(t, dir, "commit", "root")

	fangs(t, dir, "branch", "feature")

	writeFile(t, dir, "a.txt", "from master")
	fangs(t, dir, "add", "a.txt")
	fangs(t, dir, "commit", "master change")

	fangs(t, dir, "checkout", "feature")
	writeFile(t, dir, "a.txt", "from feature")
	fangs(t, dir, "add", "a.txt")
	fangs(t, dir, "commit", "feature change")

	fangs(t, dir, "checkout", "master")
	out, err := fangsRaw(t, dir, "merge", "feature")
	if err == nil {
		t.Fatal("conflicting merge should exit non-zero")
	}
	if !strings.Contains(out.stdout, "a.txt") {
		t.Errorf("merge conflict output = %q, want it to name a.txt", out.stdout)
	}
}

func TestStatus_ReportsUntrackedAndStaged(t *testing.T) {
	dir := t.TempDir()
	fangs(t, dir, "init")
	writeFile(t, dir, "tracked.txt", "v1")
	fangs(t, dir, "add", "tracked.txt")
	fangs(t, dir, "commit", "root")

	writeFile(t, dir, "tracked.txt", "v2")
	writeFile(t, dir, "untracked.txt", "new")
	fangs(t, dir, "add", "tracked.txt")

	out := fangs(t, dir, "status", "--porcelain")
	if !strings.Contains(out, "tracked.txt") {
		t.Errorf("status --porcelain = %q, want tracked.txt listed", out)
	}
	if !strings.Contains(out, "untracked.txt") {
		t.Errorf("status --porcelain = %q, want untracked.txt listed", out)
	}
}

// commitIDs extracts the full 40-hex commit ids from non-oneline `log`
// output (each commit's first line is "commit <40-hex>[...]"), in the
// order logged (most recent first).
func commitIDs(t *testing.T, log string) []string {
	t.Helper()
	var ids []string
	for _, line := range strings.Split(log, "\n") {
		if after, ok := strings.CutPrefix(line, "commit "); ok {
			ids = append(ids, strings.Fields(after)[0])
		}
	}
	return ids
}

func TestDiff_BetweenCommitsListsChangedPaths(t *testing.T) {
	dir := t.TempDir()
	fangs(t, dir, "init")
	writeFile(t, dir, "a.txt", "v1")
	fangs(t, dir, "add", "a.txt")
	fangs(t, dir, "commit", "first")

	writeFile(t, dir, "a.txt", "v2")
	writeFile(t, dir, "b.txt", "new")
	fangs(t, dir, "add", "a.txt", "b.txt")
	fangs(t, dir, "commit", "second")

	ids := commitIDs(t, fangs(t, dir, "log"))
	if len(ids) != 2 {
		t.Fatalf("log produced %d commit ids, want 2", len(ids))
	}
	secondID, firstID := ids[0], ids[1]

	out := fangs(t, dir, "diff", "--stat", firstID, secondID)
	if !strings.Contains(out, "a.txt") || !strings.Contains(out, "b.txt") {
		t.Errorf("diff --stat = %q, want both a.txt and b.txt listed", out)
	}
}
