package dashboard

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/mark-oise/fangs/internal/objstore"
)

// commitView is the JSON/template-facing shape of a LogEntry. MessageHTML
// renders the commit message as Markdown — fangs commit messages are
// free text, and the dashboard is the one surface that benefits from
// letting authors format them (headings, lists, code spans).
type commitView struct {
	ID          string        `json:"id"`
	Short       string        `json:"short"`
	Parents     []string      `json:"parents"`
	Author      string        `json:"author"`
	Timestamp   string        `json:"timestamp"`
	Message     string        `json:"message"`
	MessageHTML template.HTML `json:"-"`
}

type branchView struct {
	Name    string `json:"name"`
	Current bool   `json:"current"`
}

type statusEntryView struct {
	Class string `json:"class"`
	Path  string `json:"path"`
}

type statusView struct {
	Branch   string            `json:"branch"`
	Detached bool              `json:"detached"`
	Clean    bool              `json:"clean"`
	Entries  []statusEntryView `json:"entries"`
}

// repoState is the full snapshot pushed to the browser on connect and on
// every debounced filesystem change.
type repoState struct {
	Commits  []commitView `json:"commits"`
	Branches []branchView `json:"branches"`
	Status   statusView   `json:"status"`
}

func renderMarkdown(msg string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(msg), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(msg)) //nolint:gosec // fallback to escaped plain text
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark output, not user-controlled page assembly
}

func idStrings(ids []objstore.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// buildState loads the repository's current log, branches, and status
// into the view model the dashboard renders and broadcasts.
func (s *Server) buildState() (*repoState, error) {
	entries, err := s.repo.Log()
	if err != nil {
		return nil, err
	}
	commits := make([]commitView, len(entries))
	for i, e := range entries {
		commits[i] = commitView{
			ID:          string(e.ID),
			Short:       e.ID.Short(),
			Parents:     idStrings(e.Commit.Parents),
			Author:      e.Commit.Author,
			Timestamp:   e.Commit.Timestamp,
			Message:     e.Commit.Message,
			MessageHTML: renderMarkdown(e.Commit.Message),
		}
	}

	branches, err := s.repo.Branches()
	if err != nil {
		return nil, err
	}
	branchViews := make([]branchView, len(branches))
	for i, b := range branches {
		branchViews[i] = branchView{Name: b.Name, Current: b.Current}
	}

	report, err := s.repo.Status()
	if err != nil {
		return nil, err
	}
	entryViews := make([]statusEntryView, len(report.Entries))
	for i, e := range report.Entries {
		entryViews[i] = statusEntryView{Class: e.Class.String(), Path: e.Path}
	}

	return &repoState{
		Commits:  commits,
		Branches: branchViews,
		Status: statusView{
			Branch:   report.Branch,
			Detached: report.Detached,
			Clean:    len(report.Entries) == 0,
			Entries:  entryViews,
		},
	}, nil
}
