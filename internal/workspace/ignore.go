package workspace

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ignorePattern is a single parsed .fangsignore pattern.
type ignorePattern struct {
	pattern  string
	negated  bool
	dirOnly  bool
	anchored bool
}

// Matcher aggregates .fangsignore patterns loaded from a repository root and
// answers whether a given relative path should be skipped by the scanner
// (SPEC_FULL.md §4 supplemented feature: .fangsignore).
type Matcher struct {
	patterns []ignorePattern
}

// LoadMatcher reads <root>/.fangsignore. A missing file produces an empty,
// always-false Matcher — ignoring is opt-in.
func LoadMatcher(root string) *Matcher {
	m := &Matcher{}

	f, err := os.Open(filepath.Join(root, ".fangsignore")) //nolint:gosec // root is the caller's repository root
	if err != nil {
		return m
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if pat, ok := parseIgnoreLine(scanner.Text()); ok {
			m.patterns = append(m.patterns, pat)
		}
	}
	return m
}

// Match reports whether relPath (forward-slash, repository-relative) should
// be ignored. isDir indicates whether the path names a directory.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	ignored := false
	for _, pat := range m.patterns {
		if pat.dirOnly && !isDir {
			continue
		}
		if matchesPattern(pat, relPath) {
			ignored = !pat.negated
		}
	}
	return ignored
}

func parseIgnoreLine(line string) (ignorePattern, bool) {
	line = strings.TrimRight(line, " \t")
	if line == "" || line[0] == '#' {
		return ignorePattern{}, false
	}

	var pat ignorePattern
	if line[0] == '!' {
		pat.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		pat.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		pat.anchored = true
		line = line[1:]
	}
	if strings.Contains(line, "/") {
		remainder := strings.TrimPrefix(line, "**/")
		if strings.Contains(remainder, "/") || !strings.HasPrefix(line, "**/") {
			pat.anchored = true
		}
	}

	pat.pattern = line
	return pat, line != ""
}

func matchesPattern(pat ignorePattern, relPath string) bool {
	if pat.anchored {
		return matchGlob(pat.pattern, relPath)
	}

	base := relPath
	if idx := strings.LastIndex(relPath, "/"); idx >= 0 {
		base = relPath[idx+1:]
	}
	if matchGlob(pat.pattern, base) {
		return true
	}
	return matchGlob(pat.pattern, relPath)
}

// matchGlob matches a .fangsignore-style pattern against name, honoring "**"
// as zero-or-more path components the way a plain filepath.Match cannot.
func matchGlob(pattern, name string) bool {
	if !strings.Contains(pattern, "**") {
		matched, _ := filepath.Match(pattern, name)
		return matched
	}

	patParts := strings.Split(pattern, "/")
	nameParts := strings.Split(name, "/")
	return matchSegments(patParts, nameParts)
}

func matchSegments(patParts, nameParts []string) bool {
	pi, ni := 0, 0
	for pi < len(patParts) && ni < len(nameParts) {
		if patParts[pi] == "**" {
			pi++
			if pi >= len(patParts) {
				return true
			}
			for tryNi := ni; tryNi <= len(nameParts); tryNi++ {
				if matchSegments(patParts[pi:], nameParts[tryNi:]) {
					return true
				}
			}
			return false
		}
		matched, _ := filepath.Match(patParts[pi], nameParts[ni])
		if !matched {
			return false
		}
		pi++
		ni++
	}
	for pi < len(patParts) {
		if patParts[pi] != "**" {
			return false
		}
		pi++
	}
	return ni >= len(nameParts)
}
