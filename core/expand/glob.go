package expand

import (
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Glob expansion supports *, ?, [abc], [a-z], [!...] and the
// recursive **/ prefix. A pattern that matches nothing is passed
// through unchanged. Hidden entries are skipped unless the pattern
// itself starts with a dot. Matches come back sorted.

// ExpandGlob expands one word against the session filesystem. Words
// without glob characters are returned as-is without touching the
// filesystem.
func (e *Expander) ExpandGlob(pattern string) []string {
	if !strings.ContainsAny(pattern, "*?[") {
		return []string{pattern}
	}

	var matches []string
	if strings.Contains(pattern, "**/") || pattern == "**" {
		matches = e.expandRecursive(pattern)
	} else {
		matches = e.expandFlat(pattern)
	}

	if len(matches) == 0 {
		return []string{pattern}
	}
	return matches
}

func (e *Expander) expandFlat(pattern string) []string {
	dir, filePat := ".", pattern
	if i := strings.LastIndexByte(pattern, '/'); i >= 0 {
		dir, filePat = pattern[:i], pattern[i+1:]
		if dir == "" {
			dir = "/"
		}
	}

	entries, err := afero.ReadDir(e.State.FS(), e.resolve(dir))
	if err != nil {
		return nil
	}

	var matches []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(filePat, ".") {
			continue
		}
		if matchGlob(name, filePat) {
			matches = append(matches, joinMatch(dir, name))
		}
	}

	sort.Strings(matches)
	return matches
}

func (e *Expander) expandRecursive(pattern string) []string {
	startDir, filePat := ".", "*"
	if pos := strings.Index(pattern, "**/"); pos >= 0 {
		if prefix := pattern[:pos]; prefix != "" {
			startDir = strings.TrimRight(prefix, "/")
		}
		filePat = pattern[pos+3:]
	}

	var matches []string
	e.walkDir(startDir, filePat, &matches)
	sort.Strings(matches)
	return matches
}

// walkDir matches filePat against every entry name under dir,
// descending into subdirectories. Hidden entries are never visited.
func (e *Expander) walkDir(dir, filePat string, matches *[]string) {
	entries, err := afero.ReadDir(e.State.FS(), e.resolve(dir))
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		full := joinMatch(dir, name)
		if matchGlob(name, filePat) {
			*matches = append(*matches, full)
		}
		if entry.IsDir() {
			e.walkDir(full, filePat, matches)
		}
	}
}

// resolve makes a pattern directory absolute relative to the session
// working directory so ReadDir works regardless of process cwd.
func (e *Expander) resolve(dir string) string {
	if path.IsAbs(dir) {
		return dir
	}
	return path.Join(e.State.Cwd(), dir)
}

// joinMatch keeps relative matches relative: "*.txt" expands to bare
// names, "sub/*.txt" to "sub/name".
func joinMatch(dir, name string) string {
	if dir == "." {
		return name
	}
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

func matchGlob(text, pattern string) bool {
	return matchGlobBytes([]byte(text), []byte(pattern))
}

func matchGlobBytes(text, pattern []byte) bool {
	if len(pattern) == 0 {
		return len(text) == 0
	}

	switch pattern[0] {
	case '*':
		for i := 0; i <= len(text); i++ {
			if matchGlobBytes(text[i:], pattern[1:]) {
				return true
			}
		}
		return false

	case '[':
		if len(text) == 0 {
			return false
		}
		matched, rest := matchBracket(text[0], pattern[1:])
		return matched && matchGlobBytes(text[1:], rest)

	case '?':
		return len(text) > 0 && matchGlobBytes(text[1:], pattern[1:])

	default:
		return len(text) > 0 && text[0] == pattern[0] &&
			matchGlobBytes(text[1:], pattern[1:])
	}
}

// matchBracket matches ch against a [...] class whose leading '[' has
// been consumed, returning the pattern remainder past the ']'.
func matchBracket(ch byte, pattern []byte) (bool, []byte) {
	negate := false
	if len(pattern) > 0 && pattern[0] == '!' {
		negate = true
		pattern = pattern[1:]
	}

	matched := false
	i := 0
	for i < len(pattern) && pattern[i] != ']' {
		if i+2 < len(pattern) && pattern[i+1] == '-' && pattern[i+2] != ']' {
			if ch >= pattern[i] && ch <= pattern[i+2] {
				matched = true
			}
			i += 3
		} else {
			if ch == pattern[i] {
				matched = true
			}
			i++
		}
	}

	rest := pattern[i:]
	if i < len(pattern) {
		rest = pattern[i+1:] // skip ']'
	}
	if negate {
		matched = !matched
	}
	return matched, rest
}
