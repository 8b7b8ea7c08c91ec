package state

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/gshell/gsh/core/parser"
)

// Alias and function definitions persist across sessions in the rc
// file. Saves rewrite only the owned section: alias saves drop old
// "alias ..." lines and append the current table; function saves drop
// old definition blocks and append the current bodies. Everything else
// in the file is preserved verbatim.

// SaveAliases rewrites the alias section of the rc file.
func (s *State) SaveAliases() error {
	path := s.RCPath()
	if path == "" {
		return nil
	}

	kept := readRCLines(s.fs, path, func(lines []string, i int) int {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "alias ") {
			return i + 1
		}
		return -1
	})

	s.rw.RLock()
	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		kept = append(kept, fmt.Sprintf("alias %s='%s'", name, s.aliases[name]))
	}
	s.rw.RUnlock()

	return writeRCLines(s.fs, path, kept)
}

// SaveFunctions rewrites the function section of the rc file.
func (s *State) SaveFunctions() error {
	path := s.RCPath()
	if path == "" {
		return nil
	}

	kept := readRCLines(s.fs, path, skipFunctionBlock)

	s.rw.RLock()
	names := make([]string, 0, len(s.functions))
	for name := range s.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fn := s.functions[name]
		kept = append(kept, fn.Name+"() {")
		for _, line := range fn.Body {
			kept = append(kept, "\t"+line)
		}
		kept = append(kept, "}")
	}
	s.rw.RUnlock()

	return writeRCLines(s.fs, path, kept)
}

// skipFunctionBlock returns the index past a function definition
// starting at line i, or -1 if line i does not open one. Multi-line
// bodies end at a line that is just "}".
func skipFunctionBlock(lines []string, i int) int {
	line := strings.TrimSpace(lines[i])
	if _, ok := parser.ParseFunctionStart(line); !ok {
		return -1
	}
	if strings.HasSuffix(line, "}") {
		return i + 1 // one-liner
	}
	for j := i + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "}" {
			return j + 1
		}
	}
	return len(lines)
}

// readRCLines returns the rc file's lines minus any regions claimed by
// skip. skip gets the line index and returns the index past the region
// it owns, or -1 to keep the line.
func readRCLines(fs afero.Fs, path string, skip func(lines []string, i int) int) []string {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	var kept []string
	for i := 0; i < len(lines); {
		if next := skip(lines, i); next > i {
			i = next
			continue
		}
		kept = append(kept, lines[i])
		i++
	}
	return kept
}

func writeRCLines(fs afero.Fs, path string, lines []string) error {
	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return afero.WriteFile(fs, path, []byte(buf.String()), 0o644)
}
