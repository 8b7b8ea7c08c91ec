package shell

import (
	"github.com/spf13/afero"
)

// loadRC evaluates the rc file at startup. Function definitions are
// registered directly so loading never rewrites the file being read.
func (s *Shell) loadRC(path string) {
	data, err := afero.ReadFile(s.State.FS(), path)
	if err != nil {
		// A missing rc file is the normal first-run case.
		return
	}
	EvalLines(s.Exec, string(data))
}
