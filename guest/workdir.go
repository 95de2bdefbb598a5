package guest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	wf "github.com/wasm-workflows/go"
	"go.uber.org/multierr"
)

// WorkDir is the directory shared with the host.  Inside a WASI
// sandbox it is the preopened wf.WorkingDir.
type WorkDir string

// DefaultWorkDir honors $WF_WORKING_DIR and falls back to wf.WorkingDir.
func DefaultWorkDir() WorkDir {
	return WorkDir(wf.DefaultWorkingDir())
}

func (wd WorkDir) Path(elem ...string) string {
	return filepath.Join(append([]string{string(wd)}, elem...)...)
}

func (wd WorkDir) InputPath() string {
	return wd.Path(wf.InputFile)
}

func (wd WorkDir) ResultPath() string {
	return wd.Path(wf.ResultFile)
}

func (wd WorkDir) Artifacts() Artifacts {
	return Artifacts{Root: wd}
}

// Invocation decodes the input file written by the host.
func (wd WorkDir) Invocation() (inv wf.Invocation, err error) {
	path := wd.InputPath()

	f, err := os.Open(path)
	if err != nil {
		return inv, errors.Wrapf(err, "could not open the file %s", path)
	}
	defer f.Close()

	if err = json.NewDecoder(f).Decode(&inv); err != nil {
		err = errors.Wrapf(err, "could not decode invocation from %s", path)
	}

	return
}

// SetResult creates or truncates the result file and writes res to
// it as a single line of JSON.
func (wd WorkDir) SetResult(res wf.Result) (err error) {
	b, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "could not encode result")
	}

	path := wd.ResultPath()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "could not open the file %s", path)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if _, err = f.Write(append(b, '\n')); err != nil {
		err = errors.Wrapf(err, "could not write the file %s", path)
	}

	return
}
