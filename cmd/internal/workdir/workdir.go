// Package workdir prepares the directory that a plugin sees as its
// working directory, and reads back what the plugin left there.
package workdir

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/guest"
)

// ErrNoResult is returned when the plugin exited without writing a
// result file.
var ErrNoResult = errors.New("plugin did not write " + wf.ResultFile)

type Dir struct {
	guest.WorkDir
}

// New creates a temporary working directory, including the input and
// output artifact directories.
func New() (*Dir, error) {
	path, err := os.MkdirTemp("", "wf-*")
	if err != nil {
		return nil, err
	}

	d := &Dir{WorkDir: guest.WorkDir(path)}
	for _, sub := range []string{wf.InputArtifactsDir, wf.OutputArtifactsDir} {
		if err := os.MkdirAll(d.Path(sub), 0o755); err != nil {
			defer d.Close()
			return nil, fmt.Errorf("failed to create %s: %w", sub, err)
		}
	}

	return d, nil
}

func (d *Dir) String() string {
	return string(d.WorkDir)
}

// SetInput writes the invocation for the plugin to read.
func (d *Dir) SetInput(inv wf.Invocation) error {
	b, err := json.Marshal(inv)
	if err != nil {
		return err
	}

	return os.WriteFile(d.InputPath(), b, 0o644)
}

// Result decodes and validates the result file.
func (d *Dir) Result() (res wf.Result, err error) {
	b, err := os.ReadFile(d.ResultPath())
	if errors.Is(err, fs.ErrNotExist) {
		return res, ErrNoResult
	} else if err != nil {
		return res, err
	}

	return Decode(b)
}

// Decode a result, rejecting unknown fields and invalid phases.
func Decode(b []byte) (res wf.Result, err error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&res); err != nil {
		return res, fmt.Errorf("malformed result: %w", err)
	}

	return res, res.Validate()
}

// Close removes the directory and everything in it.
func (d *Dir) Close() error {
	return os.RemoveAll(string(d.WorkDir))
}
