//go:generate env GOOS=wasip1 GOARCH=wasm go build -o main.wasm .

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/guest"
	"go.uber.org/multierr"
)

const result = `{"phase":"Succeeded","message":"Hello","outputs":{"artifacts":[],"parameters":[]}}`

func main() {
	log := guest.Logger()

	if err := run(os.Stdout, wf.DefaultWorkingDir()); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(console io.Writer, dir string) (err error) {
	fmt.Fprint(console, "Hello World!\n")

	path := filepath.Join(dir, wf.ResultFile)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "could not open the file %s", path)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	_, err = fmt.Fprintln(f, result)
	return
}
