package check

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/cmd/internal/workdir"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "validate a result file left by a plugin",
		ArgsUsage: "[result.json]",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				path = wf.ResultFile
			}

			res, err := Check(path)
			if err != nil {
				return err
			}

			slog.InfoContext(c.Context, "result is valid",
				"path", path,
				"phase", res.Phase,
				"message", res.Message,
				"artifacts", len(res.Outputs.Artifacts),
				"parameters", len(res.Outputs.Parameters))
			return nil
		},
	}
}

// Check reads and validates the result file at path.
func Check(path string) (wf.Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return wf.Result{}, err
	}

	res, err := workdir.Decode(b)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	return res, nil
}
