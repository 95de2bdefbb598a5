package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	os_exec "os/exec"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/cmd/internal/flags"
	"github.com/wasm-workflows/go/cmd/internal/workdir"
	"github.com/wasm-workflows/go/util"
)

// ErrPluginFailed is returned when the plugin reports a Failed phase.
var ErrPluginFailed = errors.New("plugin failed")

func Command() *cli.Command {
	return &cli.Command{
		// wf run <binary> [args...]
		////
		Name:      "run",
		Usage:     "run a native plugin build against a scratch working directory",
		ArgsUsage: "<binary> [args...]",
		Flags: append(append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:    "env",
				Usage:   "extra plugin environment (`KEY=VALUE`)",
				EnvVars: []string{"WF_ENV"},
			},
		}, flags.InvocationFlags()...), flags.OutputFlags()...),

		// Main
		////
		Action: func(c *cli.Context) error {
			if !c.Args().Present() {
				return errors.New("missing plugin binary")
			}

			dir, err := workdir.New()
			if err != nil {
				return err
			}

			if c.Bool("keep") {
				slog.InfoContext(c.Context, "keeping working directory",
					"path", dir)
			} else {
				defer dir.Close()
			}

			return Main(c, dir)
		},
	}
}

func Main(c *cli.Context, dir *workdir.Dir) error {
	ctx := c.Context

	inv, inputs, err := invocation(c)
	if err != nil {
		return err
	}

	if err := dir.SetInput(inv); err != nil {
		return err
	}

	if err := Stage(ctx, dir.Artifacts(), inputs); err != nil {
		return err
	}

	slog.DebugContext(ctx, "staged invocation",
		"workflow", inv.WorkflowName,
		"parameters", len(inv.Parameters),
		"artifacts", len(inv.Artifacts),
		"dir", dir)

	res, err := Exec(ctx, dir, Config{
		Name:   c.Args().First(),
		Args:   c.Args().Tail(),
		Env:    c.StringSlice("env"),
		Stdout: c.App.ErrWriter, // keep stdout for the result
		Stderr: c.App.ErrWriter,
	})
	if err != nil {
		return err
	}

	if err := json.NewEncoder(c.App.Writer).Encode(res); err != nil {
		return err
	}

	if res.Phase == wf.Failed {
		return fmt.Errorf("%w: %s", ErrPluginFailed, res.Message)
	}

	outdir, err := util.ExpandHome(c.Path("output-dir"))
	if err != nil {
		return err
	}

	collected, err := Collect(ctx, dir.Artifacts(), res, c.StringSlice("collect"), outdir)
	if err != nil {
		return err
	}

	for _, rel := range collected {
		slog.InfoContext(ctx, "collected artifact",
			"path", filepath.Join(outdir, rel))
	}

	return nil
}

func invocation(c *cli.Context) (wf.Invocation, []Input, error) {
	inv, err := LoadInvocation(c.Path("invocation"))
	if err != nil {
		return inv, nil, err
	}

	if name := c.String("workflow"); name != "" {
		inv.WorkflowName = name
	}

	params, err := ParseParameters(c.StringSlice("param"))
	if err != nil {
		return inv, nil, fmt.Errorf("invalid parameter: %w", err)
	}

	opts, err := ParseParameters(c.StringSlice("plugin-option"))
	if err != nil {
		return inv, nil, fmt.Errorf("invalid plugin option: %w", err)
	}

	var inputs []Input
	for _, arg := range c.StringSlice("artifact") {
		in, err := ParseInput(arg)
		if err != nil {
			return inv, nil, fmt.Errorf("invalid artifact: %w", err)
		}
		inputs = append(inputs, in)
	}

	inv, inputs = Merge(inv, params, opts, inputs)
	return inv, inputs, nil
}

// Config for a single plugin process.
type Config struct {
	Name   string
	Args   []string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// Exec runs the plugin with its working directory pointed at dir and
// returns the result it left behind.
func Exec(ctx context.Context, dir *workdir.Dir, cfg Config) (wf.Result, error) {
	name, err := resolveExecPath(cfg.Name)
	if err != nil {
		return wf.Result{}, err
	}

	cmd := os_exec.CommandContext(ctx, name, cfg.Args...)
	cmd.Env = append(os.Environ(), wf.EnvWorkingDir+"="+dir.String())
	cmd.Env = append(cmd.Env, cfg.Env...)
	cmd.Stdout = cfg.Stdout
	cmd.Stderr = cfg.Stderr

	slog.DebugContext(ctx, "starting plugin",
		"path", name,
		"args", cfg.Args)

	if err := cmd.Run(); err != nil {
		return wf.Result{}, fmt.Errorf("plugin %s: %w", cfg.Name, err)
	}

	return dir.Result()
}

// resolveExecPath makes paths with a directory component absolute and
// looks bare names up in $PATH.
func resolveExecPath(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		return filepath.Abs(name)
	}

	return os_exec.LookPath(name)
}
