package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"
	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/cmd/internal/flags"
	"github.com/wasm-workflows/go/cmd/wf/check"
	"github.com/wasm-workflows/go/cmd/wf/run"
	"github.com/wasm-workflows/go/cmd/wf/scaffold"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt,
		os.Kill)
	defer cancel()

	app := &cli.App{
		Name:                      "wf",
		Usage:                     "build and try out workflow plugins",
		Version:                   wf.Version,
		Before:                    setup,
		Flags:                     flags.LoggingFlags(),
		DisableSliceFlagSeparator: true,
		Commands: []*cli.Command{
			scaffold.Command(),
			run.Command(),
			check.Command(),
		},
	}

	err := app.RunContext(ctx, os.Args)
	if err != nil {
		slog.ErrorContext(ctx, err.Error())
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return err
	}

	slog.SetDefault(slog.New(tint.NewHandler(c.App.ErrWriter, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    c.Bool("no-color"),
	})))

	return nil
}
