// Package guest is the runtime for workflow plugins.  A plugin is a
// program, usually compiled to WASI, that reads its invocation from
// the working directory and leaves a result there before it exits.
//
//	func main() {
//		guest.Main(guest.PluginFunc(run))
//	}
package guest

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	wf "github.com/wasm-workflows/go"
)

// EnvLogLevel sets the level of the plugin's stderr logger.
const EnvLogLevel = "WF_LOG_LEVEL"

// Run a plugin against wd.  Errors returned by the plugin become a
// Failed result.  Run only returns an error if the invocation cannot
// be read or the result cannot be written.
func Run(ctx context.Context, wd WorkDir, p Plugin) error {
	inv, err := wd.Invocation()
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "invoked",
		"workflow", inv.WorkflowName,
		"parameters", len(inv.Parameters),
		"artifacts", len(inv.Artifacts))

	res, err := p.Run(ctx, inv, wd.Artifacts())
	if err == nil {
		err = res.Validate()
	}
	if err != nil {
		slog.WarnContext(ctx, "plugin failed",
			"reason", err)
		res = wf.Failure(err)
	}

	return wd.SetResult(res)
}

// Main runs p against the default working directory and exits the
// process with a non-zero status if the runtime itself fails.
func Main(p Plugin) {
	ctx := context.Background()
	slog.SetDefault(Logger())

	if err := Run(ctx, DefaultWorkDir(), p); err != nil {
		slog.ErrorContext(ctx, err.Error())
		os.Exit(1)
	}
}

// Logger writes to stderr without color, since the host captures it.
func Logger() *slog.Logger {
	return NewLogger(os.Stderr)
}

// NewLogger returns a colorless tint logger writing to w, at the level
// named by $WF_LOG_LEVEL.
func NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if s, ok := os.LookupEnv(EnvLogLevel); ok {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			level = slog.LevelInfo
		}
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:   level,
		NoColor: true,
	}))
}
